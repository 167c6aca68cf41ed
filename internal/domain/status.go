package domain

// AnimationStatus — состояние анимации построения DFA.
//
// Жизненный цикл:
//
//	IDLE → RUNNING → IDLE (stop, завершение построения или ошибка шага)
type AnimationStatus string

const (
	// AnimationStatusIdle — таймер не взведён, шаги не выполняются.
	AnimationStatusIdle AnimationStatus = "IDLE"

	// AnimationStatusRunning — шаги выполняются по таймеру.
	AnimationStatusRunning AnimationStatus = "RUNNING"
)

// IsRunning возвращает true для RUNNING.
func (s AnimationStatus) IsRunning() bool {
	return s == AnimationStatusRunning
}

// ConversionStatus — итог построения DFA, сохранённого в БД.
//
// Жизненный цикл:
//
//	SUCCEEDED (построение дошло до пустого frontier)
//	FAILED    (шаг завершился ошибкой)
type ConversionStatus string

const (
	// ConversionStatusSucceeded — DFA построен полностью.
	ConversionStatusSucceeded ConversionStatus = "SUCCEEDED"

	// ConversionStatusFailed — построение прервано ошибкой.
	ConversionStatusFailed ConversionStatus = "FAILED"
)

// String возвращает строковое представление ConversionStatus.
func (s ConversionStatus) String() string {
	return string(s)
}

// ParseConversionStatus парсит строку в ConversionStatus.
func ParseConversionStatus(s string) ConversionStatus {
	switch s {
	case "SUCCEEDED":
		return ConversionStatusSucceeded
	default:
		return ConversionStatusFailed
	}
}
