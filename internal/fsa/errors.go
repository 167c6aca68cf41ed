package fsa

import "errors"

// Ошибки работы с состояниями.
var (
	// ErrEmptyLabel — у состояния пустая метка.
	ErrEmptyLabel = errors.New("state has empty label")

	// ErrDuplicateState — состояние с такой меткой уже есть.
	ErrDuplicateState = errors.New("duplicate state")

	// ErrStateNotFound — состояние с такой меткой отсутствует.
	ErrStateNotFound = errors.New("state not found")
)

// Ошибки алфавита и переходов.
var (
	// ErrEmptySymbol — пустой символ алфавита.
	ErrEmptySymbol = errors.New("symbol is empty")

	// ErrDuplicateSymbol — символ уже есть в алфавите.
	ErrDuplicateSymbol = errors.New("duplicate symbol")

	// ErrEpsilonInAlphabet — ε зарезервирован и не может входить в алфавит.
	ErrEpsilonInAlphabet = errors.New("epsilon cannot be part of the alphabet")

	// ErrUnknownSymbol — символ перехода не входит в алфавит.
	ErrUnknownSymbol = errors.New("symbol is not in the alphabet")

	// ErrSymbolInUse — символ нельзя убрать, пока его используют переходы.
	ErrSymbolInUse = errors.New("symbol is used by transitions")
)

// Ошибки снимков.
var (
	// ErrMissingFSA — в снимке нет секции fsa.
	ErrMissingFSA = errors.New("snapshot has no fsa")

	// ErrNodeMismatch — узлы снимка не совпадают с состояниями автомата.
	ErrNodeMismatch = errors.New("snapshot nodes do not match fsa states")

	// ErrUnknownFormat — неизвестный формат файла.
	ErrUnknownFormat = errors.New("unknown snapshot format")

	// ErrPresetNotFound — нет встроенного примера с таким именем.
	ErrPresetNotFound = errors.New("preset not found")
)

// ValidationError — ошибка валидации автомата с контекстом.
type ValidationError struct {
	State   string // метка состояния, где обнаружена проблема
	Field   string // поле модели: states, alphabet, transitions, start, accept
	Message string // описание ошибки
	Err     error  // базовая ошибка
}

// Error реализует интерфейс error.
func (e *ValidationError) Error() string {
	if e.State != "" {
		return "state " + e.State + ": " + e.Message
	}
	return e.Message
}

// Unwrap возвращает базовую ошибку.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError создаёт новую ошибку валидации.
func NewValidationError(state, field, message string, err error) *ValidationError {
	return &ValidationError{
		State:   state,
		Field:   field,
		Message: message,
		Err:     err,
	}
}
