package converter

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig — NFA не подходит для построения подмножеств.
// Все ошибки конструктора, кроме ошибок валидации модели, оборачивают её.
var ErrInvalidConfig = errors.New("invalid conversion config")

// Ошибки конструктора.
var (
	// ErrNilNFA — NFA не передан.
	ErrNilNFA = fmt.Errorf("%w: nfa is nil", ErrInvalidConfig)

	// ErrNoStates — в NFA нет ни одного состояния.
	ErrNoStates = fmt.Errorf("%w: nfa has no states", ErrInvalidConfig)

	// ErrNoStartState — у NFA не задано стартовое состояние.
	ErrNoStartState = fmt.Errorf("%w: nfa has no start state", ErrInvalidConfig)

	// ErrEmptyAlphabet — у NFA пустой алфавит.
	ErrEmptyAlphabet = fmt.Errorf("%w: nfa alphabet is empty", ErrInvalidConfig)

	// ErrUnknownLabelScheme — неизвестная схема именования состояний DFA.
	ErrUnknownLabelScheme = fmt.Errorf("%w: unknown label scheme", ErrInvalidConfig)
)

// ErrInvalidNFA — NFA нарушает инварианты модели.
var ErrInvalidNFA = errors.New("invalid nfa")

// ErrConverterBroken — предыдущий шаг завершился ошибкой.
// Состояние конвертера после этого не восстанавливается: его нужно
// пересоздать из исходного NFA.
var ErrConverterBroken = errors.New("converter is broken by a failed step")
