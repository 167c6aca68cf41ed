package fsa

import (
	"fmt"
	"slices"
)

// Epsilon — зарезервированный символ ε-перехода.
// Допустим в переходах NFA, но никогда не входит в алфавит.
const Epsilon = "ε"

// FSA — конечный автомат (детерминированный или нет).
//
// Порядок States и Alphabet — порядок добавления; он используется
// везде, где от автомата требуется детерминированный вывод.
// Списки назначений в Transitions всегда без дубликатов и отсортированы.
type FSA struct {
	// States — уникальные метки состояний.
	States []string `json:"states" yaml:"states"`

	// Alphabet — входные символы (без ε).
	Alphabet []string `json:"alphabet" yaml:"alphabet"`

	// Transitions — состояние → символ → отсортированные назначения.
	Transitions map[string]map[string][]string `json:"transitions" yaml:"transitions"`

	// StartState — стартовое состояние; "" означает, что не задано.
	StartState string `json:"startState,omitempty" yaml:"startState,omitempty"`

	// AcceptStates — принимающие состояния.
	AcceptStates []string `json:"acceptStates" yaml:"acceptStates"`
}

// New создаёт пустой автомат.
func New() *FSA {
	return &FSA{
		States:       make([]string, 0),
		Alphabet:     make([]string, 0),
		Transitions:  make(map[string]map[string][]string),
		AcceptStates: make([]string, 0),
	}
}

// HasState проверяет, есть ли состояние с такой меткой.
func (a *FSA) HasState(label string) bool {
	return slices.Contains(a.States, label)
}

// HasSymbol проверяет, допустим ли символ в переходе.
// ε допустим всегда.
func (a *FSA) HasSymbol(symbol string) bool {
	return symbol == Epsilon || slices.Contains(a.Alphabet, symbol)
}

// AddState добавляет состояние.
func (a *FSA) AddState(label string) error {
	if label == "" {
		return ErrEmptyLabel
	}
	if a.HasState(label) {
		return fmt.Errorf("%w: %s", ErrDuplicateState, label)
	}
	a.States = append(a.States, label)
	return nil
}

// RemoveState удаляет состояние вместе со всеми ссылками на него:
// из принимающих, из старта, исходящие переходы и входящие назначения.
func (a *FSA) RemoveState(label string) error {
	if !a.HasState(label) {
		return fmt.Errorf("%w: %s", ErrStateNotFound, label)
	}

	a.States = slices.DeleteFunc(a.States, func(s string) bool { return s == label })
	a.AcceptStates = slices.DeleteFunc(a.AcceptStates, func(s string) bool { return s == label })
	if a.StartState == label {
		a.StartState = ""
	}

	delete(a.Transitions, label)
	for from, bySymbol := range a.Transitions {
		for symbol, dests := range bySymbol {
			dests = slices.DeleteFunc(dests, func(s string) bool { return s == label })
			if len(dests) == 0 {
				delete(bySymbol, symbol)
			} else {
				bySymbol[symbol] = dests
			}
		}
		if len(bySymbol) == 0 {
			delete(a.Transitions, from)
		}
	}

	return nil
}

// SetStartState задаёт стартовое состояние.
func (a *FSA) SetStartState(label string) error {
	if !a.HasState(label) {
		return fmt.Errorf("%w: %s", ErrStateNotFound, label)
	}
	a.StartState = label
	return nil
}

// ClearStartState сбрасывает стартовое состояние.
func (a *FSA) ClearStartState() {
	a.StartState = ""
}

// AddAcceptState помечает состояние принимающим. Повторный вызов ничего не меняет.
func (a *FSA) AddAcceptState(label string) error {
	if !a.HasState(label) {
		return fmt.Errorf("%w: %s", ErrStateNotFound, label)
	}
	if !slices.Contains(a.AcceptStates, label) {
		a.AcceptStates = append(a.AcceptStates, label)
	}
	return nil
}

// RemoveAcceptState снимает пометку принимающего состояния.
func (a *FSA) RemoveAcceptState(label string) error {
	if !a.HasState(label) {
		return fmt.Errorf("%w: %s", ErrStateNotFound, label)
	}
	a.AcceptStates = slices.DeleteFunc(a.AcceptStates, func(s string) bool { return s == label })
	return nil
}

// IsAccepting проверяет, является ли состояние принимающим.
func (a *FSA) IsAccepting(label string) bool {
	return slices.Contains(a.AcceptStates, label)
}

// AddSymbol добавляет символ в конец алфавита.
func (a *FSA) AddSymbol(symbol string) error {
	if err := checkSymbol(symbol); err != nil {
		return err
	}
	if slices.Contains(a.Alphabet, symbol) {
		return fmt.Errorf("%w: %s", ErrDuplicateSymbol, symbol)
	}
	a.Alphabet = append(a.Alphabet, symbol)
	return nil
}

// SetAlphabet заменяет алфавит целиком.
// Символы, которые ещё используются переходами, убрать нельзя.
func (a *FSA) SetAlphabet(symbols []string) error {
	seen := make(map[string]bool, len(symbols))
	for _, symbol := range symbols {
		if err := checkSymbol(symbol); err != nil {
			return err
		}
		if seen[symbol] {
			return fmt.Errorf("%w: %s", ErrDuplicateSymbol, symbol)
		}
		seen[symbol] = true
	}

	for _, from := range a.States {
		for symbol := range a.Transitions[from] {
			if symbol != Epsilon && !seen[symbol] {
				return NewValidationError(from, "alphabet",
					fmt.Sprintf("symbol %s is still used by transitions", symbol), ErrSymbolInUse)
			}
		}
	}

	a.Alphabet = slices.Clone(symbols)
	return nil
}

func checkSymbol(symbol string) error {
	if symbol == "" {
		return ErrEmptySymbol
	}
	if symbol == Epsilon {
		return ErrEpsilonInAlphabet
	}
	return nil
}

// AddTransition добавляет переход from --symbol--> to.
//
// Назначения по (from, symbol) хранятся без дубликатов и отсортированными,
// поэтому повторное добавление того же перехода ничего не меняет.
func (a *FSA) AddTransition(from, to, symbol string) error {
	if !a.HasSymbol(symbol) {
		return NewValidationError(from, "transitions",
			fmt.Sprintf("could not add transition of symbol %s since it is not in the alphabet", symbol),
			ErrUnknownSymbol)
	}
	if !a.HasState(from) {
		return fmt.Errorf("%w: %s", ErrStateNotFound, from)
	}
	if !a.HasState(to) {
		return fmt.Errorf("%w: %s", ErrStateNotFound, to)
	}

	if a.Transitions == nil {
		a.Transitions = make(map[string]map[string][]string)
	}
	if a.Transitions[from] == nil {
		a.Transitions[from] = make(map[string][]string)
	}

	a.Transitions[from][symbol] = Canonical(append(a.Transitions[from][symbol], to))
	return nil
}

// Destinations возвращает назначения перехода (from, symbol).
// Для отсутствующего перехода возвращается пустой список.
func (a *FSA) Destinations(from, symbol string) ([]string, error) {
	if !a.HasState(from) {
		return nil, fmt.Errorf("%w: %s", ErrStateNotFound, from)
	}
	return slices.Clone(a.Transitions[from][symbol]), nil
}

// Validate проверяет все инварианты модели.
func (a *FSA) Validate() error {
	seen := make(map[string]bool, len(a.States))
	for _, label := range a.States {
		if label == "" {
			return NewValidationError("", "states", "state has empty label", ErrEmptyLabel)
		}
		if seen[label] {
			return NewValidationError(label, "states",
				fmt.Sprintf("duplicate state: %s", label), ErrDuplicateState)
		}
		seen[label] = true
	}

	symbols := make(map[string]bool, len(a.Alphabet))
	for _, symbol := range a.Alphabet {
		if err := checkSymbol(symbol); err != nil {
			return NewValidationError("", "alphabet", err.Error(), err)
		}
		if symbols[symbol] {
			return NewValidationError("", "alphabet",
				fmt.Sprintf("duplicate symbol: %s", symbol), ErrDuplicateSymbol)
		}
		symbols[symbol] = true
	}

	for from, bySymbol := range a.Transitions {
		if !seen[from] {
			return NewValidationError(from, "transitions",
				fmt.Sprintf("transition from unknown state: %s", from), ErrStateNotFound)
		}
		for symbol, dests := range bySymbol {
			if symbol != Epsilon && !symbols[symbol] {
				return NewValidationError(from, "transitions",
					fmt.Sprintf("symbol %s is not in the alphabet", symbol), ErrUnknownSymbol)
			}
			for _, to := range dests {
				if !seen[to] {
					return NewValidationError(from, "transitions",
						fmt.Sprintf("transition to unknown state: %s", to), ErrStateNotFound)
				}
			}
		}
	}

	if a.StartState != "" && !seen[a.StartState] {
		return NewValidationError(a.StartState, "start",
			"start state is not a member of states", ErrStateNotFound)
	}

	for _, label := range a.AcceptStates {
		if !seen[label] {
			return NewValidationError(label, "accept",
				"accept state is not a member of states", ErrStateNotFound)
		}
	}

	return nil
}

// Normalize приводит списки назначений к каноническому виду
// и убирает дубликаты принимающих состояний.
// Используется после декодирования снимков, написанных вручную.
func (a *FSA) Normalize() {
	if a.States == nil {
		a.States = make([]string, 0)
	}
	if a.Alphabet == nil {
		a.Alphabet = make([]string, 0)
	}
	if a.Transitions == nil {
		a.Transitions = make(map[string]map[string][]string)
	}
	for from, bySymbol := range a.Transitions {
		for symbol, dests := range bySymbol {
			if len(dests) == 0 {
				delete(bySymbol, symbol)
				continue
			}
			bySymbol[symbol] = Canonical(dests)
		}
		if len(bySymbol) == 0 {
			delete(a.Transitions, from)
		}
	}

	accept := make([]string, 0, len(a.AcceptStates))
	for _, label := range a.AcceptStates {
		if !slices.Contains(accept, label) {
			accept = append(accept, label)
		}
	}
	a.AcceptStates = accept
}

// Clone возвращает глубокую копию автомата.
func (a *FSA) Clone() *FSA {
	c := &FSA{
		States:       slices.Clone(a.States),
		Alphabet:     slices.Clone(a.Alphabet),
		Transitions:  make(map[string]map[string][]string, len(a.Transitions)),
		StartState:   a.StartState,
		AcceptStates: slices.Clone(a.AcceptStates),
	}
	if c.States == nil {
		c.States = make([]string, 0)
	}
	if c.Alphabet == nil {
		c.Alphabet = make([]string, 0)
	}
	if c.AcceptStates == nil {
		c.AcceptStates = make([]string, 0)
	}
	for from, bySymbol := range a.Transitions {
		m := make(map[string][]string, len(bySymbol))
		for symbol, dests := range bySymbol {
			m[symbol] = slices.Clone(dests)
		}
		c.Transitions[from] = m
	}
	return c
}

// IsDeterministic проверяет, что у автомата нет ε-переходов
// и на каждый символ не больше одного назначения.
func (a *FSA) IsDeterministic() bool {
	for _, bySymbol := range a.Transitions {
		for symbol, dests := range bySymbol {
			if symbol == Epsilon || len(dests) > 1 {
				return false
			}
		}
	}
	return true
}

// TransitionCount возвращает число рёбер (from, symbol, to).
func (a *FSA) TransitionCount() int {
	n := 0
	for _, bySymbol := range a.Transitions {
		for _, dests := range bySymbol {
			n += len(dests)
		}
	}
	return n
}
