package converter

import (
	"fmt"

	"github.com/shaiso/nfa2dfa/internal/fsa"
)

// Step — результат одного вызова StepForward.
type Step struct {
	// Index — порядковый номер шага (с нуля).
	Index int `json:"index"`

	// From — состояние DFA, для которого вычислялся переход.
	From string `json:"from"`

	// Symbol — обработанный символ алфавита.
	Symbol string `json:"symbol"`

	// To — целевое состояние DFA; пусто, если перехода нет.
	To string `json:"to,omitempty"`

	// Target — ε-замыкание множества состояний NFA, куда ведёт символ.
	Target []string `json:"target"`

	// Created — целевое состояние DFA создано на этом шаге.
	Created bool `json:"created"`

	// Accepting — целевое состояние DFA принимающее.
	Accepting bool `json:"accepting"`

	// Description — человекочитаемое описание шага.
	// Только для отображения, формат не гарантируется.
	Description string `json:"description"`

	// DFA — копия DFA после шага.
	DFA *fsa.FSA `json:"dfa"`
}

// StepSummary — шаг без копии DFA, для журналов и списков.
type StepSummary struct {
	Index       int      `json:"index"`
	From        string   `json:"from"`
	Symbol      string   `json:"symbol"`
	To          string   `json:"to,omitempty"`
	Target      []string `json:"target"`
	Created     bool     `json:"created"`
	Accepting   bool     `json:"accepting"`
	Description string   `json:"description"`
}

// Summary возвращает шаг без DFA.
func (s *Step) Summary() StepSummary {
	return StepSummary{
		Index:       s.Index,
		From:        s.From,
		Symbol:      s.Symbol,
		To:          s.To,
		Target:      s.Target,
		Created:     s.Created,
		Accepting:   s.Accepting,
		Description: s.Description,
	}
}

// Summarize применяет Summary к каждому шагу.
func Summarize(steps []*Step) []StepSummary {
	out := make([]StepSummary, 0, len(steps))
	for _, step := range steps {
		out = append(out, step.Summary())
	}
	return out
}

// Dead сообщает, что по символу переходов нет.
func (s *Step) Dead() bool {
	return s.To == ""
}

func describe(s *Step) string {
	if s.Dead() {
		return fmt.Sprintf("δ(%s, %s) = ∅: no transition", s.From, s.Symbol)
	}

	desc := fmt.Sprintf("δ(%s, %s) = %s", s.From, s.Symbol, s.To)
	if s.Created {
		desc += fmt.Sprintf(": new state for NFA states %s", fsa.SetLabel(s.Target))
		if s.Accepting {
			desc += ", accepting"
		}
	}
	return desc
}
