package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/nfa2dfa/internal/fsa"
)

// Conversion — сохранённый результат построения DFA для Automaton.
//
// Создаётся, когда построение выполнено целиком (complete),
// либо когда оно прервано ошибкой шага.
type Conversion struct {
	// ID — уникальный идентификатор построения.
	ID uuid.UUID `json:"id"`

	// AutomatonID — исходный NFA.
	AutomatonID uuid.UUID `json:"automaton_id"`

	// Labels — схема именования состояний DFA ("sets", "letters").
	Labels string `json:"labels"`

	// Status — итог построения.
	Status ConversionStatus `json:"status"`

	// DFA — снимок DFA с сеточной раскладкой. Nil при FAILED.
	DFA *fsa.Snapshot `json:"dfa,omitempty"`

	// Steps — число выполненных шагов.
	Steps int `json:"steps"`

	// States — число состояний DFA.
	States int `json:"states"`

	// Error — текст ошибки при FAILED.
	Error string `json:"error,omitempty"`

	// CreatedAt — время построения.
	CreatedAt time.Time `json:"created_at"`
}

// MarkSucceeded фиксирует успешный результат.
func (c *Conversion) MarkSucceeded(dfa *fsa.Snapshot, steps int) {
	c.Status = ConversionStatusSucceeded
	c.DFA = dfa
	c.Steps = steps
	if dfa != nil && dfa.FSA != nil {
		c.States = len(dfa.FSA.States)
	}
}

// MarkFailed фиксирует ошибку построения.
func (c *Conversion) MarkFailed(steps int, err string) {
	c.Status = ConversionStatusFailed
	c.Steps = steps
	c.Error = err
}
