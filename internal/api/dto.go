package api

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/nfa2dfa/internal/converter"
	"github.com/shaiso/nfa2dfa/internal/domain"
	"github.com/shaiso/nfa2dfa/internal/fsa"
	"github.com/shaiso/nfa2dfa/internal/session"
)

// ErrInvalidSource — NFA в запросе задан не ровно одним способом.
var ErrInvalidSource = errors.New("exactly one of snapshot, source or preset is required")

// Source DTOs

// SourceRequest — NFA в запросе: готовый снимок, текст файла
// в одном из форматов или имя встроенного примера.
type SourceRequest struct {
	Snapshot *fsa.Snapshot `json:"snapshot,omitempty"`
	Source   string        `json:"source,omitempty"`
	Format   string        `json:"format,omitempty"` // json (default), yaml, hcl
	Preset   string        `json:"preset,omitempty"`
}

// given возвращает число заданных способов.
func (s SourceRequest) given() int {
	n := 0
	if s.Snapshot != nil {
		n++
	}
	if s.Source != "" {
		n++
	}
	if s.Preset != "" {
		n++
	}
	return n
}

// Resolve возвращает проверенный и нормализованный снимок.
func (s SourceRequest) Resolve() (*fsa.Snapshot, error) {
	if s.given() != 1 {
		return nil, ErrInvalidSource
	}

	snap := s.Snapshot
	switch {
	case s.Preset != "":
		preset, err := fsa.Preset(s.Preset)
		if err != nil {
			return nil, err
		}
		snap = preset

	case s.Source != "":
		format := fsa.FormatJSON
		if s.Format != "" {
			parsed, err := fsa.ParseFormat(s.Format)
			if err != nil {
				return nil, err
			}
			format = parsed
		}
		decoded, err := fsa.DecodeSnapshot([]byte(s.Source), format, "request."+string(format))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", converter.ErrInvalidNFA, err)
		}
		snap = decoded
	}

	nfa, err := snap.Reconstruct()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", converter.ErrInvalidNFA, err)
	}
	return fsa.Decompose(nfa, snap.Locations()), nil
}

// Preset DTOs

// PresetResponse — встроенный пример.
type PresetResponse struct {
	Name     string        `json:"name"`
	States   int           `json:"states"`
	Alphabet []string      `json:"alphabet"`
	Snapshot *fsa.Snapshot `json:"snapshot,omitempty"`
}

// Automaton DTOs

// CreateAutomatonRequest — запрос на сохранение NFA.
type CreateAutomatonRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	SourceRequest
}

// UpdateAutomatonRequest — запрос на изменение NFA.
// Снимок заменяется, только если задан источник.
type UpdateAutomatonRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	SourceRequest
}

// AutomatonResponse — ответ с автоматом.
type AutomatonResponse struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	States      int           `json:"states"`
	Alphabet    []string      `json:"alphabet"`
	Snapshot    *fsa.Snapshot `json:"snapshot,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// AutomatonFromDomain конвертирует domain.Automaton в AutomatonResponse.
// Список отдаётся без снимков.
func AutomatonFromDomain(a domain.Automaton, withSnapshot bool) AutomatonResponse {
	resp := AutomatonResponse{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		Alphabet:    []string{},
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if a.Snapshot != nil && a.Snapshot.FSA != nil {
		resp.States = len(a.Snapshot.FSA.States)
		resp.Alphabet = a.Snapshot.FSA.Alphabet
	}
	if withSnapshot {
		resp.Snapshot = a.Snapshot
	}
	return resp
}

// Conversion DTOs

// CreateConversionRequest — запрос на полное построение DFA.
type CreateConversionRequest struct {
	Labels string `json:"labels,omitempty"` // sets (default), letters
	Trace  bool   `json:"trace,omitempty"`  // вернуть журнал шагов
}

// ConversionResponse — ответ с построением.
type ConversionResponse struct {
	domain.Conversion
	Trace []converter.StepSummary `json:"trace,omitempty"`
}

// Session DTOs

// CreateSessionRequest — запрос на открытие сессии.
// NFA берётся из сохранённого автомата (automaton_id) либо из источника.
type CreateSessionRequest struct {
	Name        string     `json:"name,omitempty"`
	AutomatonID *uuid.UUID `json:"automaton_id,omitempty"`
	Labels      string     `json:"labels,omitempty"`
	IntervalMs  int64      `json:"interval_ms,omitempty"`
	SourceRequest
}

// StepResponse — ответ на один шаг. Step = nil, если построение завершено.
type StepResponse struct {
	Step    *converter.StepSummary `json:"step"`
	Session session.View           `json:"session"`
}

// CompleteResponse — ответ на выполнение оставшихся шагов.
type CompleteResponse struct {
	Steps   []converter.StepSummary `json:"steps"`
	Session session.View            `json:"session"`
}

// encodeSnapshot отдаёт снимок в выбранном формате.
func encodeSnapshot(snap *fsa.Snapshot, format fsa.Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := fsa.EncodeSnapshot(&buf, snap, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
