package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/nfa2dfa/internal/converter"
	"github.com/shaiso/nfa2dfa/internal/fsa"
	"github.com/shaiso/nfa2dfa/internal/session"
)

// ListSessions возвращает открытые сессии в порядке создания.
// GET /api/v1/sessions
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	views := h.sessions.List()
	List(w, views, len(views))
}

// CreateSession открывает сессию построения.
// POST /api/v1/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.IntervalMs < 0 {
		BadRequest(w, "interval_ms must be positive")
		return
	}

	var snap *fsa.Snapshot
	if req.AutomatonID != nil {
		if req.given() > 0 {
			BadRequest(w, "automaton_id cannot be combined with snapshot, source or preset")
			return
		}
		if h.automata == nil {
			BadRequest(w, "automaton storage is not configured")
			return
		}

		automaton, err := h.automata.GetByID(r.Context(), *req.AutomatonID)
		if HandleError(w, h.logger, err, "automaton not found") {
			return
		}
		if req.Name == "" {
			req.Name = automaton.Name
		}
		snap = automaton.Snapshot
	} else {
		resolved, err := req.Resolve()
		if HandleError(w, h.logger, err, "preset not found") {
			return
		}
		if req.Name == "" {
			req.Name = req.Preset
		}
		snap = resolved
	}

	s, err := h.sessions.Create(session.Params{
		Name:        req.Name,
		AutomatonID: req.AutomatonID,
		NFA:         snap,
		Labels:      converter.LabelScheme(req.Labels),
		Interval:    time.Duration(req.IntervalMs) * time.Millisecond,
	})
	if HandleError(w, h.logger, err, "") {
		return
	}

	Created(w, s.View())
}

// GetSession возвращает состояние сессии.
// GET /api/v1/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	Success(w, s.View())
}

// DeleteSession останавливает и удаляет сессию.
// DELETE /api/v1/sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid session id")
		return
	}

	if err := h.sessions.Delete(id); err != nil {
		HandleError(w, h.logger, err, "session not found")
		return
	}

	NoContent(w)
}

// ListSessionSteps возвращает журнал шагов сессии.
// GET /api/v1/sessions/{id}/steps?offset=...
func (h *Handler) ListSessionSteps(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		BadRequest(w, "invalid offset")
		return
	}

	steps := s.Steps(offset)
	List(w, steps, len(steps))
}

// StepSession выполняет один шаг; запущенная анимация останавливается.
// POST /api/v1/sessions/{id}/step
func (h *Handler) StepSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	step, err := s.Step()
	if HandleError(w, h.logger, err, "") {
		return
	}

	resp := StepResponse{Session: s.View()}
	if step != nil {
		summary := step.Summary()
		resp.Step = &summary
	}

	Success(w, resp)
}

// CompleteSession выполняет все оставшиеся шаги.
// POST /api/v1/sessions/{id}/complete
func (h *Handler) CompleteSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	steps, err := s.Complete()
	if HandleError(w, h.logger, err, "") {
		return
	}

	Success(w, CompleteResponse{
		Steps:   converter.Summarize(steps),
		Session: s.View(),
	})
}

// PlaySession запускает анимацию.
// POST /api/v1/sessions/{id}/play
func (h *Handler) PlaySession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	if HandleError(w, h.logger, s.Play(), "") {
		return
	}

	Success(w, s.View())
}

// StopSession останавливает анимацию.
// POST /api/v1/sessions/{id}/stop
func (h *Handler) StopSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	s.Stop()
	Success(w, s.View())
}

// ToggleSession переключает анимацию.
// POST /api/v1/sessions/{id}/toggle
func (h *Handler) ToggleSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	if _, err := s.Toggle(); HandleError(w, h.logger, err, "") {
		return
	}

	Success(w, s.View())
}

// ResetSession начинает построение заново.
// POST /api/v1/sessions/{id}/reset
func (h *Handler) ResetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	if HandleError(w, h.logger, s.Reset(), "") {
		return
	}

	Success(w, s.View())
}

// session находит сессию по {id}; при ошибке ответ уже отправлен.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid session id")
		return nil, false
	}

	s, err := h.sessions.Get(id)
	if HandleError(w, h.logger, err, "session not found") {
		return nil, false
	}
	return s, true
}
