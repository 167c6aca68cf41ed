package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/shaiso/nfa2dfa/internal/domain"
)

// ListAutomata возвращает список сохранённых автоматов (без снимков).
// GET /api/v1/automata
func (h *Handler) ListAutomata(w http.ResponseWriter, r *http.Request) {
	automata, err := h.automata.List(r.Context())
	if HandleError(w, h.logger, err, "") {
		return
	}

	result := make([]AutomatonResponse, len(automata))
	for i, a := range automata {
		result[i] = AutomatonFromDomain(a, false)
	}

	List(w, result, len(result))
}

// CreateAutomaton сохраняет новый NFA.
// POST /api/v1/automata
func (h *Handler) CreateAutomaton(w http.ResponseWriter, r *http.Request) {
	var req CreateAutomatonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.Name == "" {
		BadRequest(w, "name is required")
		return
	}

	snap, err := req.Resolve()
	if HandleError(w, h.logger, err, "preset not found") {
		return
	}

	automaton := &domain.Automaton{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Snapshot:    snap,
	}

	if err := h.automata.Create(r.Context(), automaton); err != nil {
		HandleError(w, h.logger, err, "")
		return
	}

	Created(w, AutomatonFromDomain(*automaton, true))
}

// GetAutomaton возвращает автомат по ID.
// GET /api/v1/automata/{id}
func (h *Handler) GetAutomaton(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid automaton id")
		return
	}

	automaton, err := h.automata.GetByID(r.Context(), id)
	if HandleError(w, h.logger, err, "automaton not found") {
		return
	}

	Success(w, AutomatonFromDomain(*automaton, true))
}

// UpdateAutomaton обновляет автомат.
// PUT /api/v1/automata/{id}
func (h *Handler) UpdateAutomaton(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid automaton id")
		return
	}

	var req UpdateAutomatonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	automaton, err := h.automata.GetByID(r.Context(), id)
	if HandleError(w, h.logger, err, "automaton not found") {
		return
	}

	if req.Name != nil {
		if *req.Name == "" {
			BadRequest(w, "name cannot be empty")
			return
		}
		automaton.Name = *req.Name
	}
	if req.Description != nil {
		automaton.Description = *req.Description
	}
	if req.given() > 0 {
		snap, err := req.Resolve()
		if HandleError(w, h.logger, err, "preset not found") {
			return
		}
		automaton.Snapshot = snap
	}

	if err := h.automata.Update(r.Context(), automaton); err != nil {
		HandleError(w, h.logger, err, "automaton not found")
		return
	}

	Success(w, AutomatonFromDomain(*automaton, true))
}

// DeleteAutomaton удаляет автомат вместе с его построениями.
// DELETE /api/v1/automata/{id}
func (h *Handler) DeleteAutomaton(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid automaton id")
		return
	}

	if err := h.automata.Delete(r.Context(), id); err != nil {
		HandleError(w, h.logger, err, "automaton not found")
		return
	}

	NoContent(w)
}
