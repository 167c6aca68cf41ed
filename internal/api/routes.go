package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Middleware chain
	chain := Chain(
		Recovery(h.logger),
		Metrics(),
		Logging(h.logger),
	)

	// Presets
	mux.Handle("GET /api/v1/presets", chain(http.HandlerFunc(h.ListPresets)))
	mux.Handle("GET /api/v1/presets/{name}", chain(http.HandlerFunc(h.GetPreset)))

	// Automata и их построения
	if h.automata != nil && h.conversions != nil {
		mux.Handle("GET /api/v1/automata", chain(http.HandlerFunc(h.ListAutomata)))
		mux.Handle("POST /api/v1/automata", chain(http.HandlerFunc(h.CreateAutomaton)))
		mux.Handle("GET /api/v1/automata/{id}", chain(http.HandlerFunc(h.GetAutomaton)))
		mux.Handle("PUT /api/v1/automata/{id}", chain(http.HandlerFunc(h.UpdateAutomaton)))
		mux.Handle("DELETE /api/v1/automata/{id}", chain(http.HandlerFunc(h.DeleteAutomaton)))

		mux.Handle("GET /api/v1/automata/{id}/conversions", chain(http.HandlerFunc(h.ListConversions)))
		mux.Handle("POST /api/v1/automata/{id}/conversions", chain(http.HandlerFunc(h.CreateConversion)))
		mux.Handle("GET /api/v1/conversions/{id}", chain(http.HandlerFunc(h.GetConversion)))
	}

	// Sessions
	if h.sessions != nil {
		mux.Handle("GET /api/v1/sessions", chain(http.HandlerFunc(h.ListSessions)))
		mux.Handle("POST /api/v1/sessions", chain(http.HandlerFunc(h.CreateSession)))
		mux.Handle("GET /api/v1/sessions/{id}", chain(http.HandlerFunc(h.GetSession)))
		mux.Handle("DELETE /api/v1/sessions/{id}", chain(http.HandlerFunc(h.DeleteSession)))
		mux.Handle("GET /api/v1/sessions/{id}/steps", chain(http.HandlerFunc(h.ListSessionSteps)))
		mux.Handle("POST /api/v1/sessions/{id}/step", chain(http.HandlerFunc(h.StepSession)))
		mux.Handle("POST /api/v1/sessions/{id}/complete", chain(http.HandlerFunc(h.CompleteSession)))
		mux.Handle("POST /api/v1/sessions/{id}/play", chain(http.HandlerFunc(h.PlaySession)))
		mux.Handle("POST /api/v1/sessions/{id}/stop", chain(http.HandlerFunc(h.StopSession)))
		mux.Handle("POST /api/v1/sessions/{id}/toggle", chain(http.HandlerFunc(h.ToggleSession)))
		mux.Handle("POST /api/v1/sessions/{id}/reset", chain(http.HandlerFunc(h.ResetSession)))
	}
}
