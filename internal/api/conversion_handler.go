package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/nfa2dfa/internal/converter"
	"github.com/shaiso/nfa2dfa/internal/domain"
	"github.com/shaiso/nfa2dfa/internal/mq"
	"github.com/shaiso/nfa2dfa/internal/repo"
	"github.com/shaiso/nfa2dfa/internal/telemetry"
)

// ListConversions возвращает построения автомата с фильтрацией.
// GET /api/v1/automata/{id}/conversions?status=...&limit=...&offset=...
func (h *Handler) ListConversions(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid automaton id")
		return
	}

	filter := repo.ConversionFilter{AutomatonID: &id}

	switch status := r.URL.Query().Get("status"); status {
	case "":
	case string(domain.ConversionStatusSucceeded), string(domain.ConversionStatusFailed):
		filter.Status = domain.ConversionStatus(status)
	default:
		BadRequest(w, "invalid status")
		return
	}

	if filter.Limit, err = queryInt(r, "limit", 50); err != nil {
		BadRequest(w, "invalid limit")
		return
	}
	if filter.Offset, err = queryInt(r, "offset", 0); err != nil {
		BadRequest(w, "invalid offset")
		return
	}

	// Проверяем, что автомат существует
	_, err = h.automata.GetByID(r.Context(), id)
	if HandleError(w, h.logger, err, "automaton not found") {
		return
	}

	conversions, err := h.conversions.List(r.Context(), filter)
	if HandleError(w, h.logger, err, "") {
		return
	}

	result := make([]ConversionResponse, len(conversions))
	for i, c := range conversions {
		result[i] = ConversionResponse{Conversion: c}
	}

	List(w, result, len(result))
}

// CreateConversion строит DFA целиком и сохраняет результат.
// Ошибка шага тоже сохраняется: построение получает статус FAILED.
// POST /api/v1/automata/{id}/conversions
func (h *Handler) CreateConversion(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid automaton id")
		return
	}

	var req CreateConversionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		BadRequest(w, "invalid request body")
		return
	}

	labels, err := converter.ParseLabelScheme(req.Labels)
	if HandleError(w, h.logger, err, "") {
		return
	}

	automaton, err := h.automata.GetByID(r.Context(), id)
	if HandleError(w, h.logger, err, "automaton not found") {
		return
	}

	nfa, err := automaton.NFA()
	if err != nil {
		HandleError(w, h.logger, fmt.Errorf("%w: %w", converter.ErrInvalidNFA, err), "")
		return
	}

	conversion := &domain.Conversion{
		ID:          uuid.New(),
		AutomatonID: automaton.ID,
		Labels:      string(labels),
		CreatedAt:   time.Now(),
	}
	logger := telemetry.WithConversionID(telemetry.WithAutomatonID(telemetry.FromContext(r.Context()), automaton.ID.String()), conversion.ID.String())

	conv, err := converter.New(nfa, converter.Config{Labels: labels, Logger: logger})
	if HandleError(w, h.logger, err, "") {
		return
	}

	steps, stepErr := conv.Complete()
	for _, step := range steps {
		telemetry.ConversionSteps.WithLabelValues(telemetry.StepOutcome(step.Dead(), step.Created)).Inc()
	}

	if stepErr != nil {
		conversion.MarkFailed(conv.StepCount(), stepErr.Error())
		logger.Warn("conversion failed", "steps", conversion.Steps, "error", stepErr)
	} else {
		conversion.MarkSucceeded(conv.Snapshot(), conv.StepCount())
		telemetry.DFAStates.Observe(float64(conversion.States))
		logger.Info("conversion complete", "dfa_states", conversion.States, "steps", conversion.Steps)
	}
	telemetry.ConversionsTotal.WithLabelValues(string(conversion.Status)).Inc()

	if err := h.conversions.Create(r.Context(), conversion); err != nil {
		HandleError(w, h.logger, err, "automaton not found")
		return
	}

	h.publishConversion(r, conversion, logger)

	resp := ConversionResponse{Conversion: *conversion}
	if req.Trace {
		resp.Trace = converter.Summarize(steps)
	}

	Created(w, resp)
}

// GetConversion возвращает построение по ID.
// GET /api/v1/conversions/{id}
func (h *Handler) GetConversion(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid conversion id")
		return
	}

	conversion, err := h.conversions.GetByID(r.Context(), id)
	if HandleError(w, h.logger, err, "conversion not found") {
		return
	}

	Success(w, ConversionResponse{Conversion: *conversion})
}

// publishConversion сообщает о построении. Ошибка брокера не отменяет ответ:
// построение уже сохранено.
func (h *Handler) publishConversion(r *http.Request, c *domain.Conversion, logger *slog.Logger) {
	if h.publisher == nil {
		return
	}

	err := h.publisher.PublishConversionCompleted(r.Context(), mq.ConversionCompletedPayload{
		ConversionID: c.ID,
		AutomatonID:  c.AutomatonID,
		Status:       c.Status.String(),
		States:       c.States,
		Steps:        c.Steps,
		Error:        c.Error,
	})
	if err != nil {
		logger.Warn("failed to publish conversion", "error", err)
	}
}

// queryInt читает неотрицательное целое из query, def — если параметра нет.
func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return n, nil
}
