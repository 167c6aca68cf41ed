package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal — HTTP запросы API по методу, маршруту и статусу.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nfa2dfa_api_http_requests_total",
		Help: "Total HTTP requests handled by nfa2dfa API",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration — длительность HTTP запросов API.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nfa2dfa_api_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// ConversionSteps — выполненные шаги построения.
	// outcome: "new_state", "existing_state", "dead".
	ConversionSteps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nfa2dfa_conversion_steps_total",
		Help: "Subset construction steps by outcome",
	}, []string{"outcome"})

	// ConversionsTotal — завершённые построения по статусу.
	ConversionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nfa2dfa_conversions_total",
		Help: "Finished conversions by status",
	}, []string{"status"})

	// DFAStates — размер построенных DFA.
	DFAStates = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "nfa2dfa_dfa_states",
		Help:    "Number of states in completed DFAs",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})

	// ActiveSessions — открытые сессии построения.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "nfa2dfa_sessions_active",
		Help: "Open conversion sessions",
	})

	// SessionsEvicted — сессии, закрытые по простою.
	SessionsEvicted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nfa2dfa_sessions_evicted_total",
		Help: "Conversion sessions closed after being idle",
	})

	// RunningAnimations — сессии с запущенной анимацией.
	RunningAnimations = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "nfa2dfa_animations_running",
		Help: "Sessions with a running animation",
	})

	// EventsPublished — события, отправленные в RabbitMQ.
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nfa2dfa_events_published_total",
		Help: "Session events published to the message broker",
	}, []string{"type", "result"})
)

// StepOutcome классифицирует шаг для ConversionSteps.
func StepOutcome(dead, created bool) string {
	switch {
	case dead:
		return "dead"
	case created:
		return "new_state"
	default:
		return "existing_state"
	}
}
