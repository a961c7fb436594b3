// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// ExtractionCandidates tracks candidates produced per cascade strategy.
	ExtractionCandidates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_extraction_candidates_total",
			Help: "Candidate events produced, by extraction strategy",
		},
		[]string{"strategy"},
	)

	// CascadeOutcomes tracks terminal pipeline outcomes.
	CascadeOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_cascade_outcomes_total",
			Help: "Terminal cascade outcomes (confirmed, clarify, abandoned)",
		},
		[]string{"outcome"},
	)

	// AgentCallDuration tracks delegated extractor call latency.
	AgentCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agent_call_duration_seconds",
			Help:    "Delegated extractor call duration",
			Buckets: []float64{.5, 1, 2, 5, 10, 20, 30, 45, 60, 90, 120},
		},
		[]string{"mode", "status"},
	)

	// ClarificationRounds tracks clarification loop rounds.
	ClarificationRounds = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pipeline_clarification_rounds_total",
			Help: "Clarification rounds processed",
		},
	)

	// EventsSaved tracks events persisted after confirmation.
	EventsSaved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pipeline_events_saved_total",
			Help: "Events persisted after user confirmation",
		},
	)

	// PendingStates tracks active pending conversation states.
	PendingStates = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pipeline_pending_states",
			Help: "Active pending conversation states by kind",
		},
		[]string{"kind"},
	)

	// RemindersSent tracks dispatched reminders.
	RemindersSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reminders_sent_total",
			Help: "Reminders dispatched by the scheduler",
		},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordAgentCall records metrics for one delegated extractor invocation.
func RecordAgentCall(mode, status string, duration float64) {
	AgentCallDuration.WithLabelValues(mode, status).Observe(duration)
}

// RecordCandidates records candidates produced by a strategy.
func RecordCandidates(strategy string, n int) {
	if n > 0 {
		ExtractionCandidates.WithLabelValues(strategy).Add(float64(n))
	}
}
