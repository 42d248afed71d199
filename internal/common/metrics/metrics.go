// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ServiceRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_console_requests_total",
			Help: "Total number of scoring service calls by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	ServiceRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "credit_console_request_duration_seconds",
			Help:    "Duration of scoring service calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	Evaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_console_evaluations_total",
			Help: "Evaluation submissions by result",
		},
		[]string{"result"},
	)

	StartupStages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_console_startup_stages_total",
			Help: "Startup stage completions by stage and outcome",
		},
		[]string{"stage", "outcome"},
	)

	Notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_console_notifications_total",
			Help: "Notifications shown by kind",
		},
		[]string{"kind"},
	)

	SubmissionsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "credit_console_submissions_in_flight",
			Help: "Evaluation requests currently outstanding (0 or 1)",
		},
	)
)

// Outcome labels.
const (
	OutcomeSuccess      = "success"
	OutcomeNetworkError = "network_error"
	OutcomeServiceError = "service_error"
)
