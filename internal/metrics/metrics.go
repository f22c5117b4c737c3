package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Interview and oracle metrics for production monitoring.
var (
	SessionsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fivewhys_sessions_started_total",
			Help: "Total number of analysis sessions started",
		},
	)

	SessionsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fivewhys_sessions_completed_total",
			Help: "Total number of sessions that reached a terminal result",
		},
		[]string{"reason"}, // root_found or max_depth
	)

	SessionsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fivewhys_sessions_deleted_total",
			Help: "Total number of sessions deleted by callers",
		},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fivewhys_active_sessions",
			Help: "Number of sessions currently held in memory",
		},
	)

	ClarificationsRequested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fivewhys_clarifications_total",
			Help: "Total number of answers bounced back for clarification",
		},
	)

	StepsAdvanced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fivewhys_steps_advanced_total",
			Help: "Total number of why-steps appended to sessions",
		},
	)

	OracleRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fivewhys_oracle_requests_total",
			Help: "Total number of oracle round trips",
		},
		[]string{"purpose", "status"}, // purpose: first_why, decision, summary
	)

	OracleRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fivewhys_oracle_request_duration_seconds",
			Help:    "Oracle round-trip duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~1min
		},
		[]string{"purpose"},
	)
)
