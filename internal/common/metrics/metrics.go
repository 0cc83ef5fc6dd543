// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_requests_total",
			Help: "Total number of agent gateway calls by outcome",
		},
		[]string{"operation", "outcome"},
	)

	GatewayFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_fallbacks_total",
			Help: "Total number of degraded fallback payloads served",
		},
		[]string{"operation"},
	)

	GatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "gateway_request_duration_seconds",
			Help: "Duration of agent gateway calls in seconds",
		},
		[]string{"operation"},
	)

	SessionCommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_commands_total",
			Help: "Total number of session state transitions by command",
		},
		[]string{"command"},
	)

	StaleResponsesDiscarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_stale_responses_discarded_total",
			Help: "Gateway chat responses discarded because a newer send superseded them",
		},
		[]string{"channel"},
	)

	BriefingLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "briefing_load_duration_seconds",
			Help: "Wall time of briefing loads including the minimum display window",
		},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sessions_active",
			Help: "Number of live dashboard sessions",
		},
	)
)
