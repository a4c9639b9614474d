package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// GatewayMetrics records remote data gateway round-trips.
type GatewayMetrics struct {
	duration *prometheus.HistogramVec
	calls    *prometheus.CounterVec
}

// NewGatewayMetrics registers the gateway metrics on the provided registerer.
func NewGatewayMetrics(reg prometheus.Registerer) *GatewayMetrics {
	if reg == nil {
		return &GatewayMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gs_gateway_call_duration_seconds",
		Help:    "Duration of remote data gateway calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"collection", "operation"})
	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gs_gateway_calls_total",
		Help: "Remote data gateway calls by outcome.",
	}, []string{"collection", "operation", "outcome"})
	reg.MustRegister(duration, calls)
	return &GatewayMetrics{
		duration: duration,
		calls:    calls,
	}
}

// Observe records one call. A non-nil err counts as a failure.
func (g *GatewayMetrics) Observe(collection, operation string, took time.Duration, err error) {
	if g == nil || g.duration == nil || g.calls == nil {
		return
	}
	collection = normalizeLabel(collection)
	operation = normalizeLabel(operation)
	g.duration.WithLabelValues(collection, operation).Observe(took.Seconds())
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	g.calls.WithLabelValues(collection, operation, outcome).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
