package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultOK       = "ok"
	ResultFallback = "fallback"
	ResultError    = "error"
)

// DependencyMetrics tracks calls to upstream services.
type DependencyMetrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewDependencyMetrics registers the upstream collectors on the provided registerer.
func NewDependencyMetrics(reg prometheus.Registerer) *DependencyMetrics {
	if reg == nil {
		return &DependencyMetrics{}
	}
	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dependency_calls_total",
		Help:      "Upstream calls by dependency and result.",
	}, []string{"dependency", "result"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "dependency_call_duration_seconds",
		Help:      "Upstream call latency by dependency.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"dependency"})
	reg.MustRegister(calls, duration)
	return &DependencyMetrics{calls: calls, duration: duration}
}

// Observe records one upstream call.
func (m *DependencyMetrics) Observe(dependency, result string, duration time.Duration) {
	if m == nil || m.calls == nil {
		return
	}
	dependency = normalizeLabel(dependency)
	m.calls.WithLabelValues(dependency, normalizeLabel(result)).Inc()
	m.duration.WithLabelValues(dependency).Observe(duration.Seconds())
}
