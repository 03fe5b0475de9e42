package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SideEffectMetrics records best-effort work (persistence, alert mail) that runs
// alongside a request.
type SideEffectMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewSideEffectMetrics registers the side effect metrics on the provided registerer.
func NewSideEffectMetrics(reg prometheus.Registerer) *SideEffectMetrics {
	if reg == nil {
		return &SideEffectMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "side_effect_duration_seconds",
		Help:      "Duration of best-effort side effects in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"effect"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "side_effect_success_total",
		Help:      "Side effects that completed.",
	}, []string{"effect"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "side_effect_failure_total",
		Help:      "Side effects that failed and were swallowed.",
	}, []string{"effect"})
	reg.MustRegister(duration, success, failure)
	return &SideEffectMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the duration for the named effect.
func (m *SideEffectMetrics) ObserveDuration(effect string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(effect)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named effect.
func (m *SideEffectMetrics) IncSuccess(effect string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(effect)).Inc()
}

// IncFailure increments the failure counter for the named effect.
func (m *SideEffectMetrics) IncFailure(effect string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(effect)).Inc()
}
