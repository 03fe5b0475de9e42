package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "cropwatch"

// Metrics bundles every collector the API exposes.
type Metrics struct {
	HTTP         *HTTPMetrics
	SideEffects  *SideEffectMetrics
	Dependencies *DependencyMetrics
}

// New registers all collectors on reg. A nil registerer yields no-op collectors.
func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		HTTP:         NewHTTPMetrics(reg),
		SideEffects:  NewSideEffectMetrics(reg),
		Dependencies: NewDependencyMetrics(reg),
	}
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
