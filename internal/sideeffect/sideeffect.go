// Package sideeffect runs best-effort work attached to a request: persisting
// an observation, mailing an alert. Failures are counted and logged, never returned.
package sideeffect

import (
	"context"
	"fmt"
	"time"

	"github.com/cropwatch/cropwatch-backend/pkg/logger"
	"github.com/cropwatch/cropwatch-backend/pkg/metrics"
)

// Outcome reports how a side effect went.
type Outcome struct {
	Name     string
	Err      error
	Duration time.Duration
}

// OK is true when the side effect completed without error.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Runner executes side effects with shared logging and metrics.
type Runner struct {
	logg    *logger.Logger
	metrics *metrics.SideEffectMetrics
}

// NewRunner builds a runner. Both arguments may be nil.
func NewRunner(logg *logger.Logger, m *metrics.SideEffectMetrics) *Runner {
	return &Runner{logg: logg, metrics: m}
}

// Run executes fn once. A panic inside fn is converted into the outcome error.
func (r *Runner) Run(ctx context.Context, name string, fn func(context.Context) error) (out Outcome) {
	out.Name = name
	if r != nil && r.logg != nil {
		ctx = r.logg.WithOperation(ctx, name)
	}
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			out.Err = fmt.Errorf("panic: %v", rec)
		}
		out.Duration = time.Since(start)
		r.record(ctx, out)
	}()

	if fn == nil {
		return out
	}
	out.Err = fn(ctx)
	return out
}

func (r *Runner) record(ctx context.Context, out Outcome) {
	if r == nil {
		return
	}
	r.metrics.ObserveDuration(out.Name, out.Duration)
	if out.OK() {
		r.metrics.IncSuccess(out.Name)
		if r.logg != nil {
			r.logg.Debug(r.logg.WithField(ctx, "duration_ms", out.Duration.Milliseconds()), "side_effect.completed")
		}
		return
	}
	r.metrics.IncFailure(out.Name)
	if r.logg != nil {
		logCtx := r.logg.WithFields(ctx, map[string]any{
			"error":       out.Err.Error(),
			"duration_ms": out.Duration.Milliseconds(),
		})
		r.logg.Warn(logCtx, "side_effect.failed")
	}
}
