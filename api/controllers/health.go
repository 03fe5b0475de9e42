package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/cropwatch/cropwatch-backend/api/responses"
	"github.com/cropwatch/cropwatch-backend/pkg/config"
	pkgerrors "github.com/cropwatch/cropwatch-backend/pkg/errors"
	"github.com/cropwatch/cropwatch-backend/pkg/logger"
)

const (
	serviceName    = "Crop Health Monitoring System"
	serviceVersion = "1.0"
	readyTimeout   = 2 * time.Second
)

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// Pinger is a dependency checked by the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg != nil {
			w.Header().Set("X-CropWatch-Env", cfg.App.Env)
		}
		responses.WriteSuccess(w, HealthStatus{
			Status:    "online",
			Service:   serviceName,
			Version:   serviceVersion,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// HealthReady pings every named dependency and answers 503 when any fails.
func HealthReady(cfg *config.Config, deps map[string]Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg != nil {
			w.Header().Set("X-CropWatch-Env", cfg.App.Env)
		}

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		checks := make(map[string]string, len(deps))
		var failed []string
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				checks[name] = "unavailable"
				failed = append(failed, name)
				if logg != nil {
					logg.Warn(logg.WithFields(r.Context(), map[string]any{"dependency": name, "error": err.Error()}), "health.ready.dependency_failed")
				}
				continue
			}
			checks[name] = "ok"
		}

		if len(failed) > 0 {
			err := pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").WithDetails(map[string]any{"checks": checks})
			responses.WriteError(r.Context(), nil, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
