package controllers

import (
	"context"
	"net/http"

	"github.com/cropwatch/cropwatch-backend/api/responses"
	"github.com/cropwatch/cropwatch-backend/api/validators"
	"github.com/cropwatch/cropwatch-backend/internal/vegetation"
	pkgerrors "github.com/cropwatch/cropwatch-backend/pkg/errors"
	"github.com/cropwatch/cropwatch-backend/pkg/logger"
)

// HealthScorer scores crop health for a coordinate.
type HealthScorer interface {
	GetHealth(ctx context.Context, req vegetation.HealthRequest) (*vegetation.HealthReport, error)
}

// CropHealth serves POST /ndvi.
func CropHealth(svc HealthScorer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vegetation service unavailable"))
			return
		}

		var body vegetation.HealthRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.GetHealth(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}
