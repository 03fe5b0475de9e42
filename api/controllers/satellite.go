package controllers

import (
	"context"
	"net/http"

	"github.com/cropwatch/cropwatch-backend/api/responses"
	"github.com/cropwatch/cropwatch-backend/api/validators"
	"github.com/cropwatch/cropwatch-backend/internal/satellite"
	pkgerrors "github.com/cropwatch/cropwatch-backend/pkg/errors"
	"github.com/cropwatch/cropwatch-backend/pkg/logger"
)

// ImageryProvider yields satellite bands for a coordinate.
type ImageryProvider interface {
	GetImagery(ctx context.Context, lat, lon float64) (*satellite.Imagery, error)
}

// SatelliteImagery serves GET /satellite.
func SatelliteImagery(svc ImageryProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "satellite service unavailable"))
			return
		}

		lat, lon, err := validators.ParseCoordinates(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		imagery, err := svc.GetImagery(r.Context(), lat, lon)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, imagery)
	}
}
