package controllers

import (
	"net/http"

	"github.com/cropwatch/cropwatch-backend/api/responses"
	"github.com/cropwatch/cropwatch-backend/api/validators"
	"github.com/cropwatch/cropwatch-backend/internal/knowledge"
	pkgerrors "github.com/cropwatch/cropwatch-backend/pkg/errors"
	"github.com/cropwatch/cropwatch-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

func CropDatabase(catalog *knowledge.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if catalog == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "crop catalog unavailable"))
			return
		}
		responses.WriteSuccess(w, catalog.CropDatabase())
	}
}

func MaintenanceGuide(catalog *knowledge.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if catalog == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "crop catalog unavailable"))
			return
		}
		guide, err := catalog.MaintenanceGuide(chi.URLParam(r, "crop"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, guide)
	}
}

func CropRecommendations(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body knowledge.RecommendationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, knowledge.Recommend(body))
	}
}

func SoilHealth(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body knowledge.SoilRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, knowledge.SoilHealth(body))
	}
}
