package controllers

import (
	"context"
	"math"
	"net/http"

	"github.com/cropwatch/cropwatch-backend/api/responses"
	"github.com/cropwatch/cropwatch-backend/api/validators"
	"github.com/cropwatch/cropwatch-backend/internal/weather"
	pkgerrors "github.com/cropwatch/cropwatch-backend/pkg/errors"
	"github.com/cropwatch/cropwatch-backend/pkg/logger"
)

// WeatherReporter never fails; upstream errors become mock readings.
type WeatherReporter interface {
	Current(ctx context.Context, lat, lon float64) *weather.Report
	Forecast(ctx context.Context, lat, lon float64, days int) *weather.ForecastReport
}

// WeatherCurrent serves GET /weather. Upstream failures are absorbed by the
// service, so only bad coordinates fail.
func WeatherCurrent(svc WeatherReporter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "weather service unavailable"))
			return
		}

		lat, lon, err := validators.ParseCoordinates(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, svc.Current(r.Context(), lat, lon))
	}
}

// WeatherForecast serves GET /weather/forecast. Out-of-range days are clamped
// rather than rejected.
func WeatherForecast(svc WeatherReporter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "weather service unavailable"))
			return
		}

		lat, lon, err := validators.ParseCoordinates(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		days, err := validators.ParseQueryInt(r, "days", weather.DefaultForecastDays, math.MinInt32, math.MaxInt32)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, svc.Forecast(r.Context(), lat, lon, weather.ClampDays(days)))
	}
}
