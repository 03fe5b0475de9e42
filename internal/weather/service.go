package weather

import (
	"context"
	"fmt"
	"time"

	"github.com/cropwatch/cropwatch-backend/pkg/logger"
	"github.com/cropwatch/cropwatch-backend/pkg/openmeteo"
	"github.com/cropwatch/cropwatch-backend/pkg/readings"
	"github.com/cropwatch/cropwatch-backend/pkg/types"
)

const (
	DefaultForecastDays = 7
	MaxForecastDays     = 16

	mockNote   = "Using mock data"
	dependency = "open_meteo"
	dateLayout = "2006-01-02"
)

type upstream interface {
	CurrentWeather(ctx context.Context, lat, lon float64) (*openmeteo.Forecast, error)
	DailyForecast(ctx context.Context, lat, lon float64, days int) (*openmeteo.Forecast, error)
}

type dependencyObserver interface {
	Observe(dependency, result string, duration time.Duration)
}

// Service reads weather from Open-Meteo and substitutes plausible random
// values whenever the upstream call fails.
type Service struct {
	client  upstream
	rng     *readings.Source
	metrics dependencyObserver
	logg    *logger.Logger
	now     func() time.Time
}

// ServiceParams bundles the weather service dependencies.
type ServiceParams struct {
	Client  upstream
	Random  *readings.Source
	Metrics dependencyObserver
	Logger  *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Client == nil {
		return nil, fmt.Errorf("weather client is required")
	}
	rng := params.Random
	if rng == nil {
		rng = readings.NewTimeSeeded()
	}
	return &Service{
		client:  params.Client,
		rng:     rng,
		metrics: params.Metrics,
		logg:    params.Logger,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

// Current never fails: upstream errors produce a mock report.
func (s *Service) Current(ctx context.Context, lat, lon float64) *Report {
	start := time.Now()
	forecast, err := s.client.CurrentWeather(ctx, lat, lon)
	if err != nil {
		s.fellBack(ctx, "current", err, time.Since(start))
		return s.mockCurrent()
	}
	s.observe("ok", time.Since(start))

	return &Report{
		Status: types.StatusSuccess,
		Current: CurrentReading{
			Temperature:   forecast.Current.Temperature2m,
			Humidity:      forecast.Current.RelativeHumidity2m,
			Precipitation: forecast.Current.Precipitation,
		},
		Daily: DailySummary{
			MaxTemp:       first(forecast.Daily.Temperature2mMax),
			MinTemp:       first(forecast.Daily.Temperature2mMin),
			Precipitation: first(forecast.Daily.PrecipitationSum),
		},
	}
}

// Forecast returns a daily series of ClampDays(days) entries when falling back.
func (s *Service) Forecast(ctx context.Context, lat, lon float64, days int) *ForecastReport {
	days = ClampDays(days)
	start := time.Now()
	forecast, err := s.client.DailyForecast(ctx, lat, lon, days)
	if err != nil {
		s.fellBack(ctx, "forecast", err, time.Since(start))
		return s.mockForecast(days)
	}
	s.observe("ok", time.Since(start))

	return &ForecastReport{
		Status: types.StatusSuccess,
		Forecast: ForecastSeries{
			Time:             nonNilStrings(forecast.Daily.Time),
			Temperature2mMax: nonNilFloats(forecast.Daily.Temperature2mMax),
			Temperature2mMin: nonNilFloats(forecast.Daily.Temperature2mMin),
			PrecipitationSum: nonNilFloats(forecast.Daily.PrecipitationSum),
		},
	}
}

// ClampDays bounds the forecast horizon to [1, 16].
func ClampDays(days int) int {
	switch {
	case days < 1:
		return 1
	case days > MaxForecastDays:
		return MaxForecastDays
	}
	return days
}

func (s *Service) mockCurrent() *Report {
	return &Report{
		Status: types.StatusSuccess,
		Current: CurrentReading{
			Temperature:   ptr(s.rng.Uniform(15, 35, 1)),
			Humidity:      ptr(float64(s.rng.IntBetween(40, 90))),
			Precipitation: ptr(s.rng.Uniform(0, 10, 1)),
		},
		Daily: DailySummary{
			MaxTemp:       ptr(s.rng.Uniform(20, 40, 1)),
			MinTemp:       ptr(s.rng.Uniform(10, 25, 1)),
			Precipitation: ptr(s.rng.Uniform(0, 15, 1)),
		},
		Note:     mockNote,
		MockData: true,
	}
}

func (s *Service) mockForecast(days int) *ForecastReport {
	series := ForecastSeries{
		Time:             make([]string, 0, days),
		Temperature2mMax: make([]*float64, 0, days),
		Temperature2mMin: make([]*float64, 0, days),
		PrecipitationSum: make([]*float64, 0, days),
	}
	today := s.now()
	for i := 0; i < days; i++ {
		series.Time = append(series.Time, today.AddDate(0, 0, i).Format(dateLayout))
		series.Temperature2mMax = append(series.Temperature2mMax, ptr(s.rng.Uniform(20, 40, 1)))
		series.Temperature2mMin = append(series.Temperature2mMin, ptr(s.rng.Uniform(10, 25, 1)))
		series.PrecipitationSum = append(series.PrecipitationSum, ptr(s.rng.Uniform(0, 15, 1)))
	}
	return &ForecastReport{
		Status:   types.StatusSuccess,
		Forecast: series,
		Note:     mockNote,
		MockData: true,
	}
}

func (s *Service) fellBack(ctx context.Context, call string, err error, d time.Duration) {
	s.observe("fallback", d)
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"dependency": dependency,
			"call":       call,
			"error":      err.Error(),
		})
		s.logg.Warn(logCtx, "weather.upstream_failed")
	}
}

func (s *Service) observe(result string, d time.Duration) {
	if s.metrics != nil {
		s.metrics.Observe(dependency, result, d)
	}
}

func first(values []*float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	return values[0]
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func nonNilFloats(v []*float64) []*float64 {
	if v == nil {
		return []*float64{}
	}
	return v
}

func ptr(v float64) *float64 {
	return &v
}
