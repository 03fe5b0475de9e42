package vegetation

import (
	"context"
	"fmt"

	"github.com/cropwatch/cropwatch-backend/internal/alerts"
	"github.com/cropwatch/cropwatch-backend/internal/observations"
	"github.com/cropwatch/cropwatch-backend/internal/sideeffect"
	"github.com/cropwatch/cropwatch-backend/pkg/db/models"
	pkgerrors "github.com/cropwatch/cropwatch-backend/pkg/errors"
	"github.com/cropwatch/cropwatch-backend/pkg/types"
)

// HealthRequest is the body of POST /ndvi. Coordinates may be JSON numbers or numeric strings.
type HealthRequest struct {
	Latitude  types.NullableFloat `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude types.NullableFloat `json:"longitude" validate:"required,gte=-180,lte=180"`
	Email     *string             `json:"email,omitempty"`
}

// HealthReport is the body returned for a health check.
type HealthReport struct {
	Status    string  `json:"status"`
	NDVI      float64 `json:"ndvi"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Health    Health  `json:"health"`
}

type cropRecorder interface {
	RecordCrop(ctx context.Context, obs *models.CropObservation) error
}

type healthAlerter interface {
	SendHealthAlert(ctx context.Context, level string, ndvi float64, email string) alerts.DeliveryResult
}

// Service scores crop health and files the reading.
type Service struct {
	source   IndexSource
	recorder cropRecorder
	alerter  healthAlerter
	runner   *sideeffect.Runner
}

// ServiceParams bundles the vegetation service dependencies.
type ServiceParams struct {
	Source   IndexSource
	Recorder cropRecorder
	Alerter  healthAlerter
	Runner   *sideeffect.Runner
}

// NewService constructs the vegetation service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Source == nil {
		return nil, fmt.Errorf("index source is required")
	}
	if params.Recorder == nil {
		return nil, fmt.Errorf("crop recorder is required")
	}
	runner := params.Runner
	if runner == nil {
		runner = sideeffect.NewRunner(nil, nil)
	}
	return &Service{
		source:   params.Source,
		recorder: params.Recorder,
		alerter:  params.Alerter,
		runner:   runner,
	}, nil
}

// GetHealth reads the index, stores the observation and alerts on poor health.
// Only a source failure fails the call.
func (s *Service) GetHealth(ctx context.Context, req HealthRequest) (*HealthReport, error) {
	if !req.Latitude.Valid || req.Latitude.Value == nil || !req.Longitude.Valid || req.Longitude.Value == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Missing required fields: latitude, longitude")
	}
	lat, lon := *req.Latitude.Value, *req.Longitude.Value
	email := observations.OwnerEmail(req.Email)

	ndvi, err := s.source.Index(ctx, lat, lon)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read vegetation index")
	}
	health := Classify(ndvi)

	s.runner.Run(ctx, "persist_crop_observation", func(ctx context.Context) error {
		return s.recorder.RecordCrop(ctx, &models.CropObservation{
			Email:        email,
			Latitude:     lat,
			Longitude:    lon,
			NDVI:         ndvi,
			HealthStatus: health.Score,
		})
	})

	if ndvi < AlertThreshold && !observations.IsPlaceholder(email) && s.alerter != nil {
		s.runner.Run(ctx, "send_health_alert", func(ctx context.Context) error {
			return s.alerter.SendHealthAlert(ctx, health.Score, ndvi, email).Err()
		})
	}

	return &HealthReport{
		Status:    types.StatusSuccess,
		NDVI:      ndvi,
		Latitude:  lat,
		Longitude: lon,
		Health:    health,
	}, nil
}
