package diagnosis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cropwatch/cropwatch-backend/internal/alerts"
	"github.com/cropwatch/cropwatch-backend/internal/observations"
	"github.com/cropwatch/cropwatch-backend/internal/sideeffect"
	"github.com/cropwatch/cropwatch-backend/pkg/db/models"
	pkgerrors "github.com/cropwatch/cropwatch-backend/pkg/errors"
	"github.com/cropwatch/cropwatch-backend/pkg/types"
)

const processFailureNote = "Could not process image"

// PredictRequest is the JSON form of POST /predict. Image is kept raw so any
// present value reaches the decoder; only an absent key is a client error.
type PredictRequest struct {
	Image json.RawMessage `json:"image"`
	Email *string         `json:"email,omitempty"`
}

// Payload returns the image as a string. Non-string values yield "" and
// decode to the Unknown result.
func (r PredictRequest) Payload() string {
	var payload string
	if err := json.Unmarshal(r.Image, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload)
}

// HasImage reports whether the image key was sent at all.
func (r PredictRequest) HasImage() bool {
	return len(r.Image) > 0
}

// Result is the body returned for a prediction.
type Result struct {
	Status          string   `json:"status"`
	Disease         string   `json:"disease"`
	Confidence      float64  `json:"confidence"`
	Recommendations []string `json:"recommendations"`
	Note            string   `json:"note,omitempty"`
}

type diseaseRecorder interface {
	RecordDisease(ctx context.Context, obs *models.DiseaseObservation) error
}

type diseaseAlerter interface {
	SendDiseaseAlert(ctx context.Context, disease string, confidence float64, email string) alerts.DeliveryResult
}

// Service runs the disease prediction pipeline.
type Service struct {
	predictor Predictor
	recorder  diseaseRecorder
	alerter   diseaseAlerter
	runner    *sideeffect.Runner
}

// ServiceParams bundles the diagnosis service dependencies.
type ServiceParams struct {
	Predictor Predictor
	Recorder  diseaseRecorder
	Alerter   diseaseAlerter
	Runner    *sideeffect.Runner
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Predictor == nil {
		return nil, fmt.Errorf("predictor is required")
	}
	if params.Recorder == nil {
		return nil, fmt.Errorf("disease recorder is required")
	}
	runner := params.Runner
	if runner == nil {
		runner = sideeffect.NewRunner(nil, nil)
	}
	return &Service{
		predictor: params.Predictor,
		recorder:  params.Recorder,
		alerter:   params.Alerter,
		runner:    runner,
	}, nil
}

// PredictBase64 decodes a base64 or data-URL image and predicts on it.
func (s *Service) PredictBase64(ctx context.Context, payload string, email *string) (*Result, error) {
	data, err := DecodeBase64Image(payload)
	if err != nil {
		return unknownResult(), nil
	}
	return s.Predict(ctx, data, email)
}

// Predict classifies raw image bytes. Undecodable images yield the Unknown
// result and are neither stored nor alerted.
func (s *Service) Predict(ctx context.Context, image []byte, email *string) (*Result, error) {
	tensor, err := Preprocess(image)
	if err != nil {
		if errors.Is(err, ErrUndecodableImage) {
			return unknownResult(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "preprocess image")
	}

	prediction, err := s.predictor.Predict(ctx, tensor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "predict disease")
	}

	owner := observations.OwnerEmail(email)
	s.runner.Run(ctx, "persist_disease_observation", func(ctx context.Context) error {
		return s.recorder.RecordDisease(ctx, &models.DiseaseObservation{
			Email:      owner,
			Disease:    prediction.Label,
			Confidence: prediction.Confidence,
		})
	})

	if prediction.Label != LabelHealthy && !observations.IsPlaceholder(owner) && s.alerter != nil {
		s.runner.Run(ctx, "send_disease_alert", func(ctx context.Context) error {
			return s.alerter.SendDiseaseAlert(ctx, prediction.Label, prediction.Confidence, owner).Err()
		})
	}

	return &Result{
		Status:          types.StatusSuccess,
		Disease:         prediction.Label,
		Confidence:      prediction.Confidence,
		Recommendations: Treatments(prediction.Label),
	}, nil
}

func unknownResult() *Result {
	return &Result{
		Status:          types.StatusSuccess,
		Disease:         LabelUnknown,
		Confidence:      0,
		Recommendations: Treatments(LabelUnknown),
		Note:            processFailureNote,
	}
}
