package diagnosis

import (
	"context"
	"encoding/base64"
	"errors"
	"image/color"
	"testing"

	"github.com/cropwatch/cropwatch-backend/internal/alerts"
	"github.com/cropwatch/cropwatch-backend/pkg/db/models"
	pkgerrors "github.com/cropwatch/cropwatch-backend/pkg/errors"
	"github.com/cropwatch/cropwatch-backend/pkg/readings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedPredictor struct {
	prediction Prediction
	err        error
	calls      int
}

func (f *fixedPredictor) Predict(ctx context.Context, input *Tensor) (Prediction, error) {
	f.calls++
	return f.prediction, f.err
}

type diseaseStore struct {
	rows []*models.DiseaseObservation
}

func (d *diseaseStore) RecordDisease(ctx context.Context, obs *models.DiseaseObservation) error {
	d.rows = append(d.rows, obs)
	return nil
}

type diseaseAlerts struct {
	sent []string
}

func (d *diseaseAlerts) SendDiseaseAlert(ctx context.Context, disease string, confidence float64, email string) alerts.DeliveryResult {
	d.sent = append(d.sent, disease+"->"+email)
	return alerts.DeliveryResult{Status: alerts.StatusSent}
}

func strp(v string) *string { return &v }

func newDiagnosisService(t *testing.T, p Predictor, store *diseaseStore, al *diseaseAlerts) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Predictor: p, Recorder: store, Alerter: al})
	require.NoError(t, err)
	return svc
}

func TestPredictStoresAndAlerts(t *testing.T) {
	store, al := &diseaseStore{}, &diseaseAlerts{}
	svc := newDiagnosisService(t, &fixedPredictor{prediction: Prediction{Label: "Rust", Confidence: 0.912}}, store, al)

	result, err := svc.Predict(context.Background(), pngBytes(t, 8, 8, color.RGBA{G: 120, A: 255}), strp("Grower@Farm.com"))
	require.NoError(t, err)
	assert.Equal(t, "success", result.Status)
	assert.Equal(t, "Rust", result.Disease)
	assert.Equal(t, 0.912, result.Confidence)
	assert.Equal(t, []string{"Use sulfur-based treatments", "Improve air drainage", "Remove infected leaves"}, result.Recommendations)
	assert.Empty(t, result.Note)

	require.Len(t, store.rows, 1)
	assert.Equal(t, "grower@farm.com", store.rows[0].Email)
	assert.Equal(t, []string{"Rust->grower@farm.com"}, al.sent)
}

func TestPredictHealthyDoesNotAlert(t *testing.T) {
	store, al := &diseaseStore{}, &diseaseAlerts{}
	svc := newDiagnosisService(t, &fixedPredictor{prediction: Prediction{Label: LabelHealthy, Confidence: 0.8}}, store, al)

	_, err := svc.Predict(context.Background(), pngBytes(t, 4, 4, color.RGBA{A: 255}), strp("grower@farm.com"))
	require.NoError(t, err)
	assert.Len(t, store.rows, 1)
	assert.Empty(t, al.sent)
}

func TestPredictPlaceholderDoesNotAlert(t *testing.T) {
	store, al := &diseaseStore{}, &diseaseAlerts{}
	svc := newDiagnosisService(t, &fixedPredictor{prediction: Prediction{Label: "Blight", Confidence: 0.8}}, store, al)

	_, err := svc.Predict(context.Background(), pngBytes(t, 4, 4, color.RGBA{A: 255}), nil)
	require.NoError(t, err)
	require.Len(t, store.rows, 1)
	assert.Equal(t, models.PlaceholderEmail, store.rows[0].Email)
	assert.Empty(t, al.sent)
}

func TestPredictUndecodableImage(t *testing.T) {
	store, al := &diseaseStore{}, &diseaseAlerts{}
	predictor := &fixedPredictor{prediction: Prediction{Label: "Rust", Confidence: 0.9}}
	svc := newDiagnosisService(t, predictor, store, al)

	result, err := svc.PredictBase64(context.Background(), "bm90IGFuIGltYWdl", strp("grower@farm.com"))
	require.NoError(t, err)
	assert.Equal(t, "success", result.Status)
	assert.Equal(t, LabelUnknown, result.Disease)
	assert.Equal(t, 0.0, result.Confidence)
	assert.Equal(t, "Could not process image", result.Note)
	assert.Equal(t, Treatments(LabelUnknown), result.Recommendations)

	assert.Zero(t, predictor.calls)
	assert.Empty(t, store.rows)
	assert.Empty(t, al.sent)
}

func TestPredictBase64EmptyPayloadIsUnknown(t *testing.T) {
	store := &diseaseStore{}
	predictor := &fixedPredictor{prediction: Prediction{Label: "Rust", Confidence: 0.9}}
	svc := newDiagnosisService(t, predictor, store, &diseaseAlerts{})

	result, err := svc.PredictBase64(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Equal(t, LabelUnknown, result.Disease)
	assert.Zero(t, predictor.calls)
	assert.Empty(t, store.rows)
}

func TestPredictRequestPayload(t *testing.T) {
	cases := map[string]struct {
		raw      string
		present  bool
		expected string
	}{
		"string":  {raw: `" abc "`, present: true, expected: "abc"},
		"number":  {raw: `123`, present: true, expected: ""},
		"object":  {raw: `{"a":1}`, present: true, expected: ""},
		"null":    {raw: `null`, present: true, expected: ""},
		"missing": {raw: ``, present: false, expected: ""},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := PredictRequest{Image: []byte(tc.raw)}
			assert.Equal(t, tc.present, req.HasImage())
			assert.Equal(t, tc.expected, req.Payload())
		})
	}
}

func TestPredictBase64DataURL(t *testing.T) {
	store := &diseaseStore{}
	svc := newDiagnosisService(t, &fixedPredictor{prediction: Prediction{Label: "Septoria", Confidence: 0.75}}, store, &diseaseAlerts{})

	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t, 5, 5, color.RGBA{R: 9, A: 255}))
	result, err := svc.PredictBase64(context.Background(), payload, nil)
	require.NoError(t, err)
	assert.Equal(t, "Septoria", result.Disease)
}

func TestPredictPredictorFailure(t *testing.T) {
	svc := newDiagnosisService(t, &fixedPredictor{err: errors.New("model unavailable")}, &diseaseStore{}, &diseaseAlerts{})

	_, err := svc.Predict(context.Background(), pngBytes(t, 4, 4, color.RGBA{A: 255}), nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInternal))
}

func TestRandomPredictor(t *testing.T) {
	p := NewRandomPredictor(readings.NewSource(9))
	tensor := &Tensor{Width: 1, Height: 1, Data: []float32{0, 0, 0}}
	for i := 0; i < 200; i++ {
		out, err := p.Predict(context.Background(), tensor)
		require.NoError(t, err)
		assert.Contains(t, Labels, out.Label)
		assert.GreaterOrEqual(t, out.Confidence, 0.70)
		assert.LessOrEqual(t, out.Confidence, 0.99)
		assert.Equal(t, out.Confidence, readings.Round(out.Confidence, 3))
	}

	_, err := p.Predict(context.Background(), nil)
	assert.Error(t, err)
}

func TestTreatmentsFallback(t *testing.T) {
	assert.Equal(t, []string{"Continue regular maintenance", "Monitor crop regularly"}, Treatments(LabelHealthy))
	assert.Equal(t, Treatments(LabelUnknown), Treatments("Mosaic Virus"))

	list := Treatments("Rust")
	list[0] = "mutated"
	assert.Equal(t, "Use sulfur-based treatments", Treatments("Rust")[0])
}
