package diagnosis

import (
	"context"
	"fmt"

	"github.com/cropwatch/cropwatch-backend/pkg/readings"
)

const (
	LabelHealthy = "Healthy"
	LabelUnknown = "Unknown"
)

// Labels is the closed set of classes a predictor may return.
var Labels = []string{
	LabelHealthy,
	"Powdery Mildew",
	"Leaf Spot",
	"Rust",
	"Blight",
	"Septoria",
}

var treatments = map[string][]string{
	LabelHealthy:     {"Continue regular maintenance", "Monitor crop regularly"},
	"Powdery Mildew": {"Apply fungicide spray", "Improve air circulation", "Reduce humidity"},
	"Leaf Spot":      {"Remove affected leaves", "Apply copper fungicide", "Ensure proper spacing"},
	"Rust":           {"Use sulfur-based treatments", "Improve air drainage", "Remove infected leaves"},
	"Blight":         {"Apply systemic fungicide immediately", "Increase drainage", "Isolate infected plants"},
	"Septoria":       {"Remove infected foliage", "Apply fungicide", "Reduce leaf wetness"},
	LabelUnknown:     {"Consult agricultural expert", "Take multiple photos from different angles"},
}

// Treatments returns a copy of the recommendations for label, falling back to Unknown.
func Treatments(label string) []string {
	list, ok := treatments[label]
	if !ok {
		list = treatments[LabelUnknown]
	}
	return append([]string(nil), list...)
}

// Prediction is a classifier output. Confidence is in [0, 1].
type Prediction struct {
	Label      string
	Confidence float64
}

// Predictor classifies a preprocessed leaf image.
type Predictor interface {
	Predict(ctx context.Context, input *Tensor) (Prediction, error)
}

// RandomPredictor stands in for a trained model: uniform label, confidence in [0.70, 0.99].
type RandomPredictor struct {
	rng *readings.Source
}

func NewRandomPredictor(rng *readings.Source) *RandomPredictor {
	if rng == nil {
		rng = readings.NewTimeSeeded()
	}
	return &RandomPredictor{rng: rng}
}

func (p *RandomPredictor) Predict(ctx context.Context, input *Tensor) (Prediction, error) {
	if err := ctx.Err(); err != nil {
		return Prediction{}, err
	}
	if input == nil || len(input.Data) == 0 {
		return Prediction{}, fmt.Errorf("empty input tensor")
	}
	return Prediction{
		Label:      Labels[p.rng.IntBetween(0, len(Labels)-1)],
		Confidence: p.rng.Uniform(0.70, 0.99, 3),
	}, nil
}
