package vegetation

import (
	"context"

	"github.com/cropwatch/cropwatch-backend/pkg/readings"
)

// IndexSource yields the NDVI for a coordinate.
type IndexSource interface {
	Index(ctx context.Context, lat, lon float64) (float64, error)
}

// RandomSource stands in for a satellite provider with values in [0.3, 0.9].
type RandomSource struct {
	rng *readings.Source
}

// NewRandomSource builds the stand-in source.
func NewRandomSource(rng *readings.Source) *RandomSource {
	if rng == nil {
		rng = readings.NewTimeSeeded()
	}
	return &RandomSource{rng: rng}
}

func (s *RandomSource) Index(ctx context.Context, lat, lon float64) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.rng.Uniform(0.3, 0.9, 2), nil
}
