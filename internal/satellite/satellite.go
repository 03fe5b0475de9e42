package satellite

import (
	"context"
	"fmt"

	pkgerrors "github.com/cropwatch/cropwatch-backend/pkg/errors"
	"github.com/cropwatch/cropwatch-backend/pkg/readings"
	"github.com/cropwatch/cropwatch-backend/pkg/types"
)

// Bands holds mean reflectance per band.
type Bands struct {
	Red   float64 `json:"red_band"`
	Green float64 `json:"green_band"`
	Blue  float64 `json:"blue_band"`
	NIR   float64 `json:"nir_band"`
}

// Imagery is the body of GET /satellite.
type Imagery struct {
	Status  string `json:"status"`
	Imagery Bands  `json:"imagery"`
}

// ImagerySource yields band readings for a coordinate.
type ImagerySource interface {
	Bands(ctx context.Context, lat, lon float64) (Bands, error)
}

// RandomSource produces visible bands in [50, 200] and NIR in [100, 250].
type RandomSource struct {
	rng *readings.Source
}

func NewRandomSource(rng *readings.Source) *RandomSource {
	if rng == nil {
		rng = readings.NewTimeSeeded()
	}
	return &RandomSource{rng: rng}
}

func (s *RandomSource) Bands(ctx context.Context, lat, lon float64) (Bands, error) {
	if err := ctx.Err(); err != nil {
		return Bands{}, err
	}
	return Bands{
		Red:   s.rng.Uniform(50, 200, 2),
		Green: s.rng.Uniform(50, 200, 2),
		Blue:  s.rng.Uniform(50, 200, 2),
		NIR:   s.rng.Uniform(100, 250, 2),
	}, nil
}

// Service serves band imagery.
type Service struct {
	source ImagerySource
}

func NewService(source ImagerySource) (*Service, error) {
	if source == nil {
		return nil, fmt.Errorf("imagery source is required")
	}
	return &Service{source: source}, nil
}

func (s *Service) GetImagery(ctx context.Context, lat, lon float64) (*Imagery, error) {
	bands, err := s.source.Bands(ctx, lat, lon)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read satellite bands")
	}
	return &Imagery{Status: types.StatusSuccess, Imagery: bands}, nil
}
