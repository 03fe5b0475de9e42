package satellite

import (
	"context"
	"errors"
	"testing"

	pkgerrors "github.com/cropwatch/cropwatch-backend/pkg/errors"
	"github.com/cropwatch/cropwatch-backend/pkg/readings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSource struct{}

func (failingSource) Bands(ctx context.Context, lat, lon float64) (Bands, error) {
	return Bands{}, errors.New("no coverage")
}

func TestRandomSourceBandRanges(t *testing.T) {
	svc, err := NewService(NewRandomSource(readings.NewSource(11)))
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		out, err := svc.GetImagery(context.Background(), 12.9, 77.6)
		require.NoError(t, err)
		assert.Equal(t, "success", out.Status)
		for _, v := range []float64{out.Imagery.Red, out.Imagery.Green, out.Imagery.Blue} {
			assert.GreaterOrEqual(t, v, 50.0)
			assert.LessOrEqual(t, v, 200.0)
			assert.Equal(t, v, readings.Round(v, 2))
		}
		assert.GreaterOrEqual(t, out.Imagery.NIR, 100.0)
		assert.LessOrEqual(t, out.Imagery.NIR, 250.0)
	}
}

func TestGetImagerySourceFailure(t *testing.T) {
	svc, err := NewService(failingSource{})
	require.NoError(t, err)

	_, err = svc.GetImagery(context.Background(), 0, 0)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInternal))
}
