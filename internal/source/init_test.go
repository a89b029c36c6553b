package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starblend/pkg/cube"
	"starblend/pkg/grid"
)

func TestInitSeedsPeakPixel(t *testing.T) {
	s, err := New(grid.NewPoint(10, 10), 2, 5, 5, Options{})
	require.NoError(t, err)

	img := cube.New(2, 21, 21)
	img.Set(0, 10, 10, 3)
	img.Set(1, 10, 10, 1)

	require.NoError(t, s.Init(img))
	assert.InDelta(t, 0.75, s.SED.At(0, 0), 1e-12)
	assert.InDelta(t, 0.25, s.SED.At(0, 1), 1e-12)

	morph := s.MorphImage(0)
	assert.InDelta(t, 4.0, morph.At(2, 2), 1e-9, "center pixel carries the summed flux")
	for j, v := range s.Morph.RawRowView(0) {
		if j == 12 {
			continue
		}
		assert.Equal(t, 0.0, v, "pixel %d", j)
	}
}

func TestInitValidation(t *testing.T) {
	s, err := New(grid.NewPoint(10, 10), 2, 5, 5, Options{})
	require.NoError(t, err)
	assert.Error(t, s.Init(cube.New(1, 21, 21)), "band mismatch")

	far, err := New(grid.NewPoint(100, 100), 2, 5, 5, Options{})
	require.NoError(t, err)
	assert.Error(t, far.Init(cube.New(2, 21, 21)), "center outside the image")
}
