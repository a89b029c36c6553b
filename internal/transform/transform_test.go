package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starblend/pkg/grid"
)

func deltaKernel(size int) *Kernel {
	k := NewKernel(size, size)
	k.Set(size/2, size/2, 1)
	return k
}

func TestGammaWithoutPSFIsIdentityAtZeroOffset(t *testing.T) {
	g := NewGammaOp(nil)
	assert.False(t, g.HasPSF())
	gamma := g.Build(grid.Point{}, 2, 3, 3)
	require.True(t, gamma.Shared())

	x := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}
	got := gamma.Band(0).Apply(nil, x)
	assert.Equal(t, x, got)
	assert.Equal(t, gamma.Band(0), gamma.Band(1), "bands share the operator")
}

func TestGammaFractionalShift(t *testing.T) {
	g := NewGammaOp(nil)
	gamma := g.Build(grid.NewPoint(0, 0.25), 1, 3, 3)

	// single bright pixel at the center of a 3x3 frame
	x := []float64{0, 0, 0, 0, 4, 0, 0, 0, 0}
	got := gamma.Band(0).Apply(nil, x)
	assert.InDelta(t, 3, got[4], 1e-12, "3/4 of the flux stays put")
	assert.InDelta(t, 1, got[5], 1e-12, "1/4 moves one pixel in +x")

	var total float64
	for _, v := range got {
		total += v
	}
	assert.InDelta(t, 4, total, 1e-12, "interior shift conserves flux")
}

func TestGammaNegativeShiftDirection(t *testing.T) {
	g := NewGammaOp(nil)
	gamma := g.Build(grid.NewPoint(-0.5, 0), 1, 3, 3)
	x := []float64{0, 0, 0, 0, 4, 0, 0, 0, 0}
	got := gamma.Band(0).Apply(nil, x)
	assert.InDelta(t, 2, got[4], 1e-12)
	assert.InDelta(t, 2, got[1], 1e-12, "half the flux moves one pixel in -y")
}

func TestGammaWithPSFIsPerBand(t *testing.T) {
	p, err := NewPSF(deltaKernel(3), deltaKernel(3))
	require.NoError(t, err)
	g := NewGammaOp(p)
	gamma := g.Build(grid.Point{}, 2, 3, 3)
	assert.False(t, gamma.Shared())
	assert.Len(t, gamma, 2)

	// delta PSF at zero offset degenerates to identity per band
	x := []float64{0, 0, 0, 0, 1, 0, 0, 0, 0}
	for b := 0; b < 2; b++ {
		assert.Equal(t, x, gamma.Band(b).Apply(nil, x))
	}
}

func TestNewPSFRejectsEvenKernels(t *testing.T) {
	_, err := NewPSF(NewKernel(4, 3))
	assert.Error(t, err)
	_, err = NewPSF()
	assert.Error(t, err)
}

func TestConvolutionMatrixBlurs(t *testing.T) {
	// uniform 3x3 kernel spreads a unit pixel over its neighborhood
	k := NewKernel(3, 3)
	for i := range k.Data {
		k.Data[i] = 1.0 / 9
	}
	m := convolutionMatrix(k, 3, 3)
	x := []float64{0, 0, 0, 0, 1, 0, 0, 0, 0}
	got := m.Apply(nil, x)
	for i := range got {
		assert.InDelta(t, 1.0/9, got[i], 1e-12, "pixel %d", i)
	}
}

func TestKernelConvolve(t *testing.T) {
	a := deltaKernel(3)
	b := NewKernel(3, 3)
	b.Set(1, 2, 1) // shift by +x
	out := convolve(a, b)
	assert.Equal(t, 5, out.Height)
	assert.Equal(t, 5, out.Width)
	assert.Equal(t, 1.0, out.At(2, 3), "delta composition lands one pixel off-center")
	assert.InDelta(t, 1.0, out.Sum(), 1e-12)
}
