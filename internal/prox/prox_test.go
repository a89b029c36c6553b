package prox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlus(t *testing.T) {
	x := []float64{-1, 0, 2.5}
	Plus()(x, 0)
	assert.Equal(t, []float64{0, 0, 2.5}, x)
}

func TestUnityPlus(t *testing.T) {
	x := []float64{-1, 1, 3}
	UnityPlus()(x, 0)
	assert.Equal(t, []float64{0, 0.25, 0.75}, x)

	zero := []float64{0, -2}
	UnityPlus()(zero, 0)
	assert.Equal(t, []float64{0, 0}, zero, "all-zero input stays zero")
}

func TestHard(t *testing.T) {
	x := []float64{-0.4, 0.4, -2, 2}
	Hard(0.5)(x, 0)
	assert.Equal(t, []float64{0, 0, -2, 2}, x)
}

func TestSoft(t *testing.T) {
	x := []float64{-0.4, 0.4, -2, 2}
	Soft(0.5)(x, 0)
	assert.Equal(t, []float64{0, 0, -1.5, 1.5}, x)
}

func TestZeroAndIdentity(t *testing.T) {
	x := []float64{1, -2}
	Identity()(x, 0)
	assert.Equal(t, []float64{1, -2}, x)
	Zero()(x, 0)
	assert.Equal(t, []float64{0, 0}, x)
}

func TestAlternatingProjectionsOrder(t *testing.T) {
	// non-negativity then shrinkage: the -1 entry is clipped before the
	// threshold ever sees it
	composed := AlternatingProjections([]Op{Plus(), Soft(0.5)}, 1)
	x := []float64{-1, 2}
	composed(x, 0)
	assert.Equal(t, []float64{0, 1.5}, x)
}

func TestStrictMonotonicCapsOutwardPixels(t *testing.T) {
	// 3x3 with a bright corner: the corner must not exceed its inward
	// diagonal reference, which is the center
	x := []float64{
		0, 0, 5,
		0, 2, 0,
		0, 0, 0,
	}
	StrictMonotonic(3, 3, 0)(x, 0)
	assert.Equal(t, 2.0, x[4], "center is untouched")
	assert.LessOrEqual(t, x[2], 2.0)

	// a profile already decreasing from the center is a fixed point
	y := []float64{
		1, 1, 1,
		1, 3, 1,
		1, 1, 1,
	}
	want := append([]float64(nil), y...)
	StrictMonotonic(3, 3, 0)(y, 0)
	assert.Equal(t, want, y)
}

func TestStrictMonotonicDecay(t *testing.T) {
	x := []float64{
		0, 10, 0,
		0, 10, 0,
		0, 0, 0,
	}
	StrictMonotonic(3, 3, 0.5)(x, 0)
	assert.Equal(t, 10.0, x[4])
	assert.Equal(t, 5.0, x[1], "outward neighbor capped at half the center")
}
