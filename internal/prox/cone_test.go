package prox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestConeLeavesFeasiblePointsAlone(t *testing.T) {
	// G = I: the cone is the non-negative orthant
	g := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	x := []float64{1, 2}
	Cone(g)(x, 0)
	assert.Equal(t, []float64{1, 2}, x)
}

func TestConeProjectsViolations(t *testing.T) {
	g := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	x := []float64{-3, 2}
	Cone(g)(x, 0)
	assert.InDelta(t, 0, x[0], 1e-9)
	assert.InDelta(t, 2, x[1], 1e-9)
}

func TestConeSkipsZeroRows(t *testing.T) {
	g := mat.NewDense(2, 2, []float64{0, 0, 1, 1})
	x := []float64{-1, -1}
	Cone(g)(x, 0)
	assert.InDelta(t, 0, x[0]+x[1], 1e-9, "sum constraint projected to the boundary")
}
