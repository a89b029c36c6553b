// Package prox provides the proximal operators the optimizer applies to
// source variables each iteration: projections, thresholding, and their
// composition.
package prox

import "math"

// Op applies a proximal operator to x in place and returns x. The step
// argument follows the optimizer's calling convention; pure projections
// ignore it.
type Op func(x []float64, step float64) []float64

// Identity returns x unchanged.
func Identity() Op {
	return func(x []float64, step float64) []float64 {
		return x
	}
}

// Plus projects onto the non-negative orthant.
func Plus() Op {
	return func(x []float64, step float64) []float64 {
		for i, v := range x {
			if v < 0 {
				x[i] = 0
			}
		}
		return x
	}
}

// UnityPlus projects onto the non-negative simplex: clip at zero, then
// normalize to unit sum. An all-zero vector is left unchanged.
func UnityPlus() Op {
	return func(x []float64, step float64) []float64 {
		var total float64
		for i, v := range x {
			if v < 0 {
				x[i] = 0
			} else {
				total += v
			}
		}
		if total == 0 {
			return x
		}
		for i := range x {
			x[i] /= total
		}
		return x
	}
}

// Hard zeroes every entry whose magnitude falls below thresh.
func Hard(thresh float64) Op {
	return func(x []float64, step float64) []float64 {
		for i, v := range x {
			if math.Abs(v) < thresh {
				x[i] = 0
			}
		}
		return x
	}
}

// Soft shrinks every entry toward zero by thresh.
func Soft(thresh float64) Op {
	return func(x []float64, step float64) []float64 {
		for i, v := range x {
			switch {
			case v > thresh:
				x[i] = v - thresh
			case v < -thresh:
				x[i] = v + thresh
			default:
				x[i] = 0
			}
		}
		return x
	}
}

// Zero maps everything to the zero vector.
func Zero() Op {
	return func(x []float64, step float64) []float64 {
		for i := range x {
			x[i] = 0
		}
		return x
	}
}

// AlternatingProjections applies the given operators in sequence, repeated
// the given number of times. It does not iterate to convergence; the
// optimizer calls the composite once per iteration.
func AlternatingProjections(ops []Op, repeat int) Op {
	if repeat < 1 {
		repeat = 1
	}
	return func(x []float64, step float64) []float64 {
		for r := 0; r < repeat; r++ {
			for _, op := range ops {
				x = op(x, step)
			}
		}
		return x
	}
}
