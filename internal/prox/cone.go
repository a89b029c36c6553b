package prox

import "gonum.org/v1/gonum/mat"

// coneSweeps bounds the cyclic projection in Cone. The sweep count trades
// exactness against runtime; violations shrink geometrically per sweep.
const coneSweeps = 20

// Cone projects x onto the polyhedral cone {x : Gx >= 0} by cycling over the
// rows of G and projecting onto each violated halfspace in turn. G is dense
// and the sweep is O(rows * cols) per pass, which makes this exact but very
// slow compared to the dualized sparse constraints.
func Cone(g *mat.Dense) Op {
	rows, cols := g.Dims()

	// row norms are fixed, compute once
	norm2 := make([]float64, rows)
	for i := 0; i < rows; i++ {
		var n float64
		for j := 0; j < cols; j++ {
			v := g.At(i, j)
			n += v * v
		}
		norm2[i] = n
	}

	return func(x []float64, step float64) []float64 {
		for sweep := 0; sweep < coneSweeps; sweep++ {
			violated := false
			for i := 0; i < rows; i++ {
				if norm2[i] == 0 {
					continue
				}
				var dot float64
				for j := 0; j < cols; j++ {
					dot += g.At(i, j) * x[j]
				}
				if dot >= 0 {
					continue
				}
				violated = true
				scale := dot / norm2[i]
				for j := 0; j < cols; j++ {
					x[j] -= scale * g.At(i, j)
				}
			}
			if !violated {
				break
			}
		}
		return x
	}
}
