// Package transform builds the linear operators of the deblender: Gamma,
// the per-band operator combining PSF convolution with sub-pixel
// translation, and the sparse constraint-geometry matrices consumed by the
// dualized constraints.
package transform

import (
	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// Matrix is a sparse linear operator acting on flattened images. It is
// built once (DOK) and applied many times (CSR).
type Matrix struct {
	csr *sparse.CSR
}

func newMatrix(dok *sparse.DOK) *Matrix {
	return &Matrix{csr: dok.ToCSR()}
}

// Dims returns the operator dimensions.
func (m *Matrix) Dims() (rows, cols int) {
	return m.csr.Dims()
}

// At returns the matrix entry at (i, j).
func (m *Matrix) At(i, j int) float64 {
	return m.csr.At(i, j)
}

// Apply computes dst = M * x over the nonzero entries. dst may be nil, in
// which case a fresh output vector is allocated; otherwise it is zeroed
// first and its length must match the operator's row count.
func (m *Matrix) Apply(dst, x []float64) []float64 {
	rows, _ := m.csr.Dims()
	if dst == nil {
		dst = make([]float64, rows)
	} else {
		for i := range dst {
			dst[i] = 0
		}
	}
	m.csr.DoNonZero(func(i, j int, v float64) {
		dst[i] += v * x[j]
	})
	return dst
}

// Dense returns a dense copy, used by the error estimator and the cone
// projection. This defeats the sparsity and is only sensible for small
// frames.
func (m *Matrix) Dense() *mat.Dense {
	return mat.DenseCopyOf(m.csr)
}

// NonZeros returns the number of stored entries.
func (m *Matrix) NonZeros() int {
	var n int
	m.csr.DoNonZero(func(i, j int, v float64) {
		n++
	})
	return n
}
