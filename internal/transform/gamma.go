package transform

import (
	"fmt"
	"math"

	"github.com/james-bowman/sparse"

	"starblend/pkg/grid"
)

// PSF holds the point-spread-function kernels of an observation: either one
// kernel shared by every band, or one kernel per band.
type PSF struct {
	kernels []*Kernel
}

// NewPSF builds a PSF from one shared kernel or one kernel per band.
func NewPSF(kernels ...*Kernel) (*PSF, error) {
	if len(kernels) == 0 {
		return nil, fmt.Errorf("transform: PSF needs at least one kernel")
	}
	for i, k := range kernels {
		if k.Height%2 == 0 || k.Width%2 == 0 {
			return nil, fmt.Errorf("transform: PSF kernel %d has even extent %dx%d, must be odd",
				i, k.Height, k.Width)
		}
	}
	return &PSF{kernels: kernels}, nil
}

// Kernels returns the number of kernels.
func (p *PSF) Kernels() int {
	return len(p.kernels)
}

// Kernel returns the kernel for band b, falling back to the shared kernel.
func (p *PSF) Kernel(b int) *Kernel {
	if len(p.kernels) == 1 {
		return p.kernels[0]
	}
	return p.kernels[b]
}

// Gamma is the compiled per-band operator stack. Without a PSF it holds a
// single shift operator shared by every band.
type Gamma []*Matrix

// Band returns the operator for band b.
func (g Gamma) Band(b int) *Matrix {
	if len(g) == 1 {
		return g[0]
	}
	return g[b]
}

// Shared reports whether one operator serves every band.
func (g Gamma) Shared() bool {
	return len(g) == 1
}

// GammaOp builds Gamma operators for a given sub-pixel offset and frame
// shape. Construction is cheap relative to the optimizer iterations that
// apply the result, so a fresh Gamma is built on every recenter or resize.
type GammaOp struct {
	psf *PSF
}

// NewGammaOp creates a builder. psf may be nil for PSF-free observations.
func NewGammaOp(psf *PSF) *GammaOp {
	return &GammaOp{psf: psf}
}

// HasPSF reports whether a PSF is configured.
func (g *GammaOp) HasPSF() bool {
	return g.psf != nil
}

// Build compiles the operator(s) for the given sub-pixel offset and frame
// shape. The effective kernel of each band is the PSF kernel convolved with
// the bilinear fractional-shift kernel; without a PSF the shift kernel alone
// is used and a single operator is shared across bands.
func (g *GammaOp) Build(offset grid.Point, bands, height, width int) Gamma {
	shift := shiftKernel(offset)
	if g.psf == nil {
		return Gamma{convolutionMatrix(shift, height, width)}
	}
	out := make(Gamma, bands)
	for b := 0; b < bands; b++ {
		eff := convolve(g.psf.Kernel(b), shift)
		out[b] = convolutionMatrix(eff, height, width)
	}
	return out
}

// shiftKernel returns the 3x3 bilinear interpolation kernel that translates
// an image by a fractional (dy, dx) offset. A zero offset degenerates to the
// identity kernel.
func shiftKernel(offset grid.Point) *Kernel {
	k := NewKernel(3, 3)
	dy, dx := offset.Y, offset.X
	ay, ax := math.Abs(dy), math.Abs(dx)

	wy := map[int]float64{1: 1 - ay}
	if ay > 0 {
		wy[1+sign(dy)] = ay
	}
	wx := map[int]float64{1: 1 - ax}
	if ax > 0 {
		wx[1+sign(dx)] = ax
	}
	for y, vy := range wy {
		for x, vx := range wx {
			k.Set(y, x, vy*vx)
		}
	}
	return k
}

// convolutionMatrix builds the sparse matrix form of a zero-padded, centered
// 2D convolution on a (height, width) frame. Row (y, x) holds the kernel
// weights gathered from in(y-(ky-cy), x-(kx-cx)).
func convolutionMatrix(k *Kernel, height, width int) *Matrix {
	n := height * width
	cy, cx := k.Height/2, k.Width/2
	dok := sparse.NewDOK(n, n)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			row := y*width + x
			for ky := 0; ky < k.Height; ky++ {
				sy := y - (ky - cy)
				if sy < 0 || sy >= height {
					continue
				}
				for kx := 0; kx < k.Width; kx++ {
					v := k.At(ky, kx)
					if v == 0 {
						continue
					}
					sx := x - (kx - cx)
					if sx < 0 || sx >= width {
						continue
					}
					dok.Set(row, sy*width+sx, v)
				}
			}
		}
	}
	return newMatrix(dok)
}

func sign(v float64) int {
	if v < 0 {
		return -1
	}
	return 1
}
