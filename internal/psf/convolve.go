package psf

import (
	"gonum.org/v1/gonum/dsp/fourier"

	"starblend/internal/transform"
	"starblend/pkg/cube"
)

// Convolve returns the same-size, zero-padded convolution of a 2D image
// with a centered kernel, computed on an FFT grid covering the full linear
// convolution.
func Convolve(img cube.Plane, k *transform.Kernel) cube.Plane {
	fh := nextPow2(img.Height + k.Height - 1)
	fw := nextPow2(img.Width + k.Width - 1)

	a := make([][]complex128, fh)
	b := make([][]complex128, fh)
	for y := 0; y < fh; y++ {
		a[y] = make([]complex128, fw)
		b[y] = make([]complex128, fw)
	}
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			a[y][x] = complex(img.At(y, x), 0)
		}
	}
	// wrap the centered kernel so its peak lands at (0,0)
	cy, cx := k.Height/2, k.Width/2
	for y := 0; y < k.Height; y++ {
		for x := 0; x < k.Width; x++ {
			b[(y-cy+fh)%fh][(x-cx+fw)%fw] = complex(k.At(y, x), 0)
		}
	}

	fft2(a, true)
	fft2(b, true)
	for y := 0; y < fh; y++ {
		for x := 0; x < fw; x++ {
			a[y][x] *= b[y][x]
		}
	}
	fft2(a, false)

	// forward then inverse leaves an FH*FW factor
	scale := float64(fh * fw)
	out := cube.NewPlane(img.Height, img.Width)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			out.Set(y, x, real(a[y][x])/scale)
		}
	}
	return out
}

// ConvolveCube convolves every band of a cube with the matching PSF kernel.
func ConvolveCube(img *cube.Cube, p *transform.PSF) *cube.Cube {
	out := cube.New(img.Bands, img.Height, img.Width)
	for b := 0; b < img.Bands; b++ {
		plane := Convolve(img.Plane(b), p.Kernel(b))
		copy(out.Band(b), plane.Data)
	}
	return out
}

func fft2(a [][]complex128, forward bool) {
	h := len(a)
	w := len(a[0])
	rowFFT := fourier.NewCmplxFFT(w)
	colFFT := fourier.NewCmplxFFT(h)

	for y := 0; y < h; y++ {
		if forward {
			rowFFT.Coefficients(a[y], a[y])
		} else {
			rowFFT.Sequence(a[y], a[y])
		}
	}
	col := make([]complex128, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			col[y] = a[y][x]
		}
		if forward {
			colFFT.Coefficients(col, col)
		} else {
			colFFT.Sequence(col, col)
		}
		for y := 0; y < h; y++ {
			a[y][x] = col[y]
		}
	}
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
