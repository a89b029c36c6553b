// Package psf generates point-spread-function kernels and convolves scenes
// with them. It serves simulation and testing; the modeling core itself
// consumes kernels only through the transform package's sparse operators.
package psf

import (
	"fmt"
	"math"

	"starblend/internal/transform"
)

// Gaussian returns a normalized, centered Gaussian kernel. size is forced
// odd so the peak sits on the center pixel.
func Gaussian(size int, sigma float64) (*transform.Kernel, error) {
	if size < 1 {
		return nil, fmt.Errorf("psf: kernel size must be positive, got %d", size)
	}
	if sigma <= 0 {
		return nil, fmt.Errorf("psf: sigma must be positive, got %g", sigma)
	}
	size = 2*(size/2) + 1
	k := transform.NewKernel(size, size)
	c := size / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			r2 := float64((y-c)*(y-c) + (x-c)*(x-c))
			k.Set(y, x, math.Exp(-r2/(2*sigma*sigma)))
		}
	}
	k.Normalize()
	return k, nil
}

// Moffat returns a normalized, centered Moffat kernel, the standard model
// for seeing-limited stellar profiles. alpha is the core width, beta the
// wing slope.
func Moffat(size int, alpha, beta float64) (*transform.Kernel, error) {
	if size < 1 {
		return nil, fmt.Errorf("psf: kernel size must be positive, got %d", size)
	}
	if alpha <= 0 || beta <= 0 {
		return nil, fmt.Errorf("psf: alpha and beta must be positive, got %g, %g", alpha, beta)
	}
	size = 2*(size/2) + 1
	k := transform.NewKernel(size, size)
	c := size / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			r2 := float64((y-c)*(y-c) + (x-c)*(x-c))
			k.Set(y, x, math.Pow(1+r2/(alpha*alpha), -beta))
		}
	}
	k.Normalize()
	return k, nil
}

// Delta returns the identity kernel of the given (odd) size.
func Delta(size int) *transform.Kernel {
	size = 2*(size/2) + 1
	k := transform.NewKernel(size, size)
	k.Set(size/2, size/2, 1)
	return k
}
