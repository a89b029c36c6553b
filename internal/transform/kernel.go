package transform

import "fmt"

// Kernel is a small 2D convolution kernel, stored row-major. Odd extents
// keep the kernel center on a pixel.
type Kernel struct {
	Height int
	Width  int
	Data   []float64
}

// NewKernel creates a zero-filled kernel.
func NewKernel(height, width int) *Kernel {
	return &Kernel{Height: height, Width: width, Data: make([]float64, height*width)}
}

// KernelFromData wraps a row-major buffer as a kernel.
func KernelFromData(height, width int, data []float64) (*Kernel, error) {
	if len(data) != height*width {
		return nil, fmt.Errorf("transform: kernel buffer length %d does not match %dx%d",
			len(data), height, width)
	}
	return &Kernel{Height: height, Width: width, Data: data}, nil
}

// At returns the kernel value at row y, column x.
func (k *Kernel) At(y, x int) float64 {
	return k.Data[y*k.Width+x]
}

// Set stores a kernel value at row y, column x.
func (k *Kernel) Set(y, x int, v float64) {
	k.Data[y*k.Width+x] = v
}

// Sum returns the total kernel weight.
func (k *Kernel) Sum() float64 {
	var total float64
	for _, v := range k.Data {
		total += v
	}
	return total
}

// Normalize scales the kernel to unit sum. A zero-sum kernel is left alone.
func (k *Kernel) Normalize() {
	total := k.Sum()
	if total == 0 {
		return
	}
	for i := range k.Data {
		k.Data[i] /= total
	}
}

// convolve returns the full convolution of two kernels, extent
// (ha+hb-1, wa+wb-1). Used to fold the sub-pixel shift kernel into the PSF
// before the combined operator matrix is built.
func convolve(a, b *Kernel) *Kernel {
	out := NewKernel(a.Height+b.Height-1, a.Width+b.Width-1)
	for ya := 0; ya < a.Height; ya++ {
		for xa := 0; xa < a.Width; xa++ {
			va := a.At(ya, xa)
			if va == 0 {
				continue
			}
			for yb := 0; yb < b.Height; yb++ {
				for xb := 0; xb < b.Width; xb++ {
					out.Data[(ya+yb)*out.Width+(xa+xb)] += va * b.At(yb, xb)
				}
			}
		}
	}
	return out
}
