// Package cube provides a multiband image container backed by a single flat
// buffer. The flat form is authoritative; Band and Plane expose aliasing
// views over the same memory, so writes through one form are visible through
// the other.
package cube

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Cube is a (Bands, Height, Width) stack of 2D images stored row-major,
// band-major in one []float64.
type Cube struct {
	Bands  int
	Height int
	Width  int
	Data   []float64
}

// New creates a zero-filled cube.
func New(bands, height, width int) *Cube {
	return &Cube{
		Bands:  bands,
		Height: height,
		Width:  width,
		Data:   make([]float64, bands*height*width),
	}
}

// FromData wraps an existing buffer. The buffer length must match the shape.
func FromData(bands, height, width int, data []float64) (*Cube, error) {
	if len(data) != bands*height*width {
		return nil, fmt.Errorf("cube: buffer length %d does not match shape (%d, %d, %d)",
			len(data), bands, height, width)
	}
	return &Cube{Bands: bands, Height: height, Width: width, Data: data}, nil
}

// Pixels returns the number of pixels per band.
func (c *Cube) Pixels() int {
	return c.Height * c.Width
}

// At returns the value at band b, row y, column x.
func (c *Cube) At(b, y, x int) float64 {
	return c.Data[(b*c.Height+y)*c.Width+x]
}

// Set stores a value at band b, row y, column x.
func (c *Cube) Set(b, y, x int, v float64) {
	c.Data[(b*c.Height+y)*c.Width+x] = v
}

// Band returns the flattened pixels of one band as a view over the cube's
// buffer.
func (c *Cube) Band(b int) []float64 {
	n := c.Pixels()
	return c.Data[b*n : (b+1)*n]
}

// Plane returns a 2D view of one band.
func (c *Cube) Plane(b int) Plane {
	return Plane{Height: c.Height, Width: c.Width, Data: c.Band(b)}
}

// Clone returns a deep copy.
func (c *Cube) Clone() *Cube {
	out := New(c.Bands, c.Height, c.Width)
	copy(out.Data, c.Data)
	return out
}

// Add accumulates another cube of the same shape into this one.
func (c *Cube) Add(other *Cube) error {
	if c.Bands != other.Bands || c.Height != other.Height || c.Width != other.Width {
		return fmt.Errorf("cube: shape mismatch (%d, %d, %d) vs (%d, %d, %d)",
			c.Bands, c.Height, c.Width, other.Bands, other.Height, other.Width)
	}
	floats.Add(c.Data, other.Data)
	return nil
}

// Sum returns the sum over all bands and pixels.
func (c *Cube) Sum() float64 {
	return floats.Sum(c.Data)
}

// Plane is a 2D view over a flat row-major pixel buffer. It aliases the
// buffer it was created from.
type Plane struct {
	Height int
	Width  int
	Data   []float64
}

// NewPlane creates a zero-filled standalone plane.
func NewPlane(height, width int) Plane {
	return Plane{Height: height, Width: width, Data: make([]float64, height*width)}
}

// At returns the value at row y, column x.
func (p Plane) At(y, x int) float64 {
	return p.Data[y*p.Width+x]
}

// Set stores a value at row y, column x.
func (p Plane) Set(y, x int, v float64) {
	p.Data[y*p.Width+x] = v
}
