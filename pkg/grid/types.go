// Package grid provides pixel-grid geometry used throughout the deblender.
//
// All coordinates are in (row, column) order, matching the layout of image
// buffers: Y grows downward through rows, X grows rightward through columns.
package grid

import (
	"math"
)

// Point is a continuous, possibly sub-pixel position on the image grid.
type Point struct {
	Y float64 `json:"y"`
	X float64 `json:"x"`
}

// NewPoint creates a new Point.
func NewPoint(y, x float64) Point {
	return Point{Y: y, X: x}
}

// Round returns the nearest integer pixel position.
func (p Point) Round() PointInt {
	return PointInt{Y: int(math.Round(p.Y)), X: int(math.Round(p.X))}
}

// Sub returns the difference of two points.
func (p Point) Sub(other Point) Point {
	return Point{Y: p.Y - other.Y, X: p.X - other.X}
}

// Add returns the sum of two points.
func (p Point) Add(other Point) Point {
	return Point{Y: p.Y + other.Y, X: p.X + other.X}
}

// PointInt is an integer pixel position.
type PointInt struct {
	Y int `json:"y"`
	X int `json:"x"`
}

// ToFloat converts to a continuous Point.
func (p PointInt) ToFloat() Point {
	return Point{Y: float64(p.Y), X: float64(p.X)}
}

// Span is a half-open index interval [Start, Stop).
type Span struct {
	Start int `json:"start"`
	Stop  int `json:"stop"`
}

// NewSpan creates a new Span.
func NewSpan(start, stop int) Span {
	return Span{Start: start, Stop: stop}
}

// FullSpan covers all n indices of an axis.
func FullSpan(n int) Span {
	return Span{Start: 0, Stop: n}
}

// Len returns the number of indices covered, never negative.
func (s Span) Len() int {
	if s.Stop <= s.Start {
		return 0
	}
	return s.Stop - s.Start
}

// Empty returns true if the span covers no indices.
func (s Span) Empty() bool {
	return s.Len() == 0
}

// Rect is a half-open pixel rectangle [Bottom, Top) x [Left, Right).
// Edges may lie outside any particular image; callers clamp as needed.
type Rect struct {
	Bottom int `json:"bottom"`
	Top    int `json:"top"`
	Left   int `json:"left"`
	Right  int `json:"right"`
}

// Height returns the vertical extent, never negative.
func (r Rect) Height() int {
	if r.Top <= r.Bottom {
		return 0
	}
	return r.Top - r.Bottom
}

// Width returns the horizontal extent, never negative.
func (r Rect) Width() int {
	if r.Right <= r.Left {
		return 0
	}
	return r.Right - r.Left
}

// Empty returns true if the rectangle covers no pixels.
func (r Rect) Empty() bool {
	return r.Height() == 0 || r.Width() == 0
}

// Intersect returns the overlap of two rectangles.
func (r Rect) Intersect(other Rect) Rect {
	out := Rect{
		Bottom: max(r.Bottom, other.Bottom),
		Top:    min(r.Top, other.Top),
		Left:   max(r.Left, other.Left),
		Right:  min(r.Right, other.Right),
	}
	if out.Top < out.Bottom {
		out.Top = out.Bottom
	}
	if out.Right < out.Left {
		out.Right = out.Left
	}
	return out
}

// Contains returns true if the pixel position lies inside the rectangle.
func (r Rect) Contains(p PointInt) bool {
	return p.Y >= r.Bottom && p.Y < r.Top && p.X >= r.Left && p.X < r.Right
}
