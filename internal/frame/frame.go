// Package frame manages the rectangular sub-image a source occupies inside
// the full observation. Frame edges are kept in full-image coordinates and
// are re-derived from a (possibly sub-pixel) center and a requested size.
package frame

import (
	"fmt"

	"starblend/pkg/grid"
)

// Frame is a source's local pixel rectangle [Bottom, Top) x [Left, Right) in
// full-image coordinates. The rounded center always sits at the midpoint, so
// both extents are odd. Edges may lie outside the full image; BoundingBox
// and SliceFor provide the clamped views needed for safe slicing.
type Frame struct {
	Center grid.Point
	Bottom int
	Top    int
	Left   int
	Right  int
}

// New derives a frame from a center and a requested (height, width). The
// stored extents are forced odd via 2*(n/2)+1, so a request of 4 yields 5.
// Non-positive sizes are rejected.
func New(center grid.Point, height, width int) (Frame, error) {
	if height <= 0 || width <= 0 {
		return Frame{}, fmt.Errorf("frame: invalid size %dx%d, extents must be positive", height, width)
	}
	c := center.Round()
	return Frame{
		Center: center,
		Bottom: c.Y - height/2,
		Top:    c.Y + height/2 + 1,
		Left:   c.X - width/2,
		Right:  c.X + width/2 + 1,
	}, nil
}

// Height returns the vertical extent in pixels.
func (f Frame) Height() int {
	return f.Top - f.Bottom
}

// Width returns the horizontal extent in pixels.
func (f Frame) Width() int {
	return f.Right - f.Left
}

// Pixels returns the number of pixels in the frame.
func (f Frame) Pixels() int {
	return f.Height() * f.Width()
}

// CenterInt returns the rounded integer center pixel.
func (f Frame) CenterInt() grid.PointInt {
	return f.Center.Round()
}

// Offset returns the sub-pixel residual between the continuous center and
// the rounded center pixel, in (-0.5, 0.5] per axis.
func (f Frame) Offset() grid.Point {
	return f.Center.Sub(f.CenterInt().ToFloat())
}

// Rect returns the frame edges as a rectangle in full-image coordinates.
func (f Frame) Rect() grid.Rect {
	return grid.Rect{Bottom: f.Bottom, Top: f.Top, Left: f.Left, Right: f.Right}
}

// BoundingBox returns the frame with start edges clamped to zero, the region
// used to index into the full image. Stop edges are left as-is since slicing
// a Go buffer caps them against the image extent at use sites.
func (f Frame) BoundingBox() grid.Rect {
	return grid.Rect{
		Bottom: max(0, f.Bottom),
		Top:    f.Top,
		Left:   max(0, f.Left),
		Right:  f.Right,
	}
}

// SliceFor returns, in local frame coordinates, the (y, x) spans of the
// portion of the frame that overlaps an image of the given shape. A frame
// margin hanging off any image edge is clipped: the low side by
// max(0, -edge), the high side by max(0, edge-extent).
func (f Frame) SliceFor(imgHeight, imgWidth int) (grid.Span, grid.Span) {
	y := grid.Span{
		Start: max(0, -f.Bottom),
		Stop:  f.Height() - max(0, f.Top-imgHeight),
	}
	x := grid.Span{
		Start: max(0, -f.Left),
		Stop:  f.Width() - max(0, f.Right-imgWidth),
	}
	return y, x
}

// Overlap maps the intersection of two frames into both local coordinate
// systems, returning (oldY, oldX, newY, newX) spans such that copying
// old[oldY, oldX] into new[newY, newX] moves every shared pixel. An axis
// whose extent is unchanged maps to the full span on both sides.
func Overlap(old, new Frame) (oldY, oldX, newY, newX grid.Span) {
	if old.Height() == new.Height() {
		oldY = grid.FullSpan(old.Height())
		newY = oldY
	} else {
		newY = grid.Span{
			Start: max(0, old.Bottom-new.Bottom),
			Stop:  min(new.Height(), new.Height()-(new.Top-old.Top)),
		}
		oldY = grid.Span{
			Start: max(0, new.Bottom-old.Bottom),
			Stop:  min(old.Height(), old.Height()-(old.Top-new.Top)),
		}
	}
	if old.Width() == new.Width() {
		oldX = grid.FullSpan(old.Width())
		newX = oldX
	} else {
		newX = grid.Span{
			Start: max(0, old.Left-new.Left),
			Stop:  min(new.Width(), new.Width()-(new.Right-old.Right)),
		}
		oldX = grid.Span{
			Start: max(0, new.Left-old.Left),
			Stop:  min(old.Width(), old.Width()-(old.Right-new.Right)),
		}
	}
	return oldY, oldX, newY, newX
}
