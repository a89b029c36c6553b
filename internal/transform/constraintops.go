package transform

import (
	"math"

	"github.com/james-bowman/sparse"
)

// RadialMonotonic builds the sparse operator M whose rows compare each pixel
// against a reference formed from its neighbors closer to the frame center:
// M*x >= 0 holds exactly when brightness does not increase outward. With
// useNearest the reference is the single inward neighbor best aligned with
// the direction to the center; otherwise it is a cosine-weighted average of
// all inward neighbors. The center row reduces to identity, pinning the peak
// non-negative.
func RadialMonotonic(height, width int, useNearest bool) *Matrix {
	n := height * width
	cy, cx := height/2, width/2
	dok := sparse.NewDOK(n, n)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			row := y*width + x
			if y == cy && x == cx {
				dok.Set(row, row, 1)
				continue
			}
			dist := math.Hypot(float64(y-cy), float64(x-cx))
			// direction from this pixel toward the center
			uy := (float64(cy) - float64(y)) / dist
			ux := (float64(cx) - float64(x)) / dist

			type inward struct {
				idx int
				cos float64
			}
			var refs []inward
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dy == 0 && dx == 0 {
						continue
					}
					ny, nx := y+dy, x+dx
					if ny < 0 || ny >= height || nx < 0 || nx >= width {
						continue
					}
					if math.Hypot(float64(ny-cy), float64(nx-cx)) >= dist {
						continue
					}
					step := math.Hypot(float64(dy), float64(dx))
					cos := (float64(dy)*uy + float64(dx)*ux) / step
					if cos <= 0 {
						continue
					}
					refs = append(refs, inward{idx: ny*width + nx, cos: cos})
				}
			}
			if len(refs) == 0 {
				continue
			}
			if useNearest {
				best := refs[0]
				for _, r := range refs[1:] {
					if r.cos > best.cos {
						best = r
					}
				}
				dok.Set(row, best.idx, 1)
			} else {
				var total float64
				for _, r := range refs {
					total += r.cos
				}
				for _, r := range refs {
					dok.Set(row, r.idx, r.cos/total)
				}
			}
			dok.Set(row, row, -1)
		}
	}
	return newMatrix(dok)
}

// Symmetry builds the operator S = I - R, where R is the 180-degree rotation
// about the frame center. S*x = 0 holds exactly for point-symmetric images;
// the self-mirrored center pixel yields an all-zero row.
func Symmetry(height, width int) *Matrix {
	n := height * width
	dok := sparse.NewDOK(n, n)
	for p := 0; p < n; p++ {
		mirror := n - 1 - p
		if mirror == p {
			continue
		}
		dok.Set(p, p, 1)
		dok.Set(p, mirror, -1)
	}
	return newMatrix(dok)
}

// GradientX builds the forward-difference operator along rows:
// (Gx*v)[y,x] = v[y,x+1] - v[y,x], with zero rows in the last column.
func GradientX(height, width int) *Matrix {
	n := height * width
	dok := sparse.NewDOK(n, n)
	for y := 0; y < height; y++ {
		for x := 0; x < width-1; x++ {
			row := y*width + x
			dok.Set(row, row, -1)
			dok.Set(row, row+1, 1)
		}
	}
	return newMatrix(dok)
}

// GradientY builds the forward-difference operator along columns:
// (Gy*v)[y,x] = v[y+1,x] - v[y,x], with zero rows in the last row.
func GradientY(height, width int) *Matrix {
	n := height * width
	dok := sparse.NewDOK(n, n)
	for y := 0; y < height-1; y++ {
		for x := 0; x < width; x++ {
			row := y*width + x
			dok.Set(row, row, -1)
			dok.Set(row, row+width, 1)
		}
	}
	return newMatrix(dok)
}
