package prox

import (
	"math"
	"sort"
)

// StrictMonotonic returns a projection that enforces strictly decreasing
// brightness from the frame center outward on a flattened (height, width)
// image. Pixels are visited in order of increasing radius; each is capped at
// (1-thresh) times its reference neighbor, the adjacent pixel one step
// toward the center. thresh in [0, 1) sets the minimum relative decay per
// step; 0 allows flat profiles.
func StrictMonotonic(height, width int, thresh float64) Op {
	cy, cx := height/2, width/2
	type pix struct {
		idx  int
		ref  int
		dist float64
	}
	order := make([]pix, 0, height*width-1)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if y == cy && x == cx {
				continue
			}
			ry := y - sign(y-cy)
			rx := x - sign(x-cx)
			dy, dx := float64(y-cy), float64(x-cx)
			order = append(order, pix{
				idx:  y*width + x,
				ref:  ry*width + rx,
				dist: math.Hypot(dy, dx),
			})
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].dist < order[j].dist
	})
	decay := 1 - thresh

	return func(x []float64, step float64) []float64 {
		for _, p := range order {
			limit := x[p.ref] * decay
			if x[p.idx] > limit {
				x[p.idx] = limit
			}
		}
		return x
	}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
