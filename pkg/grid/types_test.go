package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointRound(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		want PointInt
	}{
		{"exact", Point{Y: 3, X: 7}, PointInt{Y: 3, X: 7}},
		{"round up", Point{Y: 3.6, X: 7.5}, PointInt{Y: 4, X: 8}},
		{"round down", Point{Y: 3.4, X: 7.2}, PointInt{Y: 3, X: 7}},
		{"negative", Point{Y: -1.6, X: -0.4}, PointInt{Y: -2, X: 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.p.Round())
		})
	}
}

func TestSpanLen(t *testing.T) {
	assert.Equal(t, 5, NewSpan(2, 7).Len())
	assert.Equal(t, 0, NewSpan(7, 2).Len())
	assert.True(t, NewSpan(3, 3).Empty())
	assert.Equal(t, 4, FullSpan(4).Len())
}

func TestRectIntersect(t *testing.T) {
	a := Rect{Bottom: 0, Top: 10, Left: 0, Right: 10}
	b := Rect{Bottom: 5, Top: 15, Left: -3, Right: 4}
	got := a.Intersect(b)
	assert.Equal(t, Rect{Bottom: 5, Top: 10, Left: 0, Right: 4}, got)

	disjoint := Rect{Bottom: 20, Top: 30, Left: 20, Right: 30}
	assert.True(t, a.Intersect(disjoint).Empty())
}

func TestRectContains(t *testing.T) {
	r := Rect{Bottom: 2, Top: 5, Left: 2, Right: 5}
	assert.True(t, r.Contains(PointInt{Y: 2, X: 4}))
	assert.False(t, r.Contains(PointInt{Y: 5, X: 4}), "top edge is exclusive")
	assert.False(t, r.Contains(PointInt{Y: 1, X: 4}))
}
