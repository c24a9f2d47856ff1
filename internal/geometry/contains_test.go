package geometry

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestPolygonContains(t *testing.T) {
	hole := square(4, 4, 2)
	hole.Reverse()
	poly := orb.Polygon{square(0, 0, 10), hole}

	tests := []struct {
		name string
		pt   orb.Point
		want bool
	}{
		{"interior", orb.Point{1, 1}, true},
		{"shell edge", orb.Point{0, 5}, true},
		{"shell vertex", orb.Point{10, 10}, true},
		{"outside", orb.Point{11, 5}, false},
		{"inside hole", orb.Point{5, 5}, false},
		{"hole edge", orb.Point{4, 5}, true},
		{"hole vertex", orb.Point{6, 6}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PolygonContains(poly, tt.pt))
		})
	}
}

func TestContains_MultiPolygon(t *testing.T) {
	mp := orb.MultiPolygon{
		{square(0, 0, 1)},
		{square(5, 5, 1)},
	}

	assert.True(t, Contains(mp, orb.Point{0.5, 0.5}))
	assert.True(t, Contains(mp, orb.Point{5.5, 5.5}))
	assert.False(t, Contains(mp, orb.Point{3, 3}))
	assert.False(t, Contains(nil, orb.Point{0, 0}))
}
