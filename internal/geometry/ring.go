package geometry

import (
	"errors"
	"math"

	"github.com/paulmach/orb"
)

var (
	ErrEmptyPolygon     = errors.New("polygon has no rings")
	ErrDegenerateRing   = errors.New("ring has fewer than 3 distinct points")
	ErrZeroArea         = errors.New("ring encloses no area")
	ErrSelfIntersection = errors.New("ring self-intersects")
	ErrRingsCross       = errors.New("rings cross each other")
	ErrHoleOutsideShell = errors.New("hole is not inside its shell")
	ErrNestedHole       = errors.New("hole is inside another hole")
	ErrUnrepairable     = errors.New("polygon is invalid and could not be repaired")
)

// CleanRing удаляет нечисловые и повторяющиеся подряд вершины и замыкает
// кольцо, повторяя первую вершину. Кольцо, в котором меньше 3 различных
// точек, отклоняется.
func CleanRing(in []orb.Point) (orb.Ring, error) {
	r := make(orb.Ring, 0, len(in)+1)
	for _, p := range in {
		if !finite(p) {
			continue
		}
		if len(r) > 0 && r[len(r)-1] == p {
			continue
		}
		r = append(r, p)
	}
	for len(r) > 1 && r[len(r)-1] == r[0] {
		r = r[:len(r)-1]
	}
	if distinctPoints(r) < 3 {
		return nil, ErrDegenerateRing
	}
	return append(r, r[0]), nil
}

// SignedArea возвращает площадь замкнутого кольца (формула шнурков),
// положительную для обхода против часовой стрелки.
func SignedArea(r orb.Ring) float64 {
	if len(r) < 4 {
		return 0
	}
	sum := 0.0
	for i := 0; i < len(r)-1; i++ {
		sum += r[i][0]*r[i+1][1] - r[i+1][0]*r[i][1]
	}
	return sum / 2
}

// IsClockwise - направление обхода кольца. Для кольца нулевой площади false.
func IsClockwise(r orb.Ring) bool {
	return SignedArea(r) < 0
}

// Orient возвращает копию полигона: внешнее кольцо против часовой стрелки,
// дыры по часовой (правило правой руки GeoJSON).
func Orient(poly orb.Polygon) orb.Polygon {
	out := make(orb.Polygon, len(poly))
	for i, r := range poly {
		out[i] = orientRing(r, i == 0)
	}
	return out
}

func orientRing(r orb.Ring, ccw bool) orb.Ring {
	c := r.Clone()
	if (SignedArea(c) > 0) != ccw {
		c.Reverse()
	}
	return c
}

func finite(p orb.Point) bool {
	return !math.IsNaN(p[0]) && !math.IsInf(p[0], 0) &&
		!math.IsNaN(p[1]) && !math.IsInf(p[1], 0)
}

func distinctPoints(pts []orb.Point) int {
	seen := make(map[orb.Point]struct{}, len(pts))
	for _, p := range pts {
		seen[p] = struct{}{}
		if len(seen) >= 3 {
			return len(seen)
		}
	}
	return len(seen)
}
