package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Validate проверяет, что полигон простой: кольца замкнуты, без
// самопересечений и с ненулевой площадью, кольца не пересекают друг друга,
// дыры лежат внутри внешнего кольца и не вложены друг в друга. Касание колец
// в одной точке допускается.
func Validate(poly orb.Polygon) error {
	if len(poly) == 0 {
		return ErrEmptyPolygon
	}
	for _, r := range poly {
		if len(r) < 4 || r[0] != r[len(r)-1] || distinctPoints(r) < 3 {
			return ErrDegenerateRing
		}
		// вырожденное в отрезок кольцо пересекает само себя по всей длине,
		// поэтому проверяется до самопересечений
		if collinearRing(r) {
			return ErrZeroArea
		}
		if selfIntersects(r) {
			return ErrSelfIntersection
		}
		if SignedArea(r) == 0 {
			return ErrZeroArea
		}
	}
	if len(poly) == 1 {
		return nil
	}
	if ringsCross(poly) {
		return ErrRingsCross
	}
	shell := poly[0]
	for i, hole := range poly[1:] {
		if !ringInside(hole, shell) {
			return ErrHoleOutsideShell
		}
		for j, other := range poly[1:] {
			if i != j && ringInside(hole, other) {
				return ErrNestedHole
			}
		}
	}
	return nil
}

// collinearRing - все вершины кольца лежат на одной прямой
func collinearRing(r orb.Ring) bool {
	for _, b := range r[1:] {
		if b == r[0] {
			continue
		}
		for _, p := range r {
			if cross(r[0], b, p) != 0 {
				return false
			}
		}
		return true
	}
	return true
}

func selfIntersects(r orb.Ring) bool {
	n := len(r) - 1
	found := false
	sweepPairs(segmentsOf(0, r), func(s, t indexedSegment) bool {
		kind, _ := intersect(s.a, s.b, t.a, t.b)
		if adjacent(s.idx, t.idx, n) {
			// соседние рёбра всегда делят вершину, ошибка только при
			// возврате назад по предыдущему ребру
			found = kind == collinearIntersection
		} else {
			found = kind != noIntersection
		}
		return !found
	})
	return found
}

func ringsCross(poly orb.Polygon) bool {
	var segs []indexedSegment
	for i, r := range poly {
		segs = append(segs, segmentsOf(i, r)...)
	}
	found := false
	sweepPairs(segs, func(s, t indexedSegment) bool {
		if s.ring == t.ring {
			return true
		}
		kind, _ := intersect(s.a, s.b, t.a, t.b)
		found = kind == properIntersection || kind == collinearIntersection
		return !found
	})
	return found
}

// ringInside решает по первой вершине inner, не лежащей на границе outer.
// Если все вершины на границе, кольцо не считается внутренним.
func ringInside(inner, outer orb.Ring) bool {
	for _, p := range inner[:len(inner)-1] {
		if onRing(outer, p) {
			continue
		}
		return planar.RingContains(outer, p)
	}
	return false
}

// RingWithin - все вершины inner внутри outer или на его границе, и рёбра
// не пересекают outer.
func RingWithin(inner, outer orb.Ring) bool {
	if !outer.Bound().Contains(inner.Bound().Min) || !outer.Bound().Contains(inner.Bound().Max) {
		return false
	}
	for _, p := range inner[:len(inner)-1] {
		if !onRing(outer, p) && !planar.RingContains(outer, p) {
			return false
		}
	}
	return !ringsCross(orb.Polygon{outer, inner}) && ringInside(inner, outer)
}

// Area возвращает площадь мультиполигона в квадратных градусах.
func Area(mp orb.MultiPolygon) float64 {
	total := 0.0
	for _, poly := range mp {
		for i, r := range poly {
			a := math.Abs(SignedArea(r))
			if i == 0 {
				total += a
			} else {
				total -= a
			}
		}
	}
	return total
}
