package geometry

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// PolygonContains проверяет попадание точки в полигон. Точка на внешнем
// кольце или на границе дыры считается попавшей, строго внутри дыры - нет.
func PolygonContains(poly orb.Polygon, pt orb.Point) bool {
	if len(poly) == 0 {
		return false
	}
	shell := poly[0]
	if onRing(shell, pt) {
		return true
	}
	if !planar.RingContains(shell, pt) {
		return false
	}
	for _, hole := range poly[1:] {
		if onRing(hole, pt) {
			return true
		}
		if planar.RingContains(hole, pt) {
			return false
		}
	}
	return true
}

// Contains - попадает ли точка в любую часть мультиполигона (граница включается).
func Contains(mp orb.MultiPolygon, pt orb.Point) bool {
	for _, poly := range mp {
		if !poly.Bound().Contains(pt) {
			continue
		}
		if PolygonContains(poly, pt) {
			return true
		}
	}
	return false
}
