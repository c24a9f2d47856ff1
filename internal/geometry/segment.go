package geometry

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
)

type intersectionKind int

const (
	noIntersection intersectionKind = iota
	// конец одного отрезка лежит на другом
	touchIntersection
	// внутренние точки пересекаются в одной точке
	properIntersection
	// отрезки перекрываются на ненулевой длине
	collinearIntersection
)

// допуск векторного произведения для проверки точки на ребре
const boundaryEps = 1e-12

func cross(o, a, b orb.Point) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func inBox(p, a, b orb.Point) bool {
	return p[0] >= math.Min(a[0], b[0]) && p[0] <= math.Max(a[0], b[0]) &&
		p[1] >= math.Min(a[1], b[1]) && p[1] <= math.Max(a[1], b[1])
}

// onSegment - лежит ли p на отрезке a-b (с небольшим допуском).
func onSegment(p, a, b orb.Point) bool {
	if !inBox(p, a, b) {
		return false
	}
	return math.Abs(cross(a, b, p)) <= boundaryEps
}

func onRing(r orb.Ring, p orb.Point) bool {
	for i := 0; i < len(r)-1; i++ {
		if onSegment(p, r[i], r[i+1]) {
			return true
		}
	}
	return false
}

// intersect классифицирует пересечение отрезков p1-p2 и p3-p4 по знакам
// ориентации. Для proper и touch возвращается точка пересечения, для
// collinear - концы общего участка.
func intersect(p1, p2, p3, p4 orb.Point) (intersectionKind, []orb.Point) {
	d1 := cross(p3, p4, p1)
	d2 := cross(p3, p4, p2)
	d3 := cross(p1, p2, p3)
	d4 := cross(p1, p2, p4)

	s1, s2, s3, s4 := sign(d1), sign(d2), sign(d3), sign(d4)

	if s1*s2 < 0 && s3*s4 < 0 {
		t := d1 / (d1 - d2)
		pt := orb.Point{p1[0] + t*(p2[0]-p1[0]), p1[1] + t*(p2[1]-p1[1])}
		return properIntersection, []orb.Point{pt}
	}

	if s1 == 0 && s2 == 0 && s3 == 0 && s4 == 0 {
		return collinearOverlap(p1, p2, p3, p4)
	}

	var touches []orb.Point
	if s1 == 0 && inBox(p1, p3, p4) {
		touches = append(touches, p1)
	}
	if s2 == 0 && inBox(p2, p3, p4) {
		touches = append(touches, p2)
	}
	if s3 == 0 && inBox(p3, p1, p2) {
		touches = append(touches, p3)
	}
	if s4 == 0 && inBox(p4, p1, p2) {
		touches = append(touches, p4)
	}
	if len(touches) > 0 {
		return touchIntersection, touches[:1]
	}
	return noIntersection, nil
}

func collinearOverlap(p1, p2, p3, p4 orb.Point) (intersectionKind, []orb.Point) {
	// проекция на основную ось p1-p2
	axis := 0
	if math.Abs(p2[1]-p1[1]) > math.Abs(p2[0]-p1[0]) {
		axis = 1
	}
	a, b := p1, p2
	if a[axis] > b[axis] {
		a, b = b, a
	}
	c, d := p3, p4
	if c[axis] > d[axis] {
		c, d = d, c
	}

	lo, hi := a, b
	if c[axis] > lo[axis] {
		lo = c
	}
	if d[axis] < hi[axis] {
		hi = d
	}

	switch {
	case lo[axis] > hi[axis]:
		return noIntersection, nil
	case lo == hi || lo[axis] == hi[axis]:
		return touchIntersection, []orb.Point{lo}
	}
	return collinearIntersection, []orb.Point{lo, hi}
}

type indexedSegment struct {
	ring, idx  int
	a, b       orb.Point
	minX, maxX float64
	minY, maxY float64
}

func segmentsOf(ring int, r orb.Ring) []indexedSegment {
	segs := make([]indexedSegment, 0, len(r)-1)
	for i := 0; i < len(r)-1; i++ {
		a, b := r[i], r[i+1]
		segs = append(segs, indexedSegment{
			ring: ring, idx: i, a: a, b: b,
			minX: math.Min(a[0], b[0]), maxX: math.Max(a[0], b[0]),
			minY: math.Min(a[1], b[1]), maxY: math.Max(a[1], b[1]),
		})
	}
	return segs
}

// sweepPairs вызывает fn для каждой пары отрезков с пересекающимися
// bbox. Обход прекращается, если fn вернула false.
func sweepPairs(segs []indexedSegment, fn func(s, t indexedSegment) bool) {
	sort.Slice(segs, func(i, j int) bool { return segs[i].minX < segs[j].minX })
	for i := range segs {
		for j := i + 1; j < len(segs) && segs[j].minX <= segs[i].maxX; j++ {
			if segs[j].minY > segs[i].maxY || segs[j].maxY < segs[i].minY {
				continue
			}
			if !fn(segs[i], segs[j]) {
				return
			}
		}
	}
}

func adjacent(i, j, n int) bool {
	d := i - j
	if d < 0 {
		d = -d
	}
	return d == 1 || d == n-1
}
