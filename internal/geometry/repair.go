package geometry

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
)

// Normalize очищает кольца одного полигона (первое внешнее, остальные дыры),
// при необходимости исправляет его и возвращает части с внешними кольцами
// против часовой стрелки и дырами по часовой. repaired = true, если
// понадобился MakeValid. Вырожденные дыры отбрасываются, вырожденное внешнее
// кольцо - ошибка для всего полигона.
func Normalize(rings []orb.Ring) (mp orb.MultiPolygon, repaired bool, err error) {
	if len(rings) == 0 {
		return nil, false, ErrEmptyPolygon
	}
	shell, err := CleanRing(rings[0])
	if err != nil {
		return nil, false, err
	}
	poly := orb.Polygon{shell}
	for _, h := range rings[1:] {
		if c, err := CleanRing(h); err == nil {
			poly = append(poly, c)
		}
	}

	if Validate(poly) == nil {
		return orb.MultiPolygon{Orient(poly)}, false, nil
	}

	mp = MakeValid(poly)
	if len(mp) == 0 {
		return nil, true, ErrUnrepairable
	}
	return mp, true, nil
}

// MakeValid перестраивает невалидный полигон так же, как buffer(0):
// самопересекающиеся кольца режутся в точках пересечения на простые петли,
// петли нулевой площади исчезают, петли внешнего кольца становятся
// отдельными частями, а петли дыр прикрепляются к части, в которую попадают.
// Дыры вне всех частей или пересекающие внешнее кольцо отбрасываются.
func MakeValid(poly orb.Polygon) orb.MultiPolygon {
	if len(poly) == 0 {
		return nil
	}

	shells := dropCovered(splitRing(poly[0]))
	var holes []orb.Ring
	for _, h := range poly[1:] {
		holes = append(holes, splitRing(h)...)
	}

	parts := make(orb.MultiPolygon, 0, len(shells))
	for _, s := range shells {
		parts = append(parts, orb.Polygon{orientRing(s, true)})
	}

	for _, h := range holes {
		for i := range parts {
			if !RingWithin(h, parts[i][0]) {
				continue
			}
			if insideAny(h, parts[i][1:]) || ringsCross(append(orb.Polygon{h}, parts[i][1:]...)) {
				break
			}
			parts[i] = append(parts[i], orientRing(h, false))
			break
		}
	}

	out := parts[:0]
	for _, p := range parts {
		if Validate(p) == nil {
			out = append(out, p)
		}
	}
	return out
}

// splitRing режет кольцо во всех точках самопересечения и возвращает
// простые замкнутые петли ненулевой площади.
func splitRing(r orb.Ring) []orb.Ring {
	clean, err := CleanRing(r)
	if err != nil {
		return nil
	}
	noded := nodeRing(clean)

	var loops []orb.Ring
	path := make([]orb.Point, 0, len(noded))
	pos := make(map[orb.Point]int, len(noded))

	for _, p := range noded[:len(noded)-1] {
		if i, ok := pos[p]; ok {
			loop := make(orb.Ring, 0, len(path)-i+1)
			loop = append(loop, path[i:]...)
			loops = appendLoop(loops, append(loop, p))
			for _, q := range path[i+1:] {
				delete(pos, q)
			}
			path = path[:i+1]
			continue
		}
		pos[p] = len(path)
		path = append(path, p)
	}
	if len(path) >= 3 {
		loop := make(orb.Ring, 0, len(path)+1)
		loop = append(loop, path...)
		loops = appendLoop(loops, append(loop, path[0]))
	}
	return loops
}

func appendLoop(loops []orb.Ring, loop orb.Ring) []orb.Ring {
	c, err := CleanRing(loop)
	if err != nil {
		return loops
	}
	if math.Abs(SignedArea(c)) == 0 {
		return loops
	}
	return append(loops, c)
}

// nodeRing вставляет каждую точку пересечения рёбер как вершину обоих рёбер.
// Оба ребра получают одну и ту же вычисленную точку, поэтому splitRing
// находит её точным сравнением.
func nodeRing(r orb.Ring) orb.Ring {
	n := len(r) - 1
	cuts := make([][]orb.Point, n)

	sweepPairs(segmentsOf(0, r), func(s, t indexedSegment) bool {
		kind, pts := intersect(s.a, s.b, t.a, t.b)
		if kind == noIntersection {
			return true
		}
		if adjacent(s.idx, t.idx, n) && kind != collinearIntersection {
			return true
		}
		for _, p := range pts {
			if p != s.a && p != s.b {
				cuts[s.idx] = append(cuts[s.idx], p)
			}
			if p != t.a && p != t.b {
				cuts[t.idx] = append(cuts[t.idx], p)
			}
		}
		return true
	})

	out := make(orb.Ring, 0, len(r))
	for i := 0; i < n; i++ {
		a := r[i]
		out = append(out, a)
		c := cuts[i]
		sort.Slice(c, func(x, y int) bool { return dist2(a, c[x]) < dist2(a, c[y]) })
		for j, p := range c {
			if j > 0 && p == c[j-1] {
				continue
			}
			out = append(out, p)
		}
	}
	return append(out, r[n])
}

// dropCovered убирает петли, лежащие внутри другой петли.
func dropCovered(loops []orb.Ring) []orb.Ring {
	sort.SliceStable(loops, func(i, j int) bool {
		return math.Abs(SignedArea(loops[i])) > math.Abs(SignedArea(loops[j]))
	})
	out := loops[:0]
	for _, l := range loops {
		if insideAny(l, out) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func insideAny(r orb.Ring, others []orb.Ring) bool {
	for _, o := range others {
		if ringInside(r, o) {
			return true
		}
	}
	return false
}

func dist2(a, b orb.Point) float64 {
	dx, dy := b[0]-a[0], b[1]-a[1]
	return dx*dx + dy*dy
}
