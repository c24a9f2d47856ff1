package boundary

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb"

	"github.com/boundary-resolver/internal/geometry"
)

type esriDocument struct {
	GeometryType     string          `json:"geometryType"`
	SpatialReference json.RawMessage `json:"spatialReference"`
	Features         []esriFeature   `json:"features"`
}

type esriFeature struct {
	Attributes map[string]any `json:"attributes"`
	Geometry   *esriGeometry  `json:"geometry"`
}

type esriGeometry struct {
	Rings [][][]float64 `json:"rings"`
}

func parseESRI(data []byte) (*esriDocument, error) {
	var doc esriDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode esri json: %w", err)
	}
	return &doc, nil
}

// rawFeatures отдаёт все объекты документа. Объект без пригодных колец
// остаётся с пустым списком полигонов и учитывается как отброшенный.
func (d *esriDocument) rawFeatures() []rawFeature {
	out := make([]rawFeature, 0, len(d.Features))
	for _, f := range d.Features {
		var polys [][]orb.Ring
		if f.Geometry != nil {
			polys = assembleRings(esriRings(f.Geometry.Rings))
		}
		out = append(out, rawFeature{props: f.Attributes, polygons: polys})
	}
	return out
}

// esriRings переводит координаты колец в orb. Кольцо с неполной или
// нечисловой вершиной отбрасывается целиком.
func esriRings(coords [][][]float64) []orb.Ring {
	rings := make([]orb.Ring, 0, len(coords))
next:
	for _, ring := range coords {
		r := make(orb.Ring, 0, len(ring))
		for _, c := range ring {
			// z и m игнорируются
			if len(c) < 2 || !finite(c[0]) || !finite(c[1]) {
				continue next
			}
			r = append(r, orb.Point{c[0], c[1]})
		}
		rings = append(rings, r)
	}
	return rings
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// assembleRings собирает плоский список колец ESRI/shapefile в полигоны.
//
// Если кольца имеют разное направление обхода, внешними считаются кольца с
// тем же направлением, что у самого большого (по ESRI - по часовой стрелке),
// остальные - дырами; каждая дыра прикрепляется к наименьшему внешнему
// кольцу, которое её содержит, а дыра вне всех внешних колец становится
// отдельным полигоном.
//
// Если направление у всех колец одинаковое, первое кольцо - внешнее,
// остальные - дыры. Если такие "дыры" лежат вне внешнего кольца, пересекают
// его или вложены друг в друга, каждое кольцо становится отдельным полигоном.
//
// Кольца с нулевой ориентированной площадью (например, "бабочка") не имеют
// направления обхода; каждое из них становится отдельным полигоном и
// исправляется при нормализации.
func assembleRings(in []orb.Ring) [][]orb.Ring {
	var rings, unoriented []orb.Ring
	for _, r := range in {
		c, err := geometry.CleanRing(r)
		if err != nil {
			continue
		}
		if geometry.SignedArea(c) == 0 {
			unoriented = append(unoriented, c)
			continue
		}
		rings = append(rings, c)
	}

	var polys [][]orb.Ring
	switch {
	case len(rings) == 1:
		polys = [][]orb.Ring{{rings[0]}}
	case len(rings) > 1 && mixedWinding(rings):
		polys = assembleByWinding(rings)
	case len(rings) > 1:
		polys = assembleLegacy(rings)
	}
	return append(polys, independentRings(unoriented)...)
}

func mixedWinding(rings []orb.Ring) bool {
	cw := geometry.IsClockwise(rings[0])
	for _, r := range rings[1:] {
		if geometry.IsClockwise(r) != cw {
			return true
		}
	}
	return false
}

func assembleByWinding(rings []orb.Ring) [][]orb.Ring {
	largest := 0
	for i, r := range rings {
		if math.Abs(geometry.SignedArea(r)) > math.Abs(geometry.SignedArea(rings[largest])) {
			largest = i
		}
	}
	outerCW := geometry.IsClockwise(rings[largest])

	var shells, holes []orb.Ring
	for _, r := range rings {
		if geometry.IsClockwise(r) == outerCW {
			shells = append(shells, r)
		} else {
			holes = append(holes, r)
		}
	}

	// порядок для поиска наименьшего содержащего кольца
	order := make([]int, len(shells))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return math.Abs(geometry.SignedArea(shells[order[a]])) < math.Abs(geometry.SignedArea(shells[order[b]]))
	})

	polys := make([][]orb.Ring, len(shells))
	for i, s := range shells {
		polys[i] = []orb.Ring{s}
	}
	var orphans [][]orb.Ring
	for _, h := range holes {
		attached := false
		for _, i := range order {
			if geometry.RingWithin(h, shells[i]) {
				polys[i] = append(polys[i], h)
				attached = true
				break
			}
		}
		if !attached {
			orphans = append(orphans, []orb.Ring{h})
		}
	}
	return append(polys, orphans...)
}

func assembleLegacy(rings []orb.Ring) [][]orb.Ring {
	shell := rings[0]
	for _, h := range rings[1:] {
		if !geometry.RingWithin(h, shell) {
			return independentRings(rings)
		}
	}
	err := geometry.Validate(orb.Polygon(rings))
	if errors.Is(err, geometry.ErrRingsCross) || errors.Is(err, geometry.ErrNestedHole) ||
		errors.Is(err, geometry.ErrHoleOutsideShell) {
		return independentRings(rings)
	}
	return [][]orb.Ring{rings}
}

func independentRings(rings []orb.Ring) [][]orb.Ring {
	out := make([][]orb.Ring, len(rings))
	for i, r := range rings {
		out[i] = []orb.Ring{r}
	}
	return out
}
