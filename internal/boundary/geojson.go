package boundary

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type geojsonDocument struct {
	features []*geojson.Feature
}

func parseGeoJSON(kind string, data []byte) (*geojsonDocument, error) {
	switch kind {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode feature collection: %w", err)
		}
		return &geojsonDocument{features: fc.Features}, nil
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode feature: %w", err)
		}
		return &geojsonDocument{features: []*geojson.Feature{f}}, nil
	}

	// голая геометрия - один объект без атрибутов
	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode geometry: %w", err)
	}
	if g.Geometry() == nil {
		return &geojsonDocument{}, nil
	}
	return &geojsonDocument{features: []*geojson.Feature{geojson.NewFeature(g.Geometry())}}, nil
}

func (d *geojsonDocument) rawFeatures() []rawFeature {
	out := make([]rawFeature, 0, len(d.features))
	for _, f := range d.features {
		if f == nil {
			continue
		}
		if f.Geometry == nil {
			// объект без геометрии учитывается как отброшенный
			out = append(out, rawFeature{props: map[string]any(f.Properties)})
			continue
		}
		polys := polygonsOf(f.Geometry)
		if len(polys) == 0 {
			// точки и линии молча игнорируются
			continue
		}
		out = append(out, rawFeature{props: map[string]any(f.Properties), polygons: polys})
	}
	return out
}

// polygonsOf извлекает полигональные части геометрии
func polygonsOf(g orb.Geometry) [][]orb.Ring {
	switch g := g.(type) {
	case orb.Polygon:
		if len(g) == 0 {
			return nil
		}
		return [][]orb.Ring{[]orb.Ring(g)}
	case orb.MultiPolygon:
		out := make([][]orb.Ring, 0, len(g))
		for _, p := range g {
			if len(p) > 0 {
				out = append(out, []orb.Ring(p))
			}
		}
		return out
	case orb.Collection:
		var out [][]orb.Ring
		for _, member := range g {
			out = append(out, polygonsOf(member)...)
		}
		return out
	}
	return nil
}
