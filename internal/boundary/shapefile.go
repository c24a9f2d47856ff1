package boundary

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
)

// dbfPath - файл атрибутов рядом с .shp, в том виде, в каком его ищет go-shp
func dbfPath(shpPath string) string {
	return shpPath[:len(shpPath)-len("shp")] + "dbf"
}

// hasAttributeTable сообщает, есть ли у shapefile таблица атрибутов
func hasAttributeTable(shpPath string) bool {
	info, err := os.Stat(dbfPath(shpPath))
	return err == nil && !info.IsDir()
}

// readShapefile читает полигоны .shp и атрибуты из соседнего .dbf.
// Без .dbf объекты читаются без атрибутов. Координаты считаются уже в
// WGS84 (.prj не читается).
func readShapefile(path string) ([]rawFeature, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open shapefile: %w", err)
	}
	defer func() { _ = reader.Close() }()

	var fields []shp.Field
	if hasAttributeTable(path) {
		fields = reader.Fields()
	}
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = strings.TrimRight(f.String(), "\x00")
	}

	var out []rawFeature
	for reader.Next() {
		_, shape := reader.Shape()

		var rings []orb.Ring
		switch s := shape.(type) {
		case *shp.Polygon:
			rings = shapeRings(s.NumParts, s.NumPoints, s.Parts, s.Points)
		case *shp.PolygonZ:
			rings = shapeRings(s.NumParts, s.NumPoints, s.Parts, s.Points)
		case *shp.PolygonM:
			rings = shapeRings(s.NumParts, s.NumPoints, s.Parts, s.Points)
		case *shp.Null:
			// пустая запись полигонального файла, объект будет отброшен
		default:
			continue
		}

		polys := assembleRings(rings)

		props := make(map[string]any, len(fields))
		for i, name := range names {
			val := strings.TrimSpace(strings.TrimRight(reader.Attribute(i), "\x00"))
			if val == "" {
				continue
			}
			props[name] = dbfValue(fields[i].Fieldtype, val)
		}
		out = append(out, rawFeature{props: props, polygons: polys})
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("failed to read shapefile: %w", err)
	}
	return out, nil
}

func shapeRings(numParts, numPoints int32, parts []int32, points []shp.Point) []orb.Ring {
	rings := make([]orb.Ring, 0, numParts)
	for i := 0; i < int(numParts); i++ {
		start := parts[i]
		end := numPoints
		if i < int(numParts)-1 {
			end = parts[i+1]
		}
		ring := make(orb.Ring, 0, end-start)
		for j := start; j < end; j++ {
			ring = append(ring, orb.Point{points[j].X, points[j].Y})
		}
		rings = append(rings, ring)
	}
	return rings
}

// dbfValue - числовые поля dBase отдаются числами, остальные строками
func dbfValue(fieldType byte, val string) any {
	if fieldType == 'N' || fieldType == 'F' {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return val
}
