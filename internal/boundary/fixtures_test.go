package boundary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/boundary-resolver/internal/domain"
)

const squareGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"MUNICNAME": "Square Town", "PROVINCE": "Western Cape"},
      "geometry": {"type": "Polygon", "coordinates": [[[0,0],[10,0],[10,10],[0,10],[0,0]]]}
    }
  ]
}`

const holeGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"NAME": "Donut"},
      "geometry": {"type": "Polygon", "coordinates": [
        [[0,0],[10,0],[10,10],[0,10],[0,0]],
        [[4,4],[4,6],[6,6],[6,4],[4,4]]
      ]}
    }
  ]
}`

// clockwise outer ring as ESRI exports it
const squareESRI = `{
  "geometryType": "esriGeometryPolygon",
  "spatialReference": {"wkid": 4326},
  "features": [
    {
      "attributes": {"MUNICNAME": "Square Town", "PROVINCE": "Western Cape"},
      "geometry": {"rings": [[[0,0],[0,10],[10,10],[10,0],[0,0]]]}
    }
  ]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func municipalityDef(dir string) domain.LayerDefinition {
	return domain.LayerDefinition{
		Category:     domain.CategoryMunicipality,
		Label:        "municipality",
		Dir:          dir,
		NameKeys:     []string{"MUNICNAME", "municname", "NAME"},
		ExtrasKeys:   []string{"PROVINCE", "provname"},
		ProvinceKeys: []string{"PROVINCE", "provname"},
		Primary:      true,
	}
}

func regionDef(category domain.Category, label, dir string) domain.LayerDefinition {
	return domain.LayerDefinition{
		Category: category,
		Label:    label,
		Dir:      dir,
		NameKeys: []string{"REGION", "NAME"},
	}
}
