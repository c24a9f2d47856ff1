package boundary

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb"
)

// SourceKind - формат файла-источника, определяется один раз на файл
type SourceKind int

const (
	SourceUnrecognized SourceKind = iota
	SourceGeoJSON
	SourceESRI
	SourceShapefile
)

func (k SourceKind) String() string {
	switch k {
	case SourceGeoJSON:
		return "geojson"
	case SourceESRI:
		return "esri"
	case SourceShapefile:
		return "shapefile"
	}
	return "unrecognized"
}

// supportedExt - расширения файлов, которые читает слой
var supportedExt = map[string]struct{}{
	".json":    {},
	".geojson": {},
	".shp":     {},
}

func isSupportedFile(name string) bool {
	_, ok := supportedExt[strings.ToLower(filepath.Ext(name))]
	return ok
}

// rawFeature - объект источника до нормализации геометрии: атрибуты и
// полигоны в виде списков колец (первое внешнее, остальные дыры)
type rawFeature struct {
	props    map[string]any
	polygons [][]orb.Ring
}

// Document - разобранный файл. Заполнено ровно одно поле, соответствующее Kind.
type Document struct {
	Kind    SourceKind
	Path    string
	geojson *geojsonDocument
	esri    *esriDocument
}

// ErrUnsupportedFormat возвращается для файлов, не похожих ни на один формат
var ErrUnsupportedFormat = errors.New("unsupported boundary format")

// OpenDocument читает файл и определяет его формат
func OpenDocument(path string) (doc *Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("panic while reading %s: %v", filepath.Base(path), r)
		}
	}()

	if strings.EqualFold(filepath.Ext(path), ".shp") {
		return &Document{Kind: SourceShapefile, Path: path}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseDocument(path, data)
}

// ParseDocument определяет формат JSON-документа по структурным признакам:
// type FeatureCollection/Feature (или голая геометрия) - GeoJSON, список
// features с attributes и geometry.rings - ESRI JSON.
func ParseDocument(path string, data []byte) (*Document, error) {
	var head struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
		Geometries  json.RawMessage `json:"geometries"`
		Features    json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("failed to parse json: %w", err)
	}

	switch {
	case head.Type == "FeatureCollection" || head.Type == "Feature":
		g, err := parseGeoJSON(head.Type, data)
		if err != nil {
			return nil, err
		}
		return &Document{Kind: SourceGeoJSON, Path: path, geojson: g}, nil

	case head.Type != "" && (head.Coordinates != nil || head.Geometries != nil):
		g, err := parseGeoJSON(head.Type, data)
		if err != nil {
			return nil, err
		}
		return &Document{Kind: SourceGeoJSON, Path: path, geojson: g}, nil

	case looksLikeESRI(head.Features):
		e, err := parseESRI(data)
		if err != nil {
			return nil, err
		}
		return &Document{Kind: SourceESRI, Path: path, esri: e}, nil
	}

	return &Document{Kind: SourceUnrecognized, Path: path}, nil
}

func looksLikeESRI(data json.RawMessage) bool {
	var features []json.RawMessage
	if len(data) == 0 || json.Unmarshal(data, &features) != nil {
		return false
	}
	for _, raw := range features {
		var f struct {
			Attributes json.RawMessage `json:"attributes"`
			Geometry   *struct {
				Rings json.RawMessage `json:"rings"`
			} `json:"geometry"`
		}
		if err := json.Unmarshal(raw, &f); err != nil {
			continue
		}
		if f.Attributes != nil && f.Geometry != nil && f.Geometry.Rings != nil {
			return true
		}
	}
	return false
}

// rawFeatures отдаёт объекты документа
func (d *Document) rawFeatures() (out []rawFeature, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("panic while decoding %s: %v", filepath.Base(d.Path), r)
		}
	}()

	switch d.Kind {
	case SourceGeoJSON:
		return d.geojson.rawFeatures(), nil
	case SourceESRI:
		return d.esri.rawFeatures(), nil
	case SourceShapefile:
		return readShapefile(d.Path)
	}
	return nil, ErrUnsupportedFormat
}
