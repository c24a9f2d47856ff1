package boundary

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/boundary-resolver/internal/geometry"
)

// Feature - именованный полигон слоя. После загрузки не изменяется.
type Feature struct {
	Name       string
	Attributes map[string]any
	Geometry   orb.MultiPolygon
	Bound      orb.Bound
	Source     string
}

// Contains проверяет попадание точки: сначала bbox, затем точная проверка
// с учётом границы
func (f *Feature) Contains(lon, lat float64) bool {
	pt := orb.Point{lon, lat}
	if !f.Bound.Contains(pt) {
		return false
	}
	return geometry.Contains(f.Geometry, pt)
}

// Attribute возвращает первое непустое (после trim) значение по ключам
func (f *Feature) Attribute(keys ...string) (string, bool) {
	return firstValue(f.Attributes, keys)
}

// ResolveName возвращает первое непустое значение по ключам в заданном
// порядке; если ключей нет, используется метка из имени файла
func ResolveName(props map[string]any, keys []string, source string) string {
	if v, ok := firstValue(props, keys); ok {
		return v
	}
	return LabelFromFilename(source)
}

// ExtractExtras копирует только присутствующие и не-null ключи
func ExtractExtras(props map[string]any, keys []string) map[string]any {
	if len(keys) == 0 || len(props) == 0 {
		return nil
	}
	var out map[string]any
	for _, k := range keys {
		v, ok := props[k]
		if !ok || v == nil {
			continue
		}
		if out == nil {
			out = make(map[string]any, len(keys))
		}
		out[k] = v
	}
	return out
}

// LabelFromFilename - "nsc_regions-2024.geojson" -> "nsc regions 2024"
func LabelFromFilename(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = strings.NewReplacer("_", " ", "-", " ").Replace(stem)
	return strings.Join(strings.Fields(stem), " ")
}

func firstValue(props map[string]any, keys []string) (string, bool) {
	for _, k := range keys {
		v, ok := props[k]
		if !ok {
			continue
		}
		if s, ok := stringify(v); ok {
			return s, true
		}
	}
	return "", false
}

// stringify приводит значение атрибута к строке; null и пустые строки не
// считаются значением
func stringify(v any) (string, bool) {
	var s string
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		s = t
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		s = strconv.Itoa(t)
	case int64:
		s = strconv.FormatInt(t, 10)
	case json.Number:
		s = t.String()
	case bool:
		s = strconv.FormatBool(t)
	default:
		s = fmt.Sprint(t)
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}
