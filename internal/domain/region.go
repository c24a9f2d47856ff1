package domain

import (
	"strings"
	"time"
)

// Category - назначение слоя границ
type Category string

const (
	CategoryMunicipality Category = "municipality"
	CategoryNSCRegion    Category = "nsc_region"
	CategoryMPRRegion    Category = "mpr_region"
	CategoryCustomRegion Category = "custom_region"
)

// AllCategories возвращает категории в порядке по умолчанию
func AllCategories() []Category {
	return []Category{CategoryMunicipality, CategoryNSCRegion, CategoryMPRRegion, CategoryCustomRegion}
}

// LayerDefinition описывает один слой: где лежат файлы и как читать атрибуты
type LayerDefinition struct {
	Category     Category `yaml:"category" json:"category"`
	Label        string   `yaml:"label" json:"label"`
	Dir          string   `yaml:"dir" json:"dir"`
	NameKeys     []string `yaml:"name_keys" json:"name_keys"`
	ExtrasKeys   []string `yaml:"extras_keys" json:"extras_keys,omitempty"`
	ProvinceKeys []string `yaml:"province_keys" json:"province_keys,omitempty"`
	Primary      bool     `yaml:"primary" json:"primary"`
	SourceURL    string   `yaml:"source_url" json:"source_url,omitempty"`
}

// DisplayLabel - короткое имя слоя для сообщений о промахах
func (d LayerDefinition) DisplayLabel() string {
	if d.Label != "" {
		return d.Label
	}
	return string(d.Category)
}

// MissReason - почему слой не дал совпадения
type MissReason string

const (
	MissEmptyLayer MissReason = "empty_layer"
	MissNoMatch    MissReason = "no_match"
)

// Description возвращает человекочитаемое описание причины
func (r MissReason) Description() string {
	switch r {
	case MissEmptyLayer:
		return "layer has no features loaded"
	case MissNoMatch:
		return "no polygon contains the point"
	}
	return ""
}

// LayerMatch - результат одного слоя для точки
type LayerMatch struct {
	Category   Category       `json:"category"`
	Matched    bool           `json:"matched"`
	Name       *string        `json:"name"`
	Attributes map[string]any `json:"attributes,omitempty"`
	Reason     MissReason     `json:"reason,omitempty"`
	Detail     string         `json:"detail,omitempty"`
}

// Resolution - результат разрешения точки по всем слоям
type Resolution struct {
	Lat          float64      `json:"lat"`
	Lon          float64      `json:"lon"`
	OK           bool         `json:"ok"`
	Municipality *string      `json:"municipality"`
	Province     *string      `json:"province"`
	NSCRegion    *string      `json:"nsc_region"`
	MPRRegion    *string      `json:"mpr_region"`
	CustomRegion *string      `json:"custom_region"`
	Layers       []LayerMatch `json:"layers"`
	Missing      []string     `json:"missing,omitempty"`
	Reason       *string      `json:"reason"`
	Generation   uint64       `json:"generation"`
}

// Match возвращает результат слоя по категории
func (r *Resolution) Match(c Category) *LayerMatch {
	for i := range r.Layers {
		if r.Layers[i].Category == c {
			return &r.Layers[i]
		}
	}
	return nil
}

// MissingReason формирует текст причины по списку слоёв без совпадения
func MissingReason(labels []string) string {
	if len(labels) == 0 {
		return ""
	}
	return "No match for: " + strings.Join(labels, ", ") + ". If this is unexpected, refresh/download datasets."
}

// SkipKind - причина пропуска файла при загрузке слоя
type SkipKind string

const (
	SkipUnsupported SkipKind = "unsupported"
	SkipUnreadable  SkipKind = "unreadable"
	SkipMalformed   SkipKind = "malformed"
)

// FileSkip - пропущенный файл
type FileSkip struct {
	File  string   `json:"file"`
	Kind  SkipKind `json:"kind"`
	Error string   `json:"error,omitempty"`
}

// LayerStats - диагностические счётчики загрузки слоя
type LayerStats struct {
	Category         Category     `json:"category"`
	Dir              string       `json:"dir"`
	FilesSeen        int          `json:"files_seen"`
	FilesLoaded      int          `json:"files_loaded"`
	FilesSkipped     []FileSkip   `json:"files_skipped,omitempty"`
	FeaturesLoaded   int          `json:"features_loaded"`
	FeaturesDropped  int          `json:"features_dropped"`
	FeaturesRepaired int          `json:"features_repaired"`
	Extent           *BoundingBox `json:"extent,omitempty"`
	LoadedAt         time.Time    `json:"loaded_at"`
	DurationMs       int64        `json:"duration_ms"`
	Generation       uint64       `json:"generation"`
}
