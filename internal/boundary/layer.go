package boundary

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"github.com/boundary-resolver/internal/domain"
	"github.com/boundary-resolver/internal/geometry"
)

// Layer - неизменяемый индекс одного слоя. Объекты хранятся в порядке файлов
// (по имени) и порядке внутри файла; при перекрытии выигрывает первый.
//
// Query - линейный проход с отсечением по bbox, O(число объектов). Для
// сотен объектов на слой этого достаточно.
type Layer struct {
	def      domain.LayerDefinition
	features []Feature
	stats    domain.LayerStats
}

// EmptyLayer возвращает слой без объектов
func EmptyLayer(def domain.LayerDefinition) *Layer {
	return &Layer{
		def:   def,
		stats: domain.LayerStats{Category: def.Category, Dir: def.Dir, LoadedAt: time.Now()},
	}
}

// LoadLayer читает каталог слоя (без рекурсии) и строит индекс. Каждый файл
// загружается целиком или пропускается целиком; ошибки файлов не прерывают
// загрузку. Отсутствующий каталог даёт пустой слой. Ошибка возвращается
// только при отмене контекста.
func LoadLayer(ctx context.Context, def domain.LayerDefinition, logger *zap.Logger) (*Layer, error) {
	started := time.Now()
	layer := EmptyLayer(def)
	log := logger.With(zap.String("layer", string(def.Category)), zap.String("dir", def.Dir))

	entries, err := os.ReadDir(def.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn("Layer directory does not exist, layer is empty")
		} else {
			log.Error("Failed to read layer directory, layer is empty", zap.Error(err))
		}
		layer.stats.DurationMs = time.Since(started).Milliseconds()
		return layer, nil
	}

	for _, e := range entries {
		if e.IsDir() || !isSupportedFile(e.Name()) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		layer.loadFile(filepath.Join(def.Dir, e.Name()), log)
	}

	layer.stats.FeaturesLoaded = len(layer.features)
	layer.stats.Extent = extentOf(layer.features)
	layer.stats.DurationMs = time.Since(started).Milliseconds()

	log.Info("Layer loaded",
		zap.Int("files_seen", layer.stats.FilesSeen),
		zap.Int("files_skipped", len(layer.stats.FilesSkipped)),
		zap.Int("features", layer.stats.FeaturesLoaded),
		zap.Int("features_dropped", layer.stats.FeaturesDropped),
		zap.Int("features_repaired", layer.stats.FeaturesRepaired),
		zap.Duration("duration", time.Since(started)),
	)
	return layer, nil
}

func (l *Layer) loadFile(path string, log *zap.Logger) {
	name := filepath.Base(path)
	l.stats.FilesSeen++

	skip := func(kind domain.SkipKind, err error) {
		s := domain.FileSkip{File: name, Kind: kind}
		if err != nil {
			s.Error = err.Error()
		}
		l.stats.FilesSkipped = append(l.stats.FilesSkipped, s)
		log.Warn("Skipping boundary file", zap.String("file", name), zap.String("kind", string(kind)), zap.Error(err))
	}

	doc, err := OpenDocument(path)
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			skip(domain.SkipUnreadable, err)
		} else {
			skip(domain.SkipMalformed, err)
		}
		return
	}
	if doc.Kind == SourceUnrecognized {
		skip(domain.SkipUnsupported, ErrUnsupportedFormat)
		return
	}
	if doc.Kind == SourceShapefile && !hasAttributeTable(path) {
		log.Warn("Shapefile has no attribute table, features are named after the file",
			zap.String("file", name), zap.String("dbf", filepath.Base(dbfPath(path))))
	}

	raws, err := doc.rawFeatures()
	if err != nil {
		skip(domain.SkipMalformed, err)
		return
	}

	// объекты файла добавляются только после успешного разбора всего файла
	features := make([]Feature, 0, len(raws))
	dropped, repaired := 0, 0
	for _, raw := range raws {
		f, fixed, ok := buildFeature(raw, l.def, name)
		if !ok {
			dropped++
			continue
		}
		if fixed {
			repaired++
		}
		features = append(features, f)
	}

	l.features = append(l.features, features...)
	l.stats.FilesLoaded++
	l.stats.FeaturesDropped += dropped
	l.stats.FeaturesRepaired += repaired

	log.Debug("Boundary file loaded",
		zap.String("file", name),
		zap.String("format", doc.Kind.String()),
		zap.Int("features", len(features)),
		zap.Int("dropped", dropped),
	)
}

func buildFeature(raw rawFeature, def domain.LayerDefinition, source string) (Feature, bool, bool) {
	var mp orb.MultiPolygon
	repaired := false
	for _, rings := range raw.polygons {
		parts, fixed, err := geometry.Normalize(rings)
		if err != nil {
			continue
		}
		repaired = repaired || fixed
		mp = append(mp, parts...)
	}
	if len(mp) == 0 {
		return Feature{}, false, false
	}
	return Feature{
		Name:       ResolveName(raw.props, def.NameKeys, source),
		Attributes: ExtractExtras(raw.props, def.ExtrasKeys),
		Geometry:   mp,
		Bound:      mp.Bound(),
		Source:     source,
	}, repaired, true
}

func extentOf(features []Feature) *domain.BoundingBox {
	if len(features) == 0 {
		return nil
	}
	b := features[0].Bound
	for _, f := range features[1:] {
		b = b.Union(f.Bound)
	}
	return &domain.BoundingBox{MinLat: b.Min.Lat(), MinLon: b.Min.Lon(), MaxLat: b.Max.Lat(), MaxLon: b.Max.Lon()}
}

// Query возвращает первый объект, содержащий точку, или nil
func (l *Layer) Query(lon, lat float64) *Feature {
	for i := range l.features {
		if l.features[i].Contains(lon, lat) {
			return &l.features[i]
		}
	}
	return nil
}

// Features возвращает объекты слоя. Срез нельзя изменять.
func (l *Layer) Features() []Feature {
	return l.features
}

func (l *Layer) Len() int {
	return len(l.features)
}

func (l *Layer) Empty() bool {
	return len(l.features) == 0
}

func (l *Layer) Definition() domain.LayerDefinition {
	return l.def
}

// Stats возвращает копию счётчиков загрузки
func (l *Layer) Stats() domain.LayerStats {
	s := l.stats
	s.FilesSkipped = append([]domain.FileSkip(nil), l.stats.FilesSkipped...)
	return s
}
