package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/boundary-resolver/internal/domain"
	"github.com/boundary-resolver/internal/domain/repository"
	"github.com/boundary-resolver/internal/pkg/errors"
	"github.com/boundary-resolver/internal/usecase/dto"
)

// whichAliases - синонимы параметра which для админских операций
var whichAliases = map[string]domain.Category{
	"municipality":      domain.CategoryMunicipality,
	"municipalities":    domain.CategoryMunicipality,
	"mun":               domain.CategoryMunicipality,
	"muni":              domain.CategoryMunicipality,
	"nsc":               domain.CategoryNSCRegion,
	"nsc_region":        domain.CategoryNSCRegion,
	"northsouthcentral": domain.CategoryNSCRegion,
	"mpr":               domain.CategoryMPRRegion,
	"mpr_region":        domain.CategoryMPRRegion,
	"planning":          domain.CategoryMPRRegion,
	"planningregions":   domain.CategoryMPRRegion,
	"custom":            domain.CategoryCustomRegion,
	"custom_region":     domain.CategoryCustomRegion,
}

// ParseWhich переводит which в список категорий; all или пусто - nil (все слои)
func ParseWhich(which string) ([]domain.Category, error) {
	w := strings.ToLower(strings.TrimSpace(which))
	if w == "" || w == "all" {
		return nil, nil
	}
	var out []domain.Category
	seen := make(map[domain.Category]bool)
	for _, part := range strings.Split(w, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if part == "all" {
			return nil, nil
		}
		c, ok := whichAliases[part]
		if !ok {
			return nil, errors.ErrUnknownLayer.WithMessage(fmt.Sprintf("Unknown layer: %s", part))
		}
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out, nil
}

// DatasetUseCase - перезагрузка и скачивание наборов данных
type DatasetUseCase struct {
	index   BoundaryIndex
	fetcher repository.DatasetFetcher
	logger  *zap.Logger
}

// NewDatasetUseCase - создание нового DatasetUseCase. fetcher может быть nil.
func NewDatasetUseCase(index BoundaryIndex, fetcher repository.DatasetFetcher, logger *zap.Logger) *DatasetUseCase {
	return &DatasetUseCase{
		index:   index,
		fetcher: fetcher,
		logger:  logger,
	}
}

// Stats возвращает статистику загрузки слоёв
func (uc *DatasetUseCase) Stats() domain.RegistryStats {
	return uc.index.Stats()
}

// Reload перечитывает каталоги выбранных слоёв
func (uc *DatasetUseCase) Reload(ctx context.Context, which string) (*dto.ReloadResponse, error) {
	categories, err := uc.resolveWhich(which)
	if err != nil {
		return nil, err
	}

	stats, err := uc.index.Reload(ctx, categories...)
	if err != nil {
		uc.logger.Error("Failed to reload layers", zap.String("which", which), zap.Error(err))
		return nil, errors.ErrInternalServer
	}

	uc.logger.Info("Layers reloaded",
		zap.String("which", which),
		zap.Uint64("generation", uc.index.Generation()),
	)
	return &dto.ReloadResponse{Generation: uc.index.Generation(), Layers: stats}, nil
}

// Refresh скачивает слои из ArcGIS в их каталоги и перезагружает их.
// При which=all слои без URL пропускаются; явно выбранный слой без URL -
// ошибка.
func (uc *DatasetUseCase) Refresh(ctx context.Context, which string) (*dto.RefreshResponse, error) {
	categories, err := uc.resolveWhich(which)
	if err != nil {
		return nil, err
	}
	explicit := len(categories) > 0

	defs := uc.selectDefinitions(categories)
	targets := make([]domain.LayerDefinition, 0, len(defs))
	for _, d := range defs {
		if strings.TrimSpace(d.SourceURL) == "" {
			if explicit {
				return nil, errors.ErrDatasetSourceMissing.WithDetails(map[string]interface{}{"layer": d.Category})
			}
			continue
		}
		targets = append(targets, d)
	}
	if len(targets) == 0 {
		return nil, errors.ErrDatasetSourceMissing
	}
	if uc.fetcher == nil {
		return nil, errors.ErrInternalServer.WithMessage("Dataset fetcher is not configured")
	}

	resp := &dto.RefreshResponse{}
	reload := make([]domain.Category, 0, len(targets))
	for _, d := range targets {
		result := uc.fetch(ctx, d)
		resp.Fetched = append(resp.Fetched, result)
		if result.Error == "" {
			reload = append(reload, d.Category)
		}
	}

	if len(reload) > 0 {
		stats, err := uc.index.Reload(ctx, reload...)
		if err != nil {
			uc.logger.Error("Failed to reload layers after refresh", zap.Error(err))
			return nil, errors.ErrInternalServer
		}
		resp.Layers = stats
	}
	resp.Generation = uc.index.Generation()
	return resp, nil
}

func (uc *DatasetUseCase) fetch(ctx context.Context, d domain.LayerDefinition) domain.FetchResult {
	out := filepath.Join(d.Dir, "arcgis_"+string(d.Category)+".json")
	result := domain.FetchResult{Category: d.Category, URL: d.SourceURL, Path: out}

	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		result.Error = err.Error()
		return result
	}

	format, n, err := uc.fetcher.FetchLayer(ctx, d.SourceURL, out)
	if err != nil {
		uc.logger.Error("Failed to fetch dataset",
			zap.String("layer", string(d.Category)),
			zap.String("url", d.SourceURL),
			zap.Error(err),
		)
		result.Error = err.Error()
		return result
	}

	uc.logger.Info("Dataset fetched",
		zap.String("layer", string(d.Category)),
		zap.String("format", format),
		zap.Int("features", n),
		zap.String("path", out),
	)
	result.Format = format
	result.Features = n
	return result
}

func (uc *DatasetUseCase) resolveWhich(which string) ([]domain.Category, error) {
	categories, err := ParseWhich(which)
	if err != nil {
		return nil, err
	}
	configured := make(map[domain.Category]bool)
	for _, d := range uc.index.Definitions() {
		configured[d.Category] = true
	}
	for _, c := range categories {
		if !configured[c] {
			return nil, errors.ErrUnknownLayer.WithMessage(fmt.Sprintf("Layer is not configured: %s", c))
		}
	}
	return categories, nil
}

func (uc *DatasetUseCase) selectDefinitions(categories []domain.Category) []domain.LayerDefinition {
	defs := uc.index.Definitions()
	if len(categories) == 0 {
		return defs
	}
	want := make(map[domain.Category]bool, len(categories))
	for _, c := range categories {
		want[c] = true
	}
	out := make([]domain.LayerDefinition, 0, len(categories))
	for _, d := range defs {
		if want[d.Category] {
			out = append(out, d)
		}
	}
	return out
}
