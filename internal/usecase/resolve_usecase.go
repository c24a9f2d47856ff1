package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/boundary-resolver/internal/boundary"
	"github.com/boundary-resolver/internal/domain"
	"github.com/boundary-resolver/internal/domain/repository"
	"github.com/boundary-resolver/internal/pkg/errors"
	"github.com/boundary-resolver/internal/pkg/utils"
)

// BoundaryIndex - индекс слоёв границ (реализуется boundary.Registry)
type BoundaryIndex interface {
	QueryAll(ctx context.Context, lon, lat float64) ([]boundary.Hit, error)
	Reload(ctx context.Context, categories ...domain.Category) ([]domain.LayerStats, error)
	Definitions() []domain.LayerDefinition
	Generation() uint64
	Stats() domain.RegistryStats
}

// ResolveUseCase - разрешение точки в регионы всех слоёв
type ResolveUseCase struct {
	index     BoundaryIndex
	cacheRepo repository.CacheRepository
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewResolveUseCase - создание нового ResolveUseCase. cacheRepo может быть nil.
func NewResolveUseCase(
	index BoundaryIndex,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
	cacheTTL time.Duration,
) *ResolveUseCase {
	return &ResolveUseCase{
		index:     index,
		cacheRepo: cacheRepo,
		logger:    logger,
		cacheTTL:  cacheTTL,
	}
}

// Resolve опрашивает все слои. Для корректной точки всегда возвращает
// результат по каждому слою; промахи описываются причинами, а не ошибками.
func (uc *ResolveUseCase) Resolve(ctx context.Context, lat, lon float64) (*domain.Resolution, error) {
	if !utils.ValidateCoordinates(lat, lon) {
		return nil, errors.ErrInvalidCoordinates
	}

	generation := uc.index.Generation()

	// 1. Кеш, ключ привязан к поколению слоёв
	if uc.cacheRepo != nil && generation > 0 {
		cached, err := uc.cacheRepo.GetResolution(ctx, generation, lat, lon)
		if err != nil {
			uc.logger.Warn("Failed to get resolution from cache", zap.Error(err))
		} else if cached != nil {
			cached.Lat, cached.Lon = lat, lon
			return cached, nil
		}
	}

	// 2. Опрос слоёв
	hits, err := uc.index.QueryAll(ctx, lon, lat)
	if err != nil {
		return nil, fmt.Errorf("query layers: %w", err)
	}

	res := buildResolution(lat, lon, hits)
	res.Generation = uc.index.Generation()

	// 3. Кешируем только если поколение не поменялось во время запроса
	if uc.cacheRepo != nil && res.Generation == generation && generation > 0 {
		if err := uc.cacheRepo.SetResolution(ctx, res, uc.cacheTTL); err != nil {
			uc.logger.Warn("Failed to cache resolution", zap.Error(err))
		}
	}

	return res, nil
}

func buildResolution(lat, lon float64, hits []boundary.Hit) *domain.Resolution {
	res := &domain.Resolution{
		Lat:    lat,
		Lon:    lon,
		Layers: make([]domain.LayerMatch, 0, len(hits)),
	}

	primary := primaryIndex(hits)
	var missing []string

	for i, h := range hits {
		m := domain.LayerMatch{Category: h.Definition.Category}

		if h.Feature == nil {
			m.Reason = domain.MissNoMatch
			if h.Empty {
				m.Reason = domain.MissEmptyLayer
			}
			m.Detail = m.Reason.Description()
			missing = append(missing, h.Definition.DisplayLabel())
			res.Layers = append(res.Layers, m)
			continue
		}

		name := h.Feature.Name
		m.Matched = true
		m.Name = &name
		m.Attributes = h.Feature.Attributes
		res.Layers = append(res.Layers, m)

		if i == primary {
			res.OK = true
			if v, ok := h.Feature.Attribute(h.Definition.ProvinceKeys...); ok {
				res.Province = &v
			}
		}

		switch h.Definition.Category {
		case domain.CategoryMunicipality:
			res.Municipality = &name
		case domain.CategoryNSCRegion:
			res.NSCRegion = &name
		case domain.CategoryMPRRegion:
			res.MPRRegion = &name
		case domain.CategoryCustomRegion:
			res.CustomRegion = &name
		}
	}

	res.Missing = missing
	if len(missing) > 0 {
		reason := domain.MissingReason(missing)
		res.Reason = &reason
	}
	return res
}

// primaryIndex - слой с флагом primary, иначе municipality, иначе первый
func primaryIndex(hits []boundary.Hit) int {
	for i, h := range hits {
		if h.Definition.Primary {
			return i
		}
	}
	for i, h := range hits {
		if h.Definition.Category == domain.CategoryMunicipality {
			return i
		}
	}
	return 0
}
