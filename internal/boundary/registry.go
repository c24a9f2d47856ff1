package boundary

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/boundary-resolver/internal/domain"
)

// ErrUnknownLayer - категория не настроена в реестре
var ErrUnknownLayer = errors.New("unknown layer")

type slot struct {
	def   domain.LayerDefinition
	layer atomic.Pointer[Layer]
	// mu сериализует загрузку слота; запросы читают layer без блокировки
	mu sync.Mutex
}

// Hit - результат запроса к одному слою
type Hit struct {
	Definition domain.LayerDefinition
	Feature    *Feature
	Empty      bool
}

// Registry хранит по одному слою на категорию. Набор категорий фиксирован
// при создании; перезагрузка атомарно подменяет значение слоя.
type Registry struct {
	slots      []*slot
	byCategory map[domain.Category]*slot
	generation atomic.Uint64
	logger     *zap.Logger
}

// NewRegistry создает реестр по списку определений слоёв
func NewRegistry(defs []domain.LayerDefinition, logger *zap.Logger) (*Registry, error) {
	if len(defs) == 0 {
		return nil, errors.New("no layers configured")
	}
	r := &Registry{
		slots:      make([]*slot, 0, len(defs)),
		byCategory: make(map[domain.Category]*slot, len(defs)),
		logger:     logger,
	}
	for _, def := range defs {
		if def.Category == "" {
			return nil, errors.New("layer definition without category")
		}
		if _, dup := r.byCategory[def.Category]; dup {
			return nil, fmt.Errorf("duplicate layer category %q", def.Category)
		}
		s := &slot{def: def}
		r.slots = append(r.slots, s)
		r.byCategory[def.Category] = s
	}
	return r, nil
}

// LoadAll загружает все слои параллельно. Вызывается при старте до приёма
// запросов.
func (r *Registry) LoadAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, s := range r.slots {
		s := s
		g.Go(func() error {
			_, err := r.load(ctx, s)
			return err
		})
	}
	return g.Wait()
}

// Reload перечитывает каталоги указанных слоёв (всех, если не указаны) и
// подменяет их. Изменения файлов на диске без Reload не видны.
func (r *Registry) Reload(ctx context.Context, categories ...domain.Category) ([]domain.LayerStats, error) {
	targets := r.slots
	if len(categories) > 0 {
		targets = make([]*slot, 0, len(categories))
		for _, c := range categories {
			s, ok := r.byCategory[c]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownLayer, c)
			}
			targets = append(targets, s)
		}
	}

	stats := make([]domain.LayerStats, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	for i, s := range targets {
		i, s := i, s
		g.Go(func() error {
			l, err := r.load(gctx, s)
			if err != nil {
				return err
			}
			stats[i] = l.Stats()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *Registry) load(ctx context.Context, s *slot) (*Layer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return r.loadLocked(ctx, s)
}

func (r *Registry) loadLocked(ctx context.Context, s *slot) (*Layer, error) {
	l, err := LoadLayer(ctx, s.def, r.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load layer %s: %w", s.def.Category, err)
	}
	l.stats.Generation = r.generation.Add(1)
	s.layer.Store(l)
	return l, nil
}

// ensure отдаёт загруженный слой; слот, который ещё не загружался,
// загружается один раз под мьютексом слота
func (r *Registry) ensure(ctx context.Context, s *slot) (*Layer, error) {
	if l := s.layer.Load(); l != nil {
		return l, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if l := s.layer.Load(); l != nil {
		return l, nil
	}
	return r.loadLocked(ctx, s)
}

// Layer возвращает слой категории
func (r *Registry) Layer(ctx context.Context, c domain.Category) (*Layer, error) {
	s, ok := r.byCategory[c]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLayer, c)
	}
	return r.ensure(ctx, s)
}

// QueryAll опрашивает все слои в порядке конфигурации
func (r *Registry) QueryAll(ctx context.Context, lon, lat float64) ([]Hit, error) {
	hits := make([]Hit, 0, len(r.slots))
	for _, s := range r.slots {
		l, err := r.ensure(ctx, s)
		if err != nil {
			return nil, err
		}
		hits = append(hits, Hit{
			Definition: s.def,
			Feature:    l.Query(lon, lat),
			Empty:      l.Empty(),
		})
	}
	return hits, nil
}

// Definitions возвращает определения слоёв в порядке конфигурации
func (r *Registry) Definitions() []domain.LayerDefinition {
	defs := make([]domain.LayerDefinition, len(r.slots))
	for i, s := range r.slots {
		defs[i] = s.def
	}
	return defs
}

func (r *Registry) Categories() []domain.Category {
	out := make([]domain.Category, len(r.slots))
	for i, s := range r.slots {
		out[i] = s.def.Category
	}
	return out
}

// Generation растёт при каждой загрузке слоя; используется в ключах кеша
func (r *Registry) Generation() uint64 {
	return r.generation.Load()
}

// Stats возвращает статистику загруженных слоёв; незагруженные слоты
// отдаются с нулевыми счётчиками
func (r *Registry) Stats() domain.RegistryStats {
	out := domain.RegistryStats{Generation: r.Generation(), Layers: make([]domain.LayerStats, 0, len(r.slots))}
	for _, s := range r.slots {
		l := s.layer.Load()
		if l == nil {
			out.Layers = append(out.Layers, domain.LayerStats{Category: s.def.Category, Dir: s.def.Dir})
			continue
		}
		st := l.Stats()
		out.TotalFeatures += st.FeaturesLoaded
		out.Layers = append(out.Layers, st)
	}
	return out
}
