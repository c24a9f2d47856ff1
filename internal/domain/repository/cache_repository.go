package repository

import (
	"context"
	"time"

	"github.com/boundary-resolver/internal/domain"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет значение из кеша
	Delete(ctx context.Context, key string) error

	// Exists проверяет существование ключа
	Exists(ctx context.Context, key string) (bool, error)

	// GetResolution получает результат разрешения точки для поколения слоёв
	GetResolution(ctx context.Context, generation uint64, lat, lon float64) (*domain.Resolution, error)

	// SetResolution сохраняет результат разрешения точки
	SetResolution(ctx context.Context, res *domain.Resolution, ttl time.Duration) error
}
