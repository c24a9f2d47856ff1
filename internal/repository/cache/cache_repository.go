package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/boundary-resolver/internal/domain"
	"github.com/boundary-resolver/internal/domain/repository"
)

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	r.logger.Debug("Cache deleted", zap.String("key", key))
	return nil
}

func (r *cacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	val, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		r.logger.Error("Failed to check cache existence", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("cache exists error: %w", err)
	}

	return val > 0, nil
}

// ResolutionKey - ключ результата разрешения. Поколение слоёв в ключе
// делает старые записи недостижимыми после перезагрузки. Координаты
// записываются точно: точки у самой границы не делят запись с соседом.
func ResolutionKey(generation uint64, lat, lon float64) string {
	return "resolve:" + strconv.FormatUint(generation, 10) + ":" +
		strconv.FormatFloat(lat, 'g', -1, 64) + ":" +
		strconv.FormatFloat(lon, 'g', -1, 64)
}

// GetResolution получает результат разрешения точки из кеша
func (r *cacheRepository) GetResolution(ctx context.Context, generation uint64, lat, lon float64) (*domain.Resolution, error) {
	data, err := r.Get(ctx, ResolutionKey(generation, lat, lon))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil // Cache miss
	}

	var res domain.Resolution
	if err := json.Unmarshal(data, &res); err != nil {
		r.logger.Error("Failed to unmarshal resolution from cache", zap.Error(err))
		return nil, fmt.Errorf("unmarshal resolution: %w", err)
	}

	return &res, nil
}

// SetResolution сохраняет результат разрешения точки
func (r *cacheRepository) SetResolution(ctx context.Context, res *domain.Resolution, ttl time.Duration) error {
	data, err := json.Marshal(res)
	if err != nil {
		r.logger.Error("Failed to marshal resolution", zap.Error(err))
		return fmt.Errorf("marshal resolution: %w", err)
	}

	return r.Set(ctx, ResolutionKey(res.Generation, res.Lat, res.Lon), data, ttl)
}
