package usecase

import (
	"context"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/boundary-resolver/internal/domain"
	"github.com/boundary-resolver/internal/domain/repository"
	"github.com/boundary-resolver/internal/pkg/errors"
	"github.com/boundary-resolver/internal/pkg/utils"
	"github.com/boundary-resolver/internal/usecase/dto"
)

const (
	geocodeMissReason = "Could not geocode address. Provide lat/lon or enable geocoder."

	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// CheckUseCase - проверка адреса: геокодирование, разрешение, история
type CheckUseCase struct {
	resolver    *ResolveUseCase
	geocoder    repository.GeocoderRepository
	historyRepo repository.HistoryRepository
	logger      *zap.Logger
}

// NewCheckUseCase - создание нового CheckUseCase. geocoder может быть nil
// (геокодер выключен).
func NewCheckUseCase(
	resolver *ResolveUseCase,
	geocoder repository.GeocoderRepository,
	historyRepo repository.HistoryRepository,
	logger *zap.Logger,
) *CheckUseCase {
	return &CheckUseCase{
		resolver:    resolver,
		geocoder:    geocoder,
		historyRepo: historyRepo,
		logger:      logger,
	}
}

// Check проверяет адрес. Координаты из запроса используются как есть, иначе
// адрес геокодируется. Каждая проверка сохраняется в историю.
func (uc *CheckUseCase) Check(ctx context.Context, req dto.CheckRequest) (*dto.CheckResponse, error) {
	addr := utils.NormalizeAddress(req.Address)
	if addr == "" {
		return nil, errors.ErrInvalidRequest.WithMessage("Address is required")
	}

	resp := &dto.CheckResponse{InputAddress: addr}
	lat, lon := req.Lat, req.Lon
	confidence := 1.0

	// 1. Геокодирование, если координаты не переданы
	if lat == nil || lon == nil {
		hit, err := uc.geocode(ctx, addr, req.Country)
		if err != nil {
			return nil, err
		}
		if hit == nil {
			reason := geocodeMissReason
			resp.Reason = &reason
			uc.save(ctx, resp)
			return resp, nil
		}
		if hit.DisplayName != "" {
			resp.NormalizedAddress = &hit.DisplayName
		}
		lat, lon = &hit.Lat, &hit.Lon
		confidence = math.Max(0.35, math.Min(0.95, hit.Importance))
	}

	// 2. Разрешение точки
	res, err := uc.resolver.Resolve(ctx, *lat, *lon)
	if err != nil {
		return nil, err
	}

	resp.Lat, resp.Lon = lat, lon
	resp.OK = res.OK
	resp.Municipality = res.Municipality
	resp.Province = res.Province
	resp.NSCRegion = res.NSCRegion
	resp.MPRRegion = res.MPRRegion
	resp.CustomRegion = res.CustomRegion
	resp.Reason = res.Reason
	resp.Layers = res.Layers
	resp.Confidence = confidence
	if !res.OK {
		resp.Confidence = math.Max(0.1, confidence)
	}

	// 3. История
	uc.save(ctx, resp)
	return resp, nil
}

func (uc *CheckUseCase) geocode(ctx context.Context, addr, country string) (*domain.GeocodeHit, error) {
	if uc.geocoder == nil {
		return nil, nil
	}
	hit, err := uc.geocoder.Geocode(ctx, addr, country)
	if err != nil {
		uc.logger.Error("Failed to geocode address", zap.String("address", addr), zap.Error(err))
		return nil, errors.ErrGeocodeFailed
	}
	return hit, nil
}

// save пишет историю; ошибка хранилища не ломает ответ
func (uc *CheckUseCase) save(ctx context.Context, resp *dto.CheckResponse) {
	log := &domain.CheckLog{
		RequestID:    uuid.New(),
		Address:      resp.InputAddress,
		Lat:          resp.Lat,
		Lon:          resp.Lon,
		Municipality: resp.Municipality,
		Province:     resp.Province,
		NSCRegion:    resp.NSCRegion,
		MPRRegion:    resp.MPRRegion,
		CustomRegion: resp.CustomRegion,
		Confidence:   resp.Confidence,
		OK:           resp.OK,
		Reason:       resp.Reason,
	}
	if resp.NormalizedAddress != nil {
		log.NormalizedAddress = *resp.NormalizedAddress
	}
	if err := uc.historyRepo.Save(ctx, log); err != nil {
		uc.logger.Error("Failed to save check log", zap.Error(err))
	}
}

// History возвращает последние проверки; limit ограничивается 1..500
func (uc *CheckUseCase) History(ctx context.Context, limit int) (*dto.HistoryResponse, error) {
	if limit == 0 {
		limit = defaultHistoryLimit
	}
	limit = max(1, min(maxHistoryLimit, limit))

	items, err := uc.historyRepo.List(ctx, limit)
	if err != nil {
		uc.logger.Error("Failed to list check logs", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	if items == nil {
		items = []*domain.CheckLog{}
	}
	return &dto.HistoryResponse{Items: items, Total: len(items)}, nil
}
