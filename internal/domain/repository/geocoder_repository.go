package repository

import (
	"context"

	"github.com/boundary-resolver/internal/domain"
)

// GeocoderRepository определяет методы для геокодирования адресов
type GeocoderRepository interface {
	// Geocode возвращает координаты адреса или nil, если ничего не найдено
	Geocode(ctx context.Context, address, country string) (*domain.GeocodeHit, error)
}
