package repository

import (
	"context"

	"github.com/boundary-resolver/internal/domain"
)

// HistoryRepository определяет методы для работы с историей проверок
type HistoryRepository interface {
	// Save сохраняет запись и заполняет ID и CreatedAt
	Save(ctx context.Context, log *domain.CheckLog) error

	// List возвращает последние записи, новые первыми
	List(ctx context.Context, limit int) ([]*domain.CheckLog, error)
}
