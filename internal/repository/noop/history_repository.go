package noop

import (
	"context"
	"time"

	"github.com/boundary-resolver/internal/domain"
	"github.com/boundary-resolver/internal/domain/repository"
)

type historyRepository struct{}

// NewHistoryRepository - история выключена (HISTORY_DRIVER=none)
func NewHistoryRepository() repository.HistoryRepository {
	return historyRepository{}
}

func (historyRepository) Save(_ context.Context, log *domain.CheckLog) error {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	return nil
}

func (historyRepository) List(context.Context, int) ([]*domain.CheckLog, error) {
	return []*domain.CheckLog{}, nil
}
