package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/boundary-resolver/internal/domain"
	"github.com/boundary-resolver/internal/domain/repository"
)

type historyRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewHistoryRepository создает новый экземпляр HistoryRepository
func NewHistoryRepository(db *DB) repository.HistoryRepository {
	return &historyRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// Save сохраняет запись истории, id и created_at заполняет база
func (r *historyRepository) Save(ctx context.Context, log *domain.CheckLog) error {
	query := `
		INSERT INTO check_logs (
			request_id, address, normalized_address, lat, lon,
			municipality, province, nsc_region, mpr_region, custom_region,
			confidence, ok, reason
		) VALUES (
			:request_id, :address, :normalized_address, :lat, :lon,
			:municipality, :province, :nsc_region, :mpr_region, :custom_region,
			:confidence, :ok, :reason
		)
		RETURNING id, created_at
	`

	rows, err := r.db.NamedQueryContext(ctx, query, log)
	if err != nil {
		r.logger.Error("failed to insert check log", zap.Error(err))
		return fmt.Errorf("insert check log: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&log.ID, &log.CreatedAt); err != nil {
			return fmt.Errorf("scan check log id: %w", err)
		}
	}
	return rows.Err()
}

// List возвращает последние записи, новые первыми
func (r *historyRepository) List(ctx context.Context, limit int) ([]*domain.CheckLog, error) {
	query := `
		SELECT
			id, request_id, created_at, address, normalized_address, lat, lon,
			municipality, province, nsc_region, mpr_region, custom_region,
			confidence, ok, reason
		FROM check_logs
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`

	var logs []*domain.CheckLog
	if err := r.db.SelectContext(ctx, &logs, query, limit); err != nil {
		r.logger.Error("failed to list check logs", zap.Error(err))
		return nil, fmt.Errorf("list check logs: %w", err)
	}
	return logs, nil
}
