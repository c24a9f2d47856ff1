package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/boundary-resolver/internal/domain"
	"github.com/boundary-resolver/internal/domain/repository"
)

type historyRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewHistoryRepository создает HistoryRepository поверх SQLite
func NewHistoryRepository(db *DB) repository.HistoryRepository {
	return &historyRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *historyRepository) Save(ctx context.Context, log *domain.CheckLog) error {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO check_logs (
			request_id, created_at, address, normalized_address, lat, lon,
			municipality, province, nsc_region, mpr_region, custom_region,
			confidence, ok, reason
		) VALUES (
			:request_id, :created_at, :address, :normalized_address, :lat, :lon,
			:municipality, :province, :nsc_region, :mpr_region, :custom_region,
			:confidence, :ok, :reason
		)
	`

	res, err := r.db.NamedExecContext(ctx, query, log)
	if err != nil {
		r.logger.Error("failed to insert check log", zap.Error(err))
		return fmt.Errorf("insert check log: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("check log id: %w", err)
	}
	log.ID = id
	return nil
}

func (r *historyRepository) List(ctx context.Context, limit int) ([]*domain.CheckLog, error) {
	query := `
		SELECT
			id, request_id, created_at, address, normalized_address, lat, lon,
			municipality, province, nsc_region, mpr_region, custom_region,
			confidence, ok, reason
		FROM check_logs
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	var logs []*domain.CheckLog
	if err := r.db.SelectContext(ctx, &logs, query, limit); err != nil {
		r.logger.Error("failed to list check logs", zap.Error(err))
		return nil, fmt.Errorf("list check logs: %w", err)
	}
	return logs, nil
}
