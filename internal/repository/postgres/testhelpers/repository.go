package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/boundary-resolver/internal/domain/repository"
	"github.com/boundary-resolver/internal/repository/postgres"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewHistoryRepositoryForTest creates a history repository with test database and logger
func NewHistoryRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.HistoryRepository {
	return postgres.NewHistoryRepository(NewDBForTest(db, logger))
}
