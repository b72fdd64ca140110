package metrics

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/selivandex/pulsebrief/pkg/logger"
)

// PostgresRepository implements Repository for PostgreSQL. Tables come from
// the regular migrations.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates new PostgreSQL metrics repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// InsertBatch inserts batch of metrics into PostgreSQL table
func (r *PostgresRepository) InsertBatch(ctx context.Context, tableName string, values [][]interface{}) error {
	query, args, err := buildInsert(tableName, values, func(n int) string { return "$" + strconv.Itoa(n) })
	if err != nil || query == "" {
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("postgres metrics insert failed: %w", err)
	}

	logger.Debug("postgres metrics batch insert successful",
		zap.String("table", tableName),
		zap.Int("rows", len(values)),
	)

	return nil
}

// Close closes repository; the pool is owned by the database adapter
func (r *PostgresRepository) Close() error {
	return nil
}
