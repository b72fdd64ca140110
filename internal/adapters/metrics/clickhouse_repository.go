package metrics

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/selivandex/pulsebrief/pkg/logger"
	"github.com/selivandex/pulsebrief/pkg/metrics"
)

const clickHouseSchedulerRuns = `
	CREATE TABLE IF NOT EXISTS scheduler_runs (
		timestamp   DateTime64(3),
		worker      LowCardinality(String),
		outcome     LowCardinality(String),
		duration_ms Int64,
		error       String
	) ENGINE = MergeTree
	ORDER BY (worker, timestamp)
	TTL toDateTime(timestamp) + INTERVAL 90 DAY`

// ClickHouseRepository implements Repository for ClickHouse
type ClickHouseRepository struct {
	db *sqlx.DB
}

// NewClickHouseRepository creates new ClickHouse repository
func NewClickHouseRepository(db *sqlx.DB) *ClickHouseRepository {
	return &ClickHouseRepository{db: db}
}

// EnsureSchema creates the metric tables when missing
func (r *ClickHouseRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, clickHouseSchedulerRuns); err != nil {
		return fmt.Errorf("failed to create %s table: %w", metrics.SchedulerRunsTable, err)
	}
	return nil
}

// InsertBatch inserts batch of metrics into ClickHouse table
func (r *ClickHouseRepository) InsertBatch(ctx context.Context, tableName string, values [][]interface{}) error {
	query, args, err := buildInsert(tableName, values, func(int) string { return "?" })
	if err != nil || query == "" {
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("ClickHouse insert failed: %w", err)
	}

	logger.Debug("ClickHouse batch insert successful",
		zap.String("table", tableName),
		zap.Int("rows", len(values)),
	)

	return nil
}

// Close closes ClickHouse repository
func (r *ClickHouseRepository) Close() error {
	// DB is managed externally, don't close it
	return nil
}

// buildInsert renders a multi-row INSERT. placeholder maps the 1-based
// argument position to its bind marker.
func buildInsert(tableName string, values [][]interface{}, placeholder func(int) string) (string, []interface{}, error) {
	if len(values) == 0 {
		return "", nil, nil
	}

	columnCount := len(values[0])
	if columnCount == 0 {
		return "", nil, fmt.Errorf("values have no columns")
	}

	rows := make([]string, len(values))
	args := make([]interface{}, 0, len(values)*columnCount)

	for i, row := range values {
		if len(row) != columnCount {
			return "", nil, fmt.Errorf("row %d has wrong column count: expected %d, got %d", i, columnCount, len(row))
		}

		marks := make([]string, columnCount)
		for j := range row {
			marks[j] = placeholder(len(args) + j + 1)
		}
		rows[i] = "(" + strings.Join(marks, ", ") + ")"

		args = append(args, row...)
	}

	query := fmt.Sprintf("INSERT INTO %s VALUES %s", tableName, strings.Join(rows, ", "))
	return query, args, nil
}
