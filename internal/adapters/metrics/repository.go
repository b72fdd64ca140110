// Package metrics stores scheduler run metrics in PostgreSQL or ClickHouse.
package metrics

import (
	"context"
	"fmt"

	"github.com/selivandex/pulsebrief/pkg/metrics"
)

// Repository inserts rows into a metrics table
type Repository interface {
	InsertBatch(ctx context.Context, tableName string, values [][]interface{}) error
	Close() error
}

// Writer adapts a Repository to the metrics buffer
type Writer struct {
	repo Repository
}

var _ metrics.Writer = (*Writer)(nil)

func NewWriter(repo Repository) *Writer {
	return &Writer{repo: repo}
}

// Write rejects rows that belong to another table and inserts the rest in one batch
func (w *Writer) Write(ctx context.Context, tableName string, rows []metrics.Metric) error {
	if len(rows) == 0 {
		return nil
	}

	values := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		if row.TableName() != tableName {
			return fmt.Errorf("row for %s in %s batch", row.TableName(), tableName)
		}
		values = append(values, row.Values())
	}

	if err := w.repo.InsertBatch(ctx, tableName, values); err != nil {
		return fmt.Errorf("failed to insert %d rows into %s: %w", len(values), tableName, err)
	}
	return nil
}

func (w *Writer) Close() error {
	if w.repo == nil {
		return nil
	}
	return w.repo.Close()
}
