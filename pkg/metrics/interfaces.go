package metrics

import "context"

// Metric is a single row bound for a metrics table
type Metric interface {
	TableName() string
	// Values returns the row in column order
	Values() []interface{}
}

// Writer persists batches of rows for one table at a time
type Writer interface {
	Write(ctx context.Context, tableName string, rows []Metric) error
	Close() error
}

var _ interface {
	Add(metric Metric) error
	Flush(ctx context.Context) error
	Size() int
	Close(ctx context.Context) error
} = (*BufferedMetrics)(nil)
