package metrics

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/pulsebrief/pkg/logger"
)

// ErrBufferFull is returned by Add when MaxBufferSize rows are pending
var ErrBufferFull = errors.New("metrics buffer is full")

const flushTimeout = 5 * time.Second

// BufferConfig configures a BufferedMetrics
type BufferConfig struct {
	Writer        Writer
	BatchSize     int           // rows per table that request an early flush
	FlushInterval time.Duration // periodic flush
	MaxBufferSize int           // pending rows across tables, 0 means unbounded
}

// BufferedMetrics groups rows by table and writes them from a single
// background loop, either on the interval or when a table fills a batch.
type BufferedMetrics struct {
	writer    Writer
	batchSize int
	maxSize   int
	interval  time.Duration

	mu      sync.Mutex
	pending map[string][]Metric
	total   int

	flushNow  chan struct{}
	stop      chan struct{}
	loopDone  chan struct{}
	closeOnce sync.Once
}

func NewBufferedMetrics(cfg BufferConfig) *BufferedMetrics {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 10 * time.Second
	}

	bm := &BufferedMetrics{
		writer:    cfg.Writer,
		batchSize: cfg.BatchSize,
		maxSize:   cfg.MaxBufferSize,
		interval:  cfg.FlushInterval,
		pending:   make(map[string][]Metric),
		flushNow:  make(chan struct{}, 1),
		stop:      make(chan struct{}),
		loopDone:  make(chan struct{}),
	}
	go bm.loop()

	logger.Info("metrics buffer initialized",
		zap.Int("batch_size", cfg.BatchSize),
		zap.Duration("flush_interval", cfg.FlushInterval),
		zap.Int("max_buffer_size", cfg.MaxBufferSize),
	)
	return bm
}

// Add queues a row. It never blocks on the writer.
func (bm *BufferedMetrics) Add(metric Metric) error {
	if metric == nil {
		return errors.New("metric is nil")
	}
	table := metric.TableName()
	if table == "" {
		return errors.New("metric table name is empty")
	}

	bm.mu.Lock()
	if bm.maxSize > 0 && bm.total >= bm.maxSize {
		bm.mu.Unlock()
		return ErrBufferFull
	}
	bm.pending[table] = append(bm.pending[table], metric)
	bm.total++
	full := len(bm.pending[table]) >= bm.batchSize
	bm.mu.Unlock()

	if full {
		select {
		case bm.flushNow <- struct{}{}:
		default:
		}
	}
	return nil
}

// Flush writes every pending row. Rows of a table whose write fails are dropped.
func (bm *BufferedMetrics) Flush(ctx context.Context) error {
	bm.mu.Lock()
	batches := bm.pending
	bm.pending = make(map[string][]Metric, len(batches))
	bm.total = 0
	bm.mu.Unlock()

	var errs []error
	for table, rows := range batches {
		if len(rows) == 0 {
			continue
		}
		if err := bm.writer.Write(ctx, table, rows); err != nil {
			logger.Error("failed to flush metrics",
				zap.String("table", table),
				zap.Int("rows", len(rows)),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", table, err))
			continue
		}
		logger.Debug("metrics flushed", zap.String("table", table), zap.Int("rows", len(rows)))
	}
	return errors.Join(errs...)
}

// Size returns the number of pending rows across tables
func (bm *BufferedMetrics) Size() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	return bm.total
}

// Close stops the loop, writes what is left and closes the writer.
// Only the first call does any work.
func (bm *BufferedMetrics) Close(ctx context.Context) error {
	var err error
	bm.closeOnce.Do(func() {
		close(bm.stop)
		<-bm.loopDone

		if err = bm.Flush(ctx); err != nil {
			logger.Error("final metrics flush failed", zap.Error(err))
			return
		}
		if err = bm.writer.Close(); err != nil {
			logger.Error("failed to close metrics writer", zap.Error(err))
			return
		}
		logger.Info("✅ metrics buffer closed")
	})
	return err
}

func (bm *BufferedMetrics) loop() {
	defer close(bm.loopDone)

	ticker := time.NewTicker(bm.interval)
	defer ticker.Stop()

	for {
		select {
		case <-bm.stop:
			return
		case <-ticker.C:
		case <-bm.flushNow:
		}

		ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		if err := bm.Flush(ctx); err != nil {
			logger.Warn("background metrics flush failed", zap.Error(err))
		}
		cancel()
	}
}
