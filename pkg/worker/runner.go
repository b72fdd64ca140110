package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/pulsebrief/pkg/logger"
)

// Worker is one unit of background work executed by a PeriodicWorker
type Worker interface {
	Name() string
	// Run executes one iteration. Errors are logged and never stop the loop.
	Run(ctx context.Context) error
}

// PeriodicWorker runs a Worker on start, on every tick and on every Trigger
type PeriodicWorker struct {
	worker   Worker
	name     string
	interval time.Duration
	trigger  chan struct{}
	done     chan struct{}
	started  sync.Once
}

func NewPeriodicWorker(worker Worker, interval time.Duration) *PeriodicWorker {
	return &PeriodicWorker{
		worker:   worker,
		name:     worker.Name(),
		interval: interval,
		trigger:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

func (pw *PeriodicWorker) Name() string {
	return pw.name
}

// Start launches the loop once. The loop exits when ctx is cancelled.
func (pw *PeriodicWorker) Start(ctx context.Context) {
	pw.started.Do(func() {
		go pw.loop(ctx)
	})
}

// Trigger requests an extra run outside the ticker schedule.
// Requests made while one is already pending are coalesced.
func (pw *PeriodicWorker) Trigger() {
	select {
	case pw.trigger <- struct{}{}:
	default:
	}
}

// Done is closed once the loop has exited
func (pw *PeriodicWorker) Done() <-chan struct{} {
	return pw.done
}

// Stop waits up to timeout for the loop to exit and reports whether it did
func (pw *PeriodicWorker) Stop(timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	return pw.wait(timer.C)
}

func (pw *PeriodicWorker) wait(deadline <-chan time.Time) bool {
	select {
	case <-pw.done:
		logger.Info("✅ Worker stopped gracefully", zap.String("worker", pw.name))
		return true
	case <-deadline:
		logger.Warn("⚠️ Worker stop timeout", zap.String("worker", pw.name))
		return false
	}
}

func (pw *PeriodicWorker) loop(ctx context.Context) {
	defer close(pw.done)

	logger.Info("🚀 Worker started",
		zap.String("worker", pw.name),
		zap.Duration("interval", pw.interval),
	)

	pw.execute(ctx)

	ticker := time.NewTicker(pw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("🛑 Worker stopping", zap.String("worker", pw.name))
			return
		case <-ticker.C:
			pw.execute(ctx)
		case <-pw.trigger:
			pw.execute(ctx)
		}
	}
}

func (pw *PeriodicWorker) execute(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("worker panicked",
				zap.String("worker", pw.name),
				zap.Error(fmt.Errorf("%v", r)),
			)
		}
	}()

	if err := pw.worker.Run(ctx); err != nil {
		logger.Error("worker execution failed",
			zap.String("worker", pw.name),
			zap.Error(err),
		)
	}
}

// WorkerGroup starts and stops a set of periodic workers together
type WorkerGroup struct {
	workers []*PeriodicWorker
	ctx     context.Context
	cancel  context.CancelFunc
	mu      sync.Mutex
}

func NewWorkerGroup(ctx context.Context) *WorkerGroup {
	ctx, cancel := context.WithCancel(ctx)
	return &WorkerGroup{ctx: ctx, cancel: cancel}
}

// Add registers worker and returns its runner so callers can Trigger it
func (wg *WorkerGroup) Add(worker Worker, interval time.Duration) *PeriodicWorker {
	wg.mu.Lock()
	defer wg.mu.Unlock()

	pw := NewPeriodicWorker(worker, interval)
	wg.workers = append(wg.workers, pw)
	return pw
}

func (wg *WorkerGroup) Len() int {
	wg.mu.Lock()
	defer wg.mu.Unlock()
	return len(wg.workers)
}

func (wg *WorkerGroup) Start() {
	wg.mu.Lock()
	defer wg.mu.Unlock()

	for _, pw := range wg.workers {
		pw.Start(wg.ctx)
	}

	logger.Info("🚀 Worker group started", zap.Int("workers", len(wg.workers)))
}

// Stop cancels every worker and waits for all of them against one shared
// deadline. It returns the names of workers that did not exit in time.
func (wg *WorkerGroup) Stop(timeout time.Duration) []string {
	wg.mu.Lock()
	workers := append([]*PeriodicWorker(nil), wg.workers...)
	wg.mu.Unlock()

	logger.Info("🛑 Stopping worker group...", zap.Int("workers", len(workers)))
	wg.cancel()

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	var stuck []string
	for _, pw := range workers {
		if !pw.wait(deadline.C) {
			stuck = append(stuck, pw.name)
			// The shared timer has fired; report the rest without waiting.
			for _, rest := range workers {
				if rest == pw {
					continue
				}
				select {
				case <-rest.done:
				default:
					stuck = append(stuck, rest.name)
				}
			}
			break
		}
	}

	if len(stuck) > 0 {
		logger.Warn("⚠️ Worker group stopped with stuck workers", zap.Strings("workers", stuck))
		return stuck
	}
	logger.Info("✅ Worker group stopped")
	return nil
}
