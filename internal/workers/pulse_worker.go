package workers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/pulsebrief/internal/pulse"
	"github.com/selivandex/pulsebrief/pkg/logger"
)

const pulseLockName = "pulsebrief:lock:pulse"

// PulseConfig holds pulse scheduler thresholds
type PulseConfig struct {
	Cooldown       time.Duration // minimum time between checks
	UpdateInterval time.Duration // age of the latest update before a new one is due
	MinSpacing     time.Duration // hard floor between stored updates
	StoreTimeout   time.Duration
}

// DefaultPulseConfig returns the production thresholds
func DefaultPulseConfig() PulseConfig {
	return PulseConfig{
		Cooldown:       time.Minute,
		UpdateInterval: 4 * time.Hour,
		MinSpacing:     2 * time.Hour,
		StoreTimeout:   10 * time.Second,
	}
}

// dueAfter is the age at which the latest update gets replaced
func (c PulseConfig) dueAfter() time.Duration {
	return max(c.UpdateInterval, c.MinSpacing)
}

// PulseWorker stores a new market pulse update whenever the latest one
// grows old enough
type PulseWorker struct {
	repo       pulse.Repository
	session    Session
	locker     Locker
	publishers []PulsePublisher
	cfg        PulseConfig
	metrics    MetricsRecorder
	now        func() time.Time
	generate   func(time.Time, *pulse.Content) pulse.Content

	inFlight atomic.Bool

	mu        sync.Mutex
	lastCheck time.Time
}

// NewPulseWorker creates pulse scheduler. locker may be nil.
func NewPulseWorker(repo pulse.Repository, session Session, locker Locker, cfg PulseConfig, publishers ...PulsePublisher) *PulseWorker {
	return &PulseWorker{
		repo:       repo,
		session:    session,
		locker:     locker,
		publishers: publishers,
		cfg:        cfg,
		now:        time.Now,
		generate:   pulse.Generate,
	}
}

// Name returns worker name
func (w *PulseWorker) Name() string {
	return "market_pulse"
}

// SetMetrics makes every check report to rec
func (w *PulseWorker) SetMetrics(rec MetricsRecorder) {
	w.metrics = rec
}

// Run implements worker.Worker
func (w *PulseWorker) Run(ctx context.Context) error {
	started := w.now()
	outcome, err := w.Check(ctx)
	recordRun(w.metrics, w.Name(), started, w.now(), outcome, err)

	logger.Debug("market pulse check finished",
		zap.Stringer("outcome", outcome),
	)
	return err
}

// Check performs one scheduler check
func (w *PulseWorker) Check(ctx context.Context) (Outcome, error) {
	if !w.session.IsSignedIn() {
		return OutcomeDisabled, nil
	}

	if !w.inFlight.CompareAndSwap(false, true) {
		return OutcomeBusy, nil
	}
	defer w.inFlight.Store(false)

	now := w.now()
	if !w.pastCooldown(now) {
		return OutcomeCooldown, nil
	}

	if w.locker != nil {
		ok, err := w.locker.Acquire(ctx, pulseLockName, lockTTL(w.cfg.StoreTimeout))
		if err != nil {
			return OutcomeFailed, fmt.Errorf("failed to acquire pulse lock: %w", err)
		}
		if !ok {
			return OutcomeLocked, nil
		}
		defer func() {
			if err := w.locker.Release(context.WithoutCancel(ctx), pulseLockName); err != nil {
				logger.Warn("failed to release pulse lock", zap.Error(err))
			}
		}()
	}

	records, err := w.repo.ListMarketPulseUpdates(ctx)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("failed to list market pulse updates: %w", err)
	}

	latest := pulse.Latest(records)
	if latest == nil {
		content := w.generate(now, nil)
		return w.store(ctx, now, pulse.Format(content), "")
	}

	age := now.Sub(latest.Timestamp)
	if age < w.cfg.dueAfter() {
		logger.Debug("latest market pulse update is fresh",
			zap.Int64("update_id", latest.ID),
			zap.Duration("age", age),
		)
		return OutcomeNotDue, nil
	}

	var prev *pulse.Content
	if parsed, ok := pulse.Parse(latest.UpdateText); ok {
		prev = &parsed
	}

	updateText := pulse.Format(w.generate(now, prev))
	if updateText == latest.UpdateText {
		logger.Warn("generated identical market pulse update, skipping",
			zap.Int64("previous_id", latest.ID),
		)
		return OutcomeIdentical, nil
	}

	return w.store(ctx, now, updateText, latest.UpdateText)
}

// pastCooldown records now as the last check unless the previous one was
// too recent
func (w *PulseWorker) pastCooldown(now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.lastCheck.IsZero() && now.Sub(w.lastCheck) < w.cfg.Cooldown {
		return false
	}
	w.lastCheck = now
	return true
}

func (w *PulseWorker) store(ctx context.Context, now time.Time, updateText, previousUpdateText string) (Outcome, error) {
	storeCtx, cancel := storeContext(ctx, w.cfg.StoreTimeout)
	defer cancel()

	id, err := w.repo.CreateMarketPulseUpdate(storeCtx, updateText, previousUpdateText)
	if err != nil {
		if errors.Is(err, pulse.ErrNotNewInformation) {
			logger.Warn("market pulse update rejected as repeat", zap.Error(err))
		}
		return OutcomeFailed, fmt.Errorf("failed to create market pulse update: %w", err)
	}

	logger.Info("📈 Market pulse update created",
		zap.Int64("update_id", id),
		zap.Bool("first", previousUpdateText == ""),
	)

	rec := pulse.Record{ID: id, UpdateText: updateText, Timestamp: now}
	for _, p := range w.publishers {
		if err := p.PublishPulse(storeCtx, rec); err != nil {
			logger.Error("failed to publish market pulse update",
				zap.Int64("update_id", id),
				zap.Error(err),
			)
		}
	}

	return OutcomeCreated, nil
}
