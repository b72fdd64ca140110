package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/pulsebrief/internal/brief"
	"github.com/selivandex/pulsebrief/pkg/daykey"
	"github.com/selivandex/pulsebrief/pkg/logger"
)

const briefLockPrefix = "pulsebrief:lock:brief:"

// BriefWorker creates today's daily brief once per activation. An activation
// starts when the session signs in and again at every new local day.
type BriefWorker struct {
	repo         brief.Repository
	session      Session
	locker       Locker
	publishers   []BriefPublisher
	storeTimeout time.Duration
	metrics      MetricsRecorder
	now          func() time.Time

	mu        sync.Mutex
	attempted string // day key of the current activation's attempt
}

// NewBriefWorker creates brief scheduler. locker may be nil.
func NewBriefWorker(repo brief.Repository, session Session, locker Locker, storeTimeout time.Duration, publishers ...BriefPublisher) *BriefWorker {
	return &BriefWorker{
		repo:         repo,
		session:      session,
		locker:       locker,
		publishers:   publishers,
		storeTimeout: storeTimeout,
		now:          time.Now,
	}
}

// Name returns worker name
func (w *BriefWorker) Name() string {
	return "daily_brief"
}

// SetMetrics makes every check report to rec
func (w *BriefWorker) SetMetrics(rec MetricsRecorder) {
	w.metrics = rec
}

// Run implements worker.Worker
func (w *BriefWorker) Run(ctx context.Context) error {
	started := w.now()
	outcome, err := w.Check(ctx)
	recordRun(w.metrics, w.Name(), started, w.now(), outcome, err)

	logger.Debug("daily brief check finished",
		zap.Stringer("outcome", outcome),
	)
	return err
}

// Check makes at most one creation attempt for the current activation
func (w *BriefWorker) Check(ctx context.Context) (Outcome, error) {
	if !w.session.IsSignedIn() {
		w.reset()
		return OutcomeDisabled, nil
	}

	loc := w.session.Location()
	now := w.now().In(loc)
	today := daykey.DayKey(now)

	if !w.claim(today) {
		return OutcomeAttempted, nil
	}

	if w.locker != nil {
		name := briefLockPrefix + today
		ok, err := w.locker.Acquire(ctx, name, lockTTL(w.storeTimeout))
		if err != nil {
			w.unclaim(today)
			return OutcomeFailed, fmt.Errorf("failed to acquire brief lock: %w", err)
		}
		if !ok {
			// The holder creates the brief; a later tick sees it stored.
			w.unclaim(today)
			return OutcomeLocked, nil
		}
		defer func() {
			if err := w.locker.Release(context.WithoutCancel(ctx), name); err != nil {
				logger.Warn("failed to release brief lock", zap.Error(err))
			}
		}()
	}

	records, err := w.repo.ListDailyBriefs(ctx)
	if err != nil {
		w.unclaim(today)
		return OutcomeFailed, fmt.Errorf("failed to list daily briefs: %w", err)
	}

	if existing := brief.FindByDay(records, today, loc); existing != nil {
		logger.Debug("today's brief already exists",
			zap.String("day", today),
			zap.Int64("brief_id", existing.ID),
		)
		return OutcomeExists, nil
	}

	var prior *brief.Prior
	yesterdayKey := daykey.DayKey(daykey.Previous(now))
	if yesterday := brief.FindByDay(records, yesterdayKey, loc); yesterday != nil {
		prior = brief.PriorOf(yesterday.Content)
	}

	result := brief.Generate(now, prior)
	if result.Exhausted {
		logger.Warn("⚠️ brief generation exhausted attempts, accepting last candidate",
			zap.String("day", today),
			zap.Int("attempts", result.Attempts),
		)
	}

	req := brief.ToCreateRequest(result.Content)

	storeCtx, cancel := storeContext(ctx, w.storeTimeout)
	defer cancel()

	id, err := w.repo.CreateDailyBrief(storeCtx, req)
	if err != nil {
		// Nothing was stored, so a later tick may try again.
		w.unclaim(today)
		return OutcomeFailed, fmt.Errorf("failed to create brief for %s: %w", today, err)
	}

	logger.Info("📰 Daily brief created",
		zap.String("day", today),
		zap.Int64("brief_id", id),
		zap.Int("attempts", result.Attempts),
		zap.Int("bullish", req.BullishScore),
		zap.Int("volatility", req.VolatilityScore),
	)

	rec := brief.Record{ID: id, Date: now, Content: req.Content()}
	for _, p := range w.publishers {
		if err := p.PublishBrief(storeCtx, rec); err != nil {
			logger.Error("failed to publish daily brief",
				zap.Int64("brief_id", id),
				zap.Error(err),
			)
		}
	}

	return OutcomeCreated, nil
}

// claim marks day as attempted and reports whether it was free
func (w *BriefWorker) claim(day string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.attempted == day {
		return false
	}
	w.attempted = day
	return true
}

func (w *BriefWorker) unclaim(day string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.attempted == day {
		w.attempted = ""
	}
}

// reset ends the current activation
func (w *BriefWorker) reset() {
	w.mu.Lock()
	w.attempted = ""
	w.mu.Unlock()
}
