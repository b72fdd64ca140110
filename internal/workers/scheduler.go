package workers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/pulsebrief/internal/brief"
	"github.com/selivandex/pulsebrief/internal/pulse"
	"github.com/selivandex/pulsebrief/pkg/logger"
	"github.com/selivandex/pulsebrief/pkg/metrics"
)

// Session tells the schedulers whether they are active and which calendar
// they run on
type Session interface {
	IsSignedIn() bool
	Location() *time.Location
}

// Locker coordinates generation attempts across service instances
type Locker interface {
	// Acquire reports false when another holder owns name
	Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, name string) error
}

// BriefPublisher is notified after a brief is stored
type BriefPublisher interface {
	PublishBrief(ctx context.Context, rec brief.Record) error
}

// PulsePublisher is notified after a pulse update is stored
type PulsePublisher interface {
	PublishPulse(ctx context.Context, rec pulse.Record) error
}

// MetricsRecorder receives one record per scheduler check
type MetricsRecorder interface {
	Add(metric metrics.Metric) error
}

// Outcome describes what one scheduler check did
type Outcome int

const (
	OutcomeDisabled Outcome = iota
	OutcomeBusy
	OutcomeAttempted
	OutcomeCooldown
	OutcomeExists
	OutcomeNotDue
	OutcomeIdentical
	OutcomeLocked
	OutcomeCreated
	OutcomeFailed
)

var outcomeNames = map[Outcome]string{
	OutcomeDisabled:  "disabled",
	OutcomeBusy:      "busy",
	OutcomeAttempted: "attempted",
	OutcomeCooldown:  "cooldown",
	OutcomeExists:    "exists",
	OutcomeNotDue:    "not_due",
	OutcomeIdentical: "identical",
	OutcomeLocked:    "locked",
	OutcomeCreated:   "created",
	OutcomeFailed:    "failed",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return "unknown"
}

// storeContext detaches a storage call from worker shutdown. An issued
// create is never cancelled, only bounded by timeout.
func storeContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), timeout)
}

// lockTTL covers a full list, generate and store cycle
func lockTTL(storeTimeout time.Duration) time.Duration {
	return 2*storeTimeout + 5*time.Second
}

// recordRun reports a finished check. Disabled checks are not recorded.
func recordRun(rec MetricsRecorder, worker string, started, finished time.Time, outcome Outcome, err error) {
	if rec == nil || outcome == OutcomeDisabled {
		return
	}

	run := &metrics.SchedulerRun{
		Timestamp:  finished,
		Worker:     worker,
		Outcome:    outcome.String(),
		DurationMs: finished.Sub(started).Milliseconds(),
	}
	if err != nil {
		run.Error = err.Error()
	}

	if err := rec.Add(run); err != nil {
		logger.Debug("scheduler run not recorded",
			zap.String("worker", worker),
			zap.Error(err),
		)
	}
}
