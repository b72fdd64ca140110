package redis

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/pulsebrief/pkg/logger"
)

// lockManager is the subset of redlock.RedLock used here
type lockManager interface {
	Lock(ctx context.Context, resource string, ttl time.Duration) (time.Duration, error)
	UnLock(ctx context.Context, resource string) error
}

// GenerationLock serializes brief and pulse generation across pods
type GenerationLock struct {
	manager lockManager
}

// NewGenerationLock creates lock on top of a redlock manager
func NewGenerationLock(manager lockManager) *GenerationLock {
	return &GenerationLock{manager: manager}
}

// Acquire attempts to take name for ttl using the Redlock algorithm.
// It returns false when another pod holds the lock.
func (l *GenerationLock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	expiry, err := l.manager.Lock(ctx, name, ttl)
	if err != nil {
		// Lock not acquired - another pod has it
		logger.Debug("generation lock held by another pod",
			zap.String("lock_name", name),
		)
		return false, nil
	}

	if expiry <= 0 {
		return false, fmt.Errorf("failed to acquire lock %s: invalid expiry %v", name, expiry)
	}

	logger.Debug("generation lock acquired",
		zap.String("lock_name", name),
		zap.Duration("ttl", ttl),
		zap.Duration("expiry", expiry),
	)
	return true, nil
}

// Release unlocks name. A lock that already expired is not an error.
func (l *GenerationLock) Release(ctx context.Context, name string) error {
	if err := l.manager.UnLock(ctx, name); err != nil {
		logger.Warn("failed to release lock (may have already expired)",
			zap.String("lock_name", name),
			zap.Error(err),
		)
	}
	return nil
}
