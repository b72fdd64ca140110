package workers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock(t time.Time) *testClock {
	return &testClock{t: t}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type fakeSession struct {
	signedIn atomic.Bool
	loc      *time.Location
}

func signedInSession() *fakeSession {
	s := &fakeSession{}
	s.signedIn.Store(true)
	return s
}

func (s *fakeSession) IsSignedIn() bool { return s.signedIn.Load() }

func (s *fakeSession) Location() *time.Location {
	if s.loc == nil {
		return time.UTC
	}
	return s.loc
}

type fakeLocker struct {
	mu       sync.Mutex
	held     map[string]bool
	acquired int
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: make(map[string]bool)}
}

func (l *fakeLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.held[name] {
		return false, nil
	}
	l.held[name] = true
	l.acquired++
	return true, nil
}

func (l *fakeLocker) Release(ctx context.Context, name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.held, name)
	return nil
}

func (l *fakeLocker) hold(name string) {
	l.mu.Lock()
	l.held[name] = true
	l.mu.Unlock()
}
