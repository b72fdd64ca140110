// Package session holds the viewer session that gates the schedulers and
// fixes the calendar they run on.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/pulsebrief/pkg/logger"
)

var (
	// ErrInvalidEmail is returned by SignIn for malformed addresses
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrInvalidTimeZone is returned by SetTimeZone for unknown zones
	ErrInvalidTimeZone = errors.New("invalid time zone")
)

// State is the persisted session
type State struct {
	Email    string `json:"email,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

// SignedIn reports whether the state carries an email
func (s State) SignedIn() bool {
	return s.Email != ""
}

// Persister loads and stores session state. Load returns the zero State
// when nothing was saved yet.
type Persister interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, state State) error
}

// Session is safe for concurrent use
type Session struct {
	mu         sync.RWMutex
	state      State
	persister  Persister
	defaultLoc *time.Location
	onChange   []func(State)
}

// New creates signed-out session. persister may be nil for a purely
// in-memory session.
func New(persister Persister, defaultLoc *time.Location) *Session {
	if defaultLoc == nil {
		defaultLoc = time.Local
	}
	return &Session{persister: persister, defaultLoc: defaultLoc}
}

// Restore loads persisted state
func (s *Session) Restore(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}

	state, err := s.persister.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	logger.Info("session restored",
		zap.Bool("signed_in", state.SignedIn()),
		zap.String("time_zone", state.TimeZone),
	)
	return nil
}

// OnChange registers fn to run after every successful mutation
func (s *Session) OnChange(fn func(State)) {
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

// State returns a snapshot
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsSignedIn reports whether a viewer is signed in
func (s *Session) IsSignedIn() bool {
	return s.State().SignedIn()
}

// Location returns the session calendar, falling back to the default
// location when no valid time zone is set
func (s *Session) Location() *time.Location {
	tz := s.State().TimeZone
	if tz == "" {
		return s.defaultLoc
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return s.defaultLoc
	}
	return loc
}

// SignIn stores the viewer email
func (s *Session) SignIn(ctx context.Context, email string) error {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}

	return s.update(ctx, func(st *State) {
		st.Email = addr.Address
	})
}

// SignOut clears the viewer email and keeps the time zone
func (s *Session) SignOut(ctx context.Context) error {
	return s.update(ctx, func(st *State) {
		st.Email = ""
	})
}

// SetTimeZone changes the session calendar. An empty name restores the
// default location.
func (s *Session) SetTimeZone(ctx context.Context, name string) error {
	if name != "" {
		if _, err := time.LoadLocation(name); err != nil {
			return fmt.Errorf("%w %q: %v", ErrInvalidTimeZone, name, err)
		}
	}

	return s.update(ctx, func(st *State) {
		st.TimeZone = name
	})
}

func (s *Session) update(ctx context.Context, mutate func(*State)) error {
	s.mu.Lock()
	next := s.state
	mutate(&next)

	if s.persister != nil {
		if err := s.persister.Save(ctx, next); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("failed to save session: %w", err)
		}
	}
	s.state = next
	listeners := append([]func(State){}, s.onChange...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
	return nil
}
