package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/go-redis/redis/v8"

	"github.com/selivandex/pulsebrief/internal/session"
)

const sessionKey = "pulsebrief:session"

// keyValue is the subset of Client used for session storage
type keyValue interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// SessionStore persists the viewer session in Redis so every pod shares it
type SessionStore struct {
	kv  keyValue
	key string
}

// NewSessionStore creates session persister
func NewSessionStore(kv keyValue) *SessionStore {
	return &SessionStore{kv: kv, key: sessionKey}
}

// Load returns stored state, or the zero State when none was saved
func (s *SessionStore) Load(ctx context.Context) (session.State, error) {
	data, err := s.kv.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return session.State{}, nil
		}
		return session.State{}, fmt.Errorf("failed to read session from redis: %w", err)
	}

	var state session.State
	if err := json.Unmarshal(data, &state); err != nil {
		return session.State{}, fmt.Errorf("failed to decode session: %w", err)
	}
	return state, nil
}

// Save stores state without expiry
func (s *SessionStore) Save(ctx context.Context, state session.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := s.kv.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write session to redis: %w", err)
	}
	return nil
}

var _ session.Persister = (*SessionStore)(nil)
