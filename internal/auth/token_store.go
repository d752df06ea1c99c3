package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"klaxon/internal/cache"
	"klaxon/internal/session"
)

const sessionKeyPrefix = "session:"

// RedisSessionStore keeps session data in Redis under session:<id>.
type RedisSessionStore struct {
	cache *cache.Client
}

var _ session.Store = (*RedisSessionStore)(nil)

// NewRedisSessionStore creates a new session store.
func NewRedisSessionStore(cache *cache.Client) *RedisSessionStore {
	return &RedisSessionStore{cache: cache}
}

// Load returns the stored session, or nil when the id is unknown.
func (s *RedisSessionStore) Load(ctx context.Context, id string) (*session.Data, error) {
	raw, err := s.cache.GetStrict(ctx, sessionKeyPrefix+id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if raw == nil {
		return nil, nil
	}
	var d session.Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	if d.ID != id {
		return nil, nil
	}
	return &d, nil
}

// Save stores the session with TTL.
func (s *RedisSessionStore) Save(ctx context.Context, d session.Data, ttl time.Duration) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.cache.SetStrict(ctx, sessionKeyPrefix+d.ID, payload, ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Delete removes a session.
func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	if err := s.cache.DeleteStrict(ctx, sessionKeyPrefix+id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
