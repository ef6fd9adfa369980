package auth

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Session maps an opaque token to the identity that logged in.
type Session struct {
	Token     string    `json:"token"`
	UserID    uint      `json:"userId"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
	// ExpiresAt is zero for sessions that live until logout.
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// SessionStore holds live sessions keyed by token.
type SessionStore interface {
	// Put stores a session, replacing any session with the same token.
	Put(ctx context.Context, s *Session) error
	// Get returns nil without error when the token is unknown or expired.
	Get(ctx context.Context, token string) (*Session, error)
	// Delete removes a session. Deleting an unknown token is not an error.
	Delete(ctx context.Context, token string) error
}

// MemorySessionStore keeps sessions in process memory.
// It is not shared between processes; use RedisSessionStore for that.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

var _ SessionStore = (*MemorySessionStore)(nil)

// NewMemorySessionStore creates an empty in-memory store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Put stores a copy of s.
func (m *MemorySessionStore) Put(_ context.Context, s *Session) error {
	stored := *s
	m.mu.Lock()
	m.sessions[s.Token] = &stored
	m.mu.Unlock()
	return nil
}

// Get returns a copy of the session, dropping it if it has expired.
func (m *MemorySessionStore) Get(_ context.Context, token string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[token]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	if s.Expired(m.now()) {
		m.mu.Lock()
		delete(m.sessions, token)
		m.mu.Unlock()
		return nil, nil
	}

	found := *s
	return &found, nil
}

// Delete removes the session for token.
func (m *MemorySessionStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (m *MemorySessionStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// SessionCache is the subset of the Redis cache used for sessions.
type SessionCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	SetWithTTL(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

const sessionKeyPrefix = "session:"

// RedisSessionStore keeps sessions in Redis so several processes can share them.
// Expiry is enforced by the key TTL.
type RedisSessionStore struct {
	cache SessionCache
	now   func() time.Time
}

var _ SessionStore = (*RedisSessionStore)(nil)

// NewRedisSessionStore creates a store on top of cache.
func NewRedisSessionStore(cache SessionCache) *RedisSessionStore {
	return &RedisSessionStore{
		cache: cache,
		now:   time.Now,
	}
}

// Put stores s with a TTL matching its expiry. Sessions without expiry never time out.
func (r *RedisSessionStore) Put(ctx context.Context, s *Session) error {
	var ttl time.Duration
	if !s.ExpiresAt.IsZero() {
		ttl = s.ExpiresAt.Sub(r.now())
		if ttl <= 0 {
			return nil
		}
	}
	if err := r.cache.SetWithTTL(ctx, sessionKeyPrefix+s.Token, s, ttl); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Get loads the session for token.
func (r *RedisSessionStore) Get(ctx context.Context, token string) (*Session, error) {
	var s Session
	found, err := r.cache.Get(ctx, sessionKeyPrefix+token, &s)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !found || s.Expired(r.now()) {
		return nil, nil
	}
	return &s, nil
}

// Delete removes the session for token.
func (r *RedisSessionStore) Delete(ctx context.Context, token string) error {
	if err := r.cache.Delete(ctx, sessionKeyPrefix+token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
