package auth

import (
	"context"
	"fmt"
	"time"

	domain "github.com/ekoc03/pokedex/domain/user"
	"github.com/google/uuid"
)

// TokenStrategy issues, verifies and revokes bearer tokens.
type TokenStrategy interface {
	Issue(ctx context.Context, u *domain.User) (string, error)
	// Verify returns ErrMalformedToken or ErrInvalidOrExpired when the token is rejected.
	Verify(ctx context.Context, token string) (*domain.Identity, error)
	// Revoke is idempotent.
	Revoke(ctx context.Context, token string) error
}

// SessionTokens issues random opaque tokens recorded in a SessionStore.
type SessionTokens struct {
	store SessionStore
	ttl   time.Duration
	now   func() time.Time
}

var _ TokenStrategy = (*SessionTokens)(nil)

// NewSessionTokens creates session-backed tokens. A zero ttl keeps sessions until logout.
func NewSessionTokens(store SessionStore, ttl time.Duration) *SessionTokens {
	return &SessionTokens{
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Issue mints a new token for u and records the session.
func (s *SessionTokens) Issue(ctx context.Context, u *domain.User) (string, error) {
	now := s.now()
	session := &Session{
		Token:     uuid.NewString(),
		UserID:    u.ID,
		Username:  u.Username,
		CreatedAt: now,
	}
	if s.ttl > 0 {
		session.ExpiresAt = now.Add(s.ttl)
	}

	if err := s.store.Put(ctx, session); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return session.Token, nil
}

// Verify looks the token up in the session store.
func (s *SessionTokens) Verify(ctx context.Context, token string) (*domain.Identity, error) {
	session, err := s.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrInvalidOrExpired
	}
	return &domain.Identity{
		UserID:   session.UserID,
		Username: session.Username,
	}, nil
}

// Revoke deletes the session.
func (s *SessionTokens) Revoke(ctx context.Context, token string) error {
	return s.store.Delete(ctx, token)
}
