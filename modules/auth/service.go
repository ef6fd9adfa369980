package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/ekoc03/pokedex/config"
	domain "github.com/ekoc03/pokedex/domain/user"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token    string
	Username string
}

// AuthService handles authentication business logic.
type AuthService struct {
	repo   *UserRepository
	hasher *PasswordHasher
	tokens TokenStrategy
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo *UserRepository, hasher *PasswordHasher, tokens TokenStrategy) *AuthService {
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
	}
}

// Login checks the password against the stored hash and issues a token.
// Unknown users and wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if s.hasher.NeedsRehash(u.PasswordHash) {
		s.rehash(ctx, u, password)
	}

	token, err := s.tokens.Issue(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &LoginResult{
		Token:    token,
		Username: u.Username,
	}, nil
}

// rehash moves u to the current bcrypt cost. On failure the old hash stays valid.
func (s *AuthService) rehash(ctx context.Context, u *domain.User, password string) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return
	}
	if err := s.repo.UpdatePasswordHash(ctx, u.ID, hash); err == nil {
		u.PasswordHash = hash
	}
}

// ValidateToken returns the identity bound to token.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, ErrMalformedToken
	}
	return s.tokens.Verify(ctx, token)
}

// Logout revokes token. Revoking an unknown token succeeds.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.tokens.Revoke(ctx, token); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// SeedUsers creates the given accounts when they do not exist yet. It returns how many were created.
func (s *AuthService) SeedUsers(ctx context.Context, seeds []config.SeedUser) (int, error) {
	created := 0
	for _, seed := range seeds {
		exists, err := s.repo.UsernameExists(ctx, seed.Username)
		if err != nil {
			return created, fmt.Errorf("failed to check user %s: %w", seed.Username, err)
		}
		if exists {
			continue
		}

		hash, err := s.hasher.Hash(seed.Password)
		if err != nil {
			return created, fmt.Errorf("failed to hash password for %s: %w", seed.Username, err)
		}
		if err := s.repo.Create(ctx, &domain.User{
			Username:     seed.Username,
			PasswordHash: hash,
		}); err != nil {
			return created, fmt.Errorf("failed to create user %s: %w", seed.Username, err)
		}
		created++
	}
	return created, nil
}
