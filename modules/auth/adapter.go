package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	domain "github.com/ekoc03/pokedex/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthPort defines the authentication operations other modules use.
type AuthPort interface {
	TokenValidator
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
}

// AuthAdapter implements AuthPort using the service container.
type AuthAdapter struct {
	container mono.ServiceContainer
}

var _ AuthPort = (*AuthAdapter)(nil)

// NewAuthAdapter creates a new AuthAdapter.
func NewAuthAdapter(container mono.ServiceContainer) *AuthAdapter {
	return &AuthAdapter{container: container}
}

// Login calls the login service.
func (a *AuthAdapter) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	req := LoginRequest{Username: username, Password: password}
	var resp LoginResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"login",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, mapServiceError(err)
	}

	return &LoginResult{
		Token:    resp.Token,
		Username: resp.Username,
	}, nil
}

// Logout calls the logout service.
func (a *AuthAdapter) Logout(ctx context.Context, token string) error {
	req := LogoutRequest{Token: token}
	var resp LogoutResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"logout",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return mapServiceError(err)
	}
	return nil
}

// ValidateToken calls the validate-token service.
func (a *AuthAdapter) ValidateToken(ctx context.Context, token string) (*domain.Identity, error) {
	req := ValidateTokenRequest{Token: token}
	var resp ValidateTokenResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"validate-token",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("validate-token request failed: %w", err)
	}

	if !resp.Valid {
		return nil, mapServiceError(fmt.Errorf("%s", resp.Error))
	}

	return &domain.Identity{
		UserID:   resp.UserID,
		Username: resp.Username,
	}, nil
}

// mapServiceError recovers sentinel errors from messages that crossed the
// request-reply boundary. Unknown errors are returned unchanged.
func mapServiceError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	for _, sentinel := range []error{
		ErrInvalidCredentials,
		ErrMalformedToken,
		ErrInvalidOrExpired,
	} {
		if strings.Contains(msg, sentinel.Error()) {
			return sentinel
		}
	}
	return err
}
