package auth

import (
	"context"
	"strings"

	domain "github.com/ekoc03/pokedex/domain/user"
)

const bearerPrefix = "Bearer "

// TokenValidator resolves a bearer token to an identity.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*domain.Identity, error)
}

// Authenticator turns an Authorization header value into an identity.
type Authenticator struct {
	validator TokenValidator
}

// NewAuthenticator creates an Authenticator backed by validator.
func NewAuthenticator(validator TokenValidator) *Authenticator {
	return &Authenticator{validator: validator}
}

// Authenticate returns ErrMissingHeader, ErrMalformedToken or ErrInvalidOrExpired
// when the header does not resolve to an identity. Other errors come from the validator.
func (a *Authenticator) Authenticate(ctx context.Context, header string) (*domain.Identity, error) {
	token, err := BearerToken(header)
	if err != nil {
		return nil, err
	}
	return a.validator.ValidateToken(ctx, token)
}

// BearerToken extracts the token from a "Bearer <token>" header value.
func BearerToken(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", ErrMissingHeader
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", ErrMalformedToken
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", ErrMalformedToken
	}
	return token, nil
}
