package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	domain "github.com/ekoc03/pokedex/domain/user"
	"github.com/golang-jwt/jwt/v5"
)

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	SecretKey string
	TTL       time.Duration
	Issuer    string
}

// JWTClaims carries the username next to the registered claims.
// The subject is the numeric user id.
type JWTClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SignedTokens issues self-contained HS256 tokens. Nothing is stored server side,
// so Revoke cannot invalidate a token before it expires.
type SignedTokens struct {
	config JWTConfig
	now    func() time.Time
}

var _ TokenStrategy = (*SignedTokens)(nil)

// NewSignedTokens creates a JWT-backed token strategy.
func NewSignedTokens(config JWTConfig) *SignedTokens {
	return &SignedTokens{
		config: config,
		now:    time.Now,
	}
}

// Issue signs a token whose subject is the user's id.
func (s *SignedTokens) Issue(_ context.Context, u *domain.User) (string, error) {
	now := s.now()
	claims := JWTClaims{
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   strconv.FormatUint(uint64(u.ID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.SecretKey))
}

// Verify checks the signature and expiry, then decodes the numeric subject.
func (s *SignedTokens) Verify(_ context.Context, tokenString string) (*domain.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidOrExpired
		}
		return []byte(s.config.SecretKey), nil
	}, jwt.WithTimeFunc(s.now), jwt.WithIssuer(s.config.Issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, ErrMalformedToken
		}
		return nil, ErrInvalidOrExpired
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidOrExpired
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return nil, ErrMalformedToken
	}

	return &domain.Identity{
		UserID:   uint(userID),
		Username: claims.Username,
	}, nil
}

// Revoke is a no-op; signed tokens expire on their own.
func (s *SignedTokens) Revoke(_ context.Context, _ string) error {
	return nil
}
