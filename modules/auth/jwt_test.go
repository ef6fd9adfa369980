package auth

import (
	"context"
	"testing"
	"time"

	domain "github.com/ekoc03/pokedex/domain/user"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() JWTConfig {
	return JWTConfig{
		SecretKey: "test-secret",
		TTL:       time.Hour,
		Issuer:    "pokedex-test",
	}
}

func TestSignedTokens_RoundTrip(t *testing.T) {
	tokens := NewSignedTokens(testJWTConfig())
	ctx := context.Background()

	token, err := tokens.Issue(ctx, &domain.User{ID: 42, Username: "ash"})
	require.NoError(t, err)

	identity, err := tokens.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), identity.UserID)
	assert.Equal(t, "ash", identity.Username)

	assert.NoError(t, tokens.Revoke(ctx, token))
}

func TestSignedTokens_Rejections(t *testing.T) {
	ctx := context.Background()
	tokens := NewSignedTokens(testJWTConfig())
	valid, err := tokens.Issue(ctx, &domain.User{ID: 1, Username: "ash"})
	require.NoError(t, err)

	otherCfg := testJWTConfig()
	otherCfg.SecretKey = "another-secret"
	foreign, err := NewSignedTokens(otherCfg).Issue(ctx, &domain.User{ID: 1, Username: "ash"})
	require.NoError(t, err)

	expiring := NewSignedTokens(testJWTConfig())
	expiring.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiring.Issue(ctx, &domain.User{ID: 1, Username: "ash"})
	require.NoError(t, err)

	nonNumeric := signClaims(t, JWTClaims{
		Username: "ash",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "pokedex-test",
			Subject:   "user-abc",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{name: "garbage", token: "not-a-jwt", want: ErrMalformedToken},
		{name: "wrong signature", token: foreign, want: ErrInvalidOrExpired},
		{name: "expired", token: expired, want: ErrInvalidOrExpired},
		{name: "tampered", token: valid + "x", want: ErrInvalidOrExpired},
		{name: "non-numeric subject", token: nonNumeric, want: ErrMalformedToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := tokens.Verify(ctx, tt.token)
			assert.Nil(t, identity)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func signClaims(t *testing.T, claims JWTClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}
