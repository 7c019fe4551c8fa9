package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/identity-service/internal/domain"
)

func testAccount() *domain.Account {
	return &domain.Account{
		Username: "ada@example.com",
		Email:    "ada@example.com",
		Role:     domain.RoleUser,
		Status:   domain.StatusActive,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	token, err := tm.Generate(testAccount())
	require.NoError(t, err)

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", claims.Username)
	require.Equal(t, domain.RoleUser, claims.Role)
	require.Equal(t, "ada@example.com", claims.Subject)

	require.True(t, tm.Validate(token))

	subject, err := tm.Subject(token)
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", subject)
}

func TestTokenWrongSecret(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	other := NewTokenManager("different", time.Hour)

	token, err := tm.Generate(testAccount())
	require.NoError(t, err)

	require.False(t, other.Validate(token))
	_, err = other.Parse(token)
	require.Error(t, err)
}

func TestTokenExpiry(t *testing.T) {
	tm := NewTokenManager("secret", time.Millisecond)

	token, err := tm.Generate(testAccount())
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	require.False(t, tm.Validate(token))

	// expiry is still readable without a valid signature window
	exp, err := tm.ExpiresAt(token)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now(), exp, time.Minute)
}

func TestExpiresAtRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	_, err := tm.ExpiresAt("not-even-a-jwt")
	require.Error(t, err)
}
