package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	token, claims, err := svc.GenerateToken(42, "user")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, claims.ID)

	parsed, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), parsed.UserID)
	assert.Equal(t, "user", parsed.Role)
	assert.Equal(t, claims.ID, parsed.ID)
}

func TestTokenUniqueIDs(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	_, first, err := svc.GenerateToken(1, "user")
	require.NoError(t, err)
	_, second, err := svc.GenerateToken(1, "user")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenService("secret", time.Hour).GenerateToken(1, "user")
	require.NoError(t, err)

	_, err = NewTokenService("other", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenRejectsExpired(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	svc.expiresIn = -time.Minute

	token, _, err := svc.GenerateToken(1, "user")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenRequiresUserID(t *testing.T) {
	_, _, err := NewTokenService("secret", time.Hour).GenerateToken(0, "user")
	assert.Error(t, err)
}
