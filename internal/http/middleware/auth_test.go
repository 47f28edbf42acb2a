package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarhub/internal/redisstore"
	"solarhub/internal/service"
)

type fakeSessionChecker struct {
	live map[string]redisstore.Session
}

func (f *fakeSessionChecker) Get(_ context.Context, tokenID string) (*redisstore.Session, error) {
	session, ok := f.live[tokenID]
	if !ok {
		return nil, redisstore.ErrSessionNotFound
	}
	return &session, nil
}

func TestAuthMiddleware(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	token, claims, err := tokens.GenerateToken(42, "user")
	require.NoError(t, err)

	sessions := &fakeSessionChecker{live: map[string]redisstore.Session{
		claims.ID: {TokenID: claims.ID, UserID: 42},
	}}

	var gotUserID int64
	var gotTokenID string
	handler := Auth(tokens, sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = UserIDFromContext(r.Context())
		gotTokenID, _ = TokenIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(42), gotUserID)
		assert.Equal(t, claims.ID, gotTokenID)
	})

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("forged token", func(t *testing.T) {
		forged, _, err := service.NewTokenService("other", time.Hour).GenerateToken(42, "user")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+forged)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("revoked session", func(t *testing.T) {
		revoked, _, err := tokens.GenerateToken(42, "user")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+revoked)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
