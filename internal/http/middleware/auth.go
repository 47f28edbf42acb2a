package middleware

import (
	"context"
	"net/http"
	"strings"

	"solarhub/internal/redisstore"
	"solarhub/internal/service"
)

type contextKey string

const (
	userIDKey  contextKey = "userID"
	tokenIDKey contextKey = "tokenID"
)

// TokenValidator checks bearer token signatures and expiry.
type TokenValidator interface {
	ValidateToken(token string) (*service.Claims, error)
}

// SessionChecker looks up live sessions by token id. A token whose session is
// gone has been logged out and is rejected even before expiry.
type SessionChecker interface {
	Get(ctx context.Context, tokenID string) (*redisstore.Session, error)
}

// Auth validates the bearer token, confirms the session is still live and
// stores user and token ids on the request context.
func Auth(tokens TokenValidator, sessions SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				http.Error(w, "invalid authorization header", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.ValidateToken(strings.TrimSpace(parts[1]))
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			if sessions != nil {
				if _, err := sessions.Get(r.Context(), claims.ID); err != nil {
					http.Error(w, "session expired", http.StatusUnauthorized)
					return
				}
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			ctx = context.WithValue(ctx, tokenIDKey, claims.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext retrieves userID from request context.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	val := ctx.Value(userIDKey)
	if val == nil {
		return 0, false
	}
	id, ok := val.(int64)
	return id, ok
}

// TokenIDFromContext retrieves the JWT id from request context.
func TokenIDFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(tokenIDKey)
	if val == nil {
		return "", false
	}
	id, ok := val.(string)
	return id, ok
}
