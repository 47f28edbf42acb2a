package handlers

import (
	"net/http"

	"solarhub/internal/http/middleware"
	"solarhub/internal/service"
)

// NewLogoutHandler handles POST /auth/logout. It revokes the session of the
// token the request was authenticated with.
func NewLogoutHandler(authService *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenID, ok := middleware.TokenIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		if err := authService.Logout(r.Context(), tokenID); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to logout")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
	}
}
