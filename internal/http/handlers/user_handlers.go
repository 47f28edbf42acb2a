package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"solarhub/internal/http/middleware"
	"solarhub/internal/service"
)

// NewCreateCredentialsHandler handles POST /users/credentials. Issues device
// ingestion credentials for the authenticated tenant, returning the existing
// pair when one was already generated.
func NewCreateCredentialsHandler(userService *service.UserService) http.HandlerFunc {
	type response struct {
		ClientID     string `json:"client_id"`
		ClientSecret string `json:"client_secret"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		creds, err := userService.GenerateCredentials(r.Context(), userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to generate credentials")
			return
		}

		writeJSON(w, http.StatusCreated, response{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
		})
	}
}

// NewResetPasswordHandler handles POST /users/reset-password.
func NewResetPasswordHandler(userService *service.UserService) http.HandlerFunc {
	type request struct {
		NewPassword string `json:"new_password"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		req.NewPassword = strings.TrimSpace(req.NewPassword)
		if req.NewPassword == "" {
			writeError(w, http.StatusBadRequest, "new_password is required")
			return
		}

		if err := userService.ResetPassword(r.Context(), userID, req.NewPassword); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to reset password")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
	}
}
