package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"solarhub/internal/http/middleware"
	"solarhub/internal/service"
)

// NewRegisterBoxHandler handles POST /boxes.
func NewRegisterBoxHandler(boxService *service.BoxService) http.HandlerFunc {
	type request struct {
		SerialNumber string `json:"serial_number"`
		PhotoProof   string `json:"photo_proof"`
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

		req.SerialNumber = strings.TrimSpace(req.SerialNumber)
		if req.SerialNumber == "" {
			writeError(w, http.StatusBadRequest, "serial_number is required")
			return
		}

		box, err := boxService.Register(r.Context(), userID, req.SerialNumber, req.PhotoProof)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to register box")
			return
		}

		writeJSON(w, http.StatusCreated, box)
	}
}

// NewListBoxesHandler handles GET /boxes.
func NewListBoxesHandler(boxService *service.BoxService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		boxes, err := boxService.List(r.Context(), userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list boxes")
			return
		}

		writeJSON(w, http.StatusOK, boxes)
	}
}
