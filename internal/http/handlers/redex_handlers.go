package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"solarhub/internal/clients"
	"solarhub/internal/http/middleware"
	"solarhub/internal/repository"
	"solarhub/internal/service"
)

const maxDeclarationSize = 10 << 20

// NewUploadDeclarationHandler handles POST /redex/declaration. Expects a
// multipart form with a single "file" part holding the declaration document.
func NewUploadDeclarationHandler(redexService *service.RedexService) http.HandlerFunc {
	type response struct {
		FileID         string `json:"file_id"`
		ValidationCode string `json:"validation_code"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		if err := r.ParseMultipartForm(maxDeclarationSize); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "file part is required")
			return
		}
		defer file.Close()

		content, err := io.ReadAll(io.LimitReader(file, maxDeclarationSize))
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read file")
			return
		}

		info, err := redexService.UploadDeclaration(r.Context(), userID, header.Filename, header.Header.Get("Content-Type"), content)
		if err != nil {
			writeError(w, http.StatusBadGateway, "registry upload failed")
			return
		}

		writeJSON(w, http.StatusCreated, response{
			FileID:         info.RedexFileID,
			ValidationCode: info.ValidationCode,
		})
	}
}

// NewRegisterDevicesHandler handles POST /redex/register.
func NewRegisterDevicesHandler(redexService *service.RedexService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		var registration clients.GroupedRegistration
		if err := json.NewDecoder(r.Body).Decode(&registration); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if len(registration.Devices) == 0 {
			writeError(w, http.StatusBadRequest, "at least one device is required")
			return
		}

		result, err := redexService.RegisterGroupedDevices(r.Context(), registration)
		if err != nil {
			if errors.Is(err, repository.ErrRedexInfoNotFound) {
				writeError(w, http.StatusNotFound, "unknown declaration file id")
				return
			}
			writeError(w, http.StatusBadGateway, "registry registration failed")
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

// NewRedexFileIDHandler handles GET /redex/file-id.
func NewRedexFileIDHandler(redexService *service.RedexService) http.HandlerFunc {
	type response struct {
		FileID string `json:"file_id"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		fileID, err := redexService.FileIDForUser(r.Context(), userID)
		if err != nil {
			if errors.Is(err, repository.ErrRedexInfoNotFound) {
				writeError(w, http.StatusNotFound, "no declaration on record")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to load declaration")
			return
		}

		writeJSON(w, http.StatusOK, response{FileID: fileID})
	}
}
