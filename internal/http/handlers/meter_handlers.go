package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"solarhub/internal/http/middleware"
	"solarhub/internal/models"
	"solarhub/internal/repository"
	"solarhub/internal/service"
)

// NewAddMeterHandler handles POST /meter.
func NewAddMeterHandler(meterService *service.MeterService) http.HandlerFunc {
	type request struct {
		MeterBrand    string `json:"meter_brand"`
		MeterType     string `json:"meter_type"`
		SerialNumber  string `json:"serial_number"`
		EvidencePhoto string `json:"evidence_photo"`
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

		meter, err := meterService.Add(r.Context(), userID, models.MeteringEvidence{
			MeterBrand:    req.MeterBrand,
			MeterType:     req.MeterType,
			SerialNumber:  req.SerialNumber,
			EvidencePhoto: req.EvidencePhoto,
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to save metering evidence")
			return
		}

		writeJSON(w, http.StatusCreated, meter)
	}
}

// NewGetMeterHandler handles GET /meter.
func NewGetMeterHandler(meterService *service.MeterService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		meter, err := meterService.Get(r.Context(), userID)
		if err != nil {
			if errors.Is(err, repository.ErrMeterNotFound) {
				writeError(w, http.StatusNotFound, "no metering evidence on record")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to load metering evidence")
			return
		}

		writeJSON(w, http.StatusOK, meter)
	}
}
