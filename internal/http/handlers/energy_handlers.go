package handlers

import (
	"errors"
	"net/http"

	"solarhub/internal/http/middleware"
	"solarhub/internal/service"
)

// NewEnergyDataHandler serves a daily normalized series over the given window.
// Query parameters from, to (2006-01-02) and tz override the default window
// and the tenant's stored timezone.
func NewEnergyDataHandler(energyService *service.EnergyService, days int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		opts := service.DailyOptions{
			Days:     days,
			From:     r.URL.Query().Get("from"),
			To:       r.URL.Query().Get("to"),
			Timezone: r.URL.Query().Get("tz"),
		}

		entries, err := energyService.DailySeries(r.Context(), userID, opts)
		if err != nil {
			if errors.Is(err, service.ErrInvalidWindow) {
				writeError(w, http.StatusBadRequest, "invalid date window")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to load energy data")
			return
		}

		writeJSON(w, http.StatusOK, entries)
	}
}

// NewMonthlyTotalsHandler serves the last twelve months of adjusted totals.
func NewMonthlyTotalsHandler(energyService *service.EnergyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		entries, err := energyService.MonthlySeries(r.Context(), userID, r.URL.Query().Get("tz"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load monthly totals")
			return
		}

		writeJSON(w, http.StatusOK, entries)
	}
}

// NewYearlyTotalsHandler serves the last ten years of raw sums.
func NewYearlyTotalsHandler(energyService *service.EnergyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		entries, err := energyService.YearlySeries(r.Context(), userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load yearly totals")
			return
		}

		writeJSON(w, http.StatusOK, entries)
	}
}
