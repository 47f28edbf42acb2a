package handlers

import (
	"fmt"
	"net/http"

	"solarhub/internal/http/middleware"
	"solarhub/internal/service"
)

// NewDailyCSVHandler streams the daily series of the given window as CSV.
func NewDailyCSVHandler(energyService *service.EnergyService, days int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		report, err := energyService.ExportDailyCSV(r.Context(), userID, days)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to build report")
			return
		}

		writeCSV(w, report)
	}
}

// NewMonthlyCSVHandler streams the twelve-month series as CSV.
func NewMonthlyCSVHandler(energyService *service.EnergyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		report, err := energyService.ExportMonthlyCSV(r.Context(), userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to build report")
			return
		}

		writeCSV(w, report)
	}
}

func writeCSV(w http.ResponseWriter, report *service.CSVReport) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", report.FileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(report.Content))
}
