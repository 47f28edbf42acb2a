package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"solarhub/internal/models"
)

// CSVReport is a rendered export; the transport layer sets Content-Type and
// the attachment disposition from FileName.
type CSVReport struct {
	Content  string
	FileName string
}

var csvHeader = []string{"Date", "PV Power", "Load Power", "Grid In", "Grid Out", "Battery Charged", "Battery Discharged"}

// ExportDailyCSV renders the daily series for the trailing N days.
func (s *EnergyService) ExportDailyCSV(ctx context.Context, userID int64, days int) (*CSVReport, error) {
	entries, err := s.DailySeries(ctx, userID, DailyOptions{Days: days})
	if err != nil {
		return nil, err
	}
	content, err := renderCSV(entries)
	if err != nil {
		return nil, err
	}
	return &CSVReport{
		Content:  content,
		FileName: fmt.Sprintf("energy-last-%d-days", days),
	}, nil
}

// ExportMonthlyCSV renders the trailing 12 months.
func (s *EnergyService) ExportMonthlyCSV(ctx context.Context, userID int64) (*CSVReport, error) {
	entries, err := s.MonthlySeries(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	content, err := renderCSV(entries)
	if err != nil {
		return nil, err
	}
	return &CSVReport{
		Content:  content,
		FileName: "energy-last-12-months",
	}, nil
}

func renderCSV(entries []models.EnergyEntry) (string, error) {
	var buf strings.Builder
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return "", err
	}
	for _, e := range entries {
		row := []string{e.Date, e.PVPower, e.LoadPower, e.GridIn, e.GridOut, e.BatteryCharged, e.BatteryDischarged}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
