package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"solarhub/internal/http/middleware"
	"solarhub/internal/models"
	"solarhub/internal/service"
)

type stubReadings struct{}

func (stubReadings) FindInRange(context.Context, int64, string, time.Time, time.Time) ([]models.EnergyTotal, error) {
	return nil, nil
}

func (stubReadings) FindAllForUser(context.Context, int64) ([]models.EnergyTotal, error) {
	return nil, nil
}

type stubTenants struct{}

func (stubTenants) GetTimezone(context.Context, int64) (string, error)      { return "UTC", nil }
func (stubTenants) FirstPortForUser(context.Context, int64) (string, error) { return "P1", nil }

func newEnergyService() *service.EnergyService {
	return service.NewEnergyService(stubReadings{}, stubTenants{}, "UTC", zap.NewNop())
}

// serveAuthed routes the request through the auth middleware with a freshly
// issued token so handlers see a user id on the context.
func serveAuthed(handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	tokens := service.NewTokenService("secret", time.Hour)
	token, _, _ := tokens.GenerateToken(42, "user")
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	middleware.Auth(tokens, nil)(handler).ServeHTTP(rec, req)
	return rec
}

func TestEnergyDataHandlerReturnsWindow(t *testing.T) {
	handler := NewEnergyDataHandler(newEnergyService(), 7)

	rec := serveAuthed(handler, httptest.NewRequest(http.MethodGet, "/energy/energy-data", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []models.EnergyEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	assert.Len(t, entries, 7)
}

func TestEnergyDataHandlerRejectsBadWindow(t *testing.T) {
	handler := NewEnergyDataHandler(newEnergyService(), 7)

	rec := serveAuthed(handler, httptest.NewRequest(http.MethodGet, "/energy/energy-data?from=garbage", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEnergyDataHandlerRequiresAuth(t *testing.T) {
	handler := NewEnergyDataHandler(newEnergyService(), 7)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/energy/energy-data", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDailyCSVHandlerSetsAttachmentHeaders(t *testing.T) {
	handler := NewDailyCSVHandler(newEnergyService(), 7)

	rec := serveAuthed(handler, httptest.NewRequest(http.MethodGet, "/reports/download/csv/7", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=energy-last-7-days.csv", rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Body.String(), "Date,PV Power")
}

func TestMonthlyTotalsHandler(t *testing.T) {
	handler := NewMonthlyTotalsHandler(newEnergyService())

	rec := serveAuthed(handler, httptest.NewRequest(http.MethodGet, "/energy/total/12", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []models.EnergyEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	assert.Len(t, entries, 12)
}
