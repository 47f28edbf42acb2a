package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"solarhub/internal/models"
	"solarhub/internal/repository"
)

type fakeReadings struct {
	totals []models.EnergyTotal
	err    error
}

func (f *fakeReadings) FindInRange(_ context.Context, _ int64, _ string, from, toExclusive time.Time) ([]models.EnergyTotal, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.EnergyTotal
	for _, t := range f.totals {
		if !t.Date.Before(from) && t.Date.Before(toExclusive) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeReadings) FindAllForUser(context.Context, int64) ([]models.EnergyTotal, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.totals, nil
}

type fakeTenants struct {
	timezone string
	tzErr    error
	port     string
	portErr  error
}

func (f *fakeTenants) GetTimezone(context.Context, int64) (string, error) {
	return f.timezone, f.tzErr
}

func (f *fakeTenants) FirstPortForUser(context.Context, int64) (string, error) {
	if f.portErr != nil {
		return "", f.portErr
	}
	return f.port, nil
}

// All tests run against a frozen clock so windows are deterministic.
var testNow = time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

func newTestService(tenants *fakeTenants, totals ...models.EnergyTotal) (*EnergyService, *fakeReadings) {
	readings := &fakeReadings{totals: totals}
	svc := NewEnergyService(readings, tenants, "UTC", zap.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc, readings
}

func utcTenant() *fakeTenants {
	return &fakeTenants{timezone: "UTC", port: "P1"}
}

// sample builds one cumulative reading with every counter set to value. The
// timestamp may carry a clock time to exercise timezone bucketing.
func sample(ts string, value string) models.EnergyTotal {
	layout := "2006-01-02"
	if strings.Contains(ts, "T") {
		layout = time.RFC3339
	}
	date, err := time.Parse(layout, ts)
	if err != nil {
		panic(err)
	}
	return models.EnergyTotal{
		UserID:            1,
		Port:              "P1",
		Date:              date,
		PVPower:           value,
		LoadPower:         value,
		GridIn:            value,
		GridOut:           value,
		BatteryCharged:    value,
		BatteryDischarged: value,
	}
}

func entryByDate(t *testing.T, entries []models.EnergyEntry, date string) models.EnergyEntry {
	t.Helper()
	for _, e := range entries {
		if e.Date == date {
			return e
		}
	}
	t.Fatalf("no entry for date %s", date)
	return models.EnergyEntry{}
}

func TestDailySeriesAdjustsAgainstPrecedingDay(t *testing.T) {
	svc, _ := newTestService(utcTenant(),
		sample("2026-02-01", "100"),
		sample("2026-02-02", "150.5"),
	)

	entries, err := svc.DailySeries(context.Background(), 1, DailyOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 7)

	// Newest first.
	assert.Equal(t, "2026-02-07", entries[0].Date)
	assert.Equal(t, "2026-02-01", entries[6].Date)

	// Oldest in-window day has no baseline and passes through raw.
	first := entryByDate(t, entries, "2026-02-01")
	assert.Equal(t, "100", first.PVPower)

	adjusted := entryByDate(t, entries, "2026-02-02")
	assert.Equal(t, "50.50", adjusted.PVPower)
	assert.Equal(t, "50.50", adjusted.BatteryDischarged)

	// Days without data are zero-filled.
	assert.Equal(t, "0", entries[0].PVPower)
}

func TestDailySeriesCounterResetRetainsRaw(t *testing.T) {
	svc, _ := newTestService(utcTenant(),
		sample("2026-02-01", "100"),
		sample("2026-02-02", "40"),
	)

	entries, err := svc.DailySeries(context.Background(), 1, DailyOptions{})
	require.NoError(t, err)

	// Counter went backwards, the raw reading is trusted instead of a
	// negative delta.
	assert.Equal(t, "40.00", entryByDate(t, entries, "2026-02-02").PVPower)
}

func TestDailySeriesZeroRowIsNoDataButStillBaseline(t *testing.T) {
	svc, _ := newTestService(utcTenant(),
		sample("2026-02-02", "0"),
		sample("2026-02-03", "150"),
	)

	entries, err := svc.DailySeries(context.Background(), 1, DailyOptions{})
	require.NoError(t, err)

	// The all-zero row does not count as that day's sample.
	assert.Equal(t, "0", entryByDate(t, entries, "2026-02-02").PVPower)
	// It still anchors the next day's delta.
	assert.Equal(t, "150.00", entryByDate(t, entries, "2026-02-03").PVPower)
}

func TestDailySeriesLastWriteWinsPerDay(t *testing.T) {
	svc, _ := newTestService(utcTenant(),
		sample("2026-02-01", "100"),
		sample("2026-02-02", "120"),
		sample("2026-02-02", "150"),
	)

	entries, err := svc.DailySeries(context.Background(), 1, DailyOptions{})
	require.NoError(t, err)

	assert.Equal(t, "50.00", entryByDate(t, entries, "2026-02-02").PVPower)
}

func TestDailySeriesExplicitWindow(t *testing.T) {
	svc, _ := newTestService(utcTenant())

	entries, err := svc.DailySeries(context.Background(), 1, DailyOptions{
		From: "2026-01-01",
		To:   "2026-01-03",
	})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "2026-01-03", entries[0].Date)
	assert.Equal(t, "2026-01-01", entries[2].Date)
}

func TestDailySeriesInvalidWindow(t *testing.T) {
	svc, _ := newTestService(utcTenant())

	_, err := svc.DailySeries(context.Background(), 1, DailyOptions{From: "not-a-date"})
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = svc.DailySeries(context.Background(), 1, DailyOptions{From: "2026-02-05", To: "2026-02-01"})
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = svc.DailySeries(context.Background(), 1, DailyOptions{Days: -1})
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestDailySeriesTimezoneOverride(t *testing.T) {
	svc, _ := newTestService(utcTenant(),
		sample("2026-02-06T20:00:00Z", "100"),
	)

	entries, err := svc.DailySeries(context.Background(), 1, DailyOptions{Timezone: "Pacific/Auckland"})
	require.NoError(t, err)

	// 20:00 UTC is already the next day in Auckland.
	assert.Equal(t, "100", entryByDate(t, entries, "2026-02-07").PVPower)
	assert.Equal(t, "2026-02-08", entries[0].Date)
}

func TestDailySeriesWithoutPortStillZeroFills(t *testing.T) {
	tenants := utcTenant()
	tenants.port = ""
	tenants.portErr = repository.ErrPortNotFound
	svc, _ := newTestService(tenants)

	entries, err := svc.DailySeries(context.Background(), 1, DailyOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 7)
	for _, e := range entries {
		assert.Equal(t, "0", e.PVPower)
		assert.Empty(t, e.Port)
	}
}

func TestDailySeriesPropagatesLookupFailures(t *testing.T) {
	boom := errors.New("storage down")

	tenants := utcTenant()
	tenants.tzErr = boom
	svc, _ := newTestService(tenants)
	_, err := svc.DailySeries(context.Background(), 1, DailyOptions{})
	assert.ErrorIs(t, err, boom)

	tenants = utcTenant()
	tenants.portErr = boom
	svc, _ = newTestService(tenants)
	_, err = svc.DailySeries(context.Background(), 1, DailyOptions{})
	assert.ErrorIs(t, err, boom)

	svc, readings := newTestService(utcTenant())
	readings.err = boom
	_, err = svc.DailySeries(context.Background(), 1, DailyOptions{})
	assert.ErrorIs(t, err, boom)
}

func TestDailySeriesMissingTenantFallsBackToDefault(t *testing.T) {
	tenants := &fakeTenants{tzErr: repository.ErrUserNotFound, portErr: repository.ErrPortNotFound}
	svc, _ := newTestService(tenants)

	entries, err := svc.DailySeries(context.Background(), 1, DailyOptions{})
	require.NoError(t, err)
	assert.Len(t, entries, 7)
}

func TestMonthlySeriesSumsAdjustedDays(t *testing.T) {
	svc, _ := newTestService(utcTenant(),
		sample("2026-01-10", "100"),
		sample("2026-01-11", "150"),
		sample("2026-02-01", "170"),
	)

	entries, err := svc.MonthlySeries(context.Background(), 1, "")
	require.NoError(t, err)
	require.Len(t, entries, 12)

	assert.Equal(t, "2026-02", entries[0].Date)
	assert.Equal(t, "2025-03", entries[11].Date)

	// January: raw 100 for the first day in history plus a 50 delta.
	assert.Equal(t, "150.00", entryByDate(t, entries, "2026-01").PVPower)
	// February: delta against the last January sample.
	assert.Equal(t, "20.00", entryByDate(t, entries, "2026-02").PVPower)
	// Untouched months stay zero.
	assert.Equal(t, "0.00", entryByDate(t, entries, "2025-03").PVPower)
}

func TestMonthlySeriesBaselineCrossesGaps(t *testing.T) {
	svc, _ := newTestService(utcTenant(),
		sample("2025-12-01", "100"),
		sample("2026-02-01", "130"),
	)

	entries, err := svc.MonthlySeries(context.Background(), 1, "")
	require.NoError(t, err)

	assert.Equal(t, "100.00", entryByDate(t, entries, "2025-12").PVPower)
	// Nearest preceding sample is two months back.
	assert.Equal(t, "30.00", entryByDate(t, entries, "2026-02").PVPower)
	assert.Equal(t, "0.00", entryByDate(t, entries, "2026-01").PVPower)
}

func TestYearlySeriesSumsRawCounters(t *testing.T) {
	svc, _ := newTestService(utcTenant(),
		sample("2026-01-10", "100"),
		sample("2026-02-01", "150.5"),
	)

	entries, err := svc.YearlySeries(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 10)

	assert.Equal(t, "2026", entries[0].Date)
	assert.Equal(t, "2017", entries[9].Date)

	// Yearly buckets sum the raw cumulative readings without adjustment.
	assert.Equal(t, "250.5", entries[0].PVPower)
	assert.Equal(t, "0", entries[1].PVPower)
}

func TestMonthlyPVProduction(t *testing.T) {
	svc, _ := newTestService(utcTenant(),
		sample("2025-12-31", "90"),
		sample("2026-01-10", "100"),
		sample("2026-01-11", "150"),
	)

	production, err := svc.MonthlyPVProduction(context.Background(), 1, 2026)
	require.NoError(t, err)
	require.Len(t, production, 12)

	// Dec 31 anchors the baseline but belongs to 2025: Jan = (100-90) + (150-100).
	assert.True(t, production["Jan"].Equal(decimal.RequireFromString("60")),
		"Jan = %s", production["Jan"])
	assert.True(t, production["Feb"].IsZero())
}
