package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"solarhub/internal/models"
	"solarhub/internal/repository"
)

const (
	defaultWindowDays = 7
	monthlyWindow     = 12
	yearlyWindow      = 10

	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
	yearLayout  = "2006"
)

// ErrInvalidWindow is returned for malformed window parameters.
var ErrInvalidWindow = errors.New("energy: invalid window")

// EnergyReadings defines the read-only sample storage contract.
type EnergyReadings interface {
	FindInRange(ctx context.Context, userID int64, port string, from, toExclusive time.Time) ([]models.EnergyTotal, error)
	FindAllForUser(ctx context.Context, userID int64) ([]models.EnergyTotal, error)
}

// TenantDirectory supplies per-tenant lookups the normalization needs.
type TenantDirectory interface {
	GetTimezone(ctx context.Context, userID int64) (string, error)
	FirstPortForUser(ctx context.Context, userID int64) (string, error)
}

// EnergyService reconciles raw cumulative-counter samples into per-bucket
// delta series at day, month and year granularity. It holds no state between
// calls; entries are recomputed per request and never persisted.
type EnergyService struct {
	readings  EnergyReadings
	tenants   TenantDirectory
	defaultTZ string
	logger    *zap.Logger
	now       func() time.Time
}

// DailyOptions narrows a daily series request. Days is ignored when both From
// and To are set. From/To use the 2006-01-02 layout in the resolved timezone.
type DailyOptions struct {
	Days     int
	From     string
	To       string
	Timezone string
}

// NewEnergyService returns service instance.
func NewEnergyService(readings EnergyReadings, tenants TenantDirectory, defaultTZ string, logger *zap.Logger) *EnergyService {
	if defaultTZ == "" {
		defaultTZ = "Indian/Mauritius"
	}
	return &EnergyService{
		readings:  readings,
		tenants:   tenants,
		defaultTZ: defaultTZ,
		logger:    logger,
		now:       time.Now,
	}
}

// DailySeries returns one entry per calendar day of the requested window,
// newest first. Each entry carries the delta against the immediately preceding
// day; the oldest day with data but no baseline passes through raw, and days
// without data are zero-filled.
func (s *EnergyService) DailySeries(ctx context.Context, userID int64, opts DailyOptions) ([]models.EnergyEntry, error) {
	days := opts.Days
	if days == 0 {
		days = defaultWindowDays
	}
	if days < 1 {
		return nil, ErrInvalidWindow
	}

	loc, err := s.resolveLocation(ctx, userID, opts.Timezone)
	if err != nil {
		return nil, err
	}

	end := civilDay(s.now(), loc)
	start := end.AddDate(0, 0, -(days - 1))
	if opts.From != "" {
		if start, err = time.ParseInLocation(dayLayout, opts.From, loc); err != nil {
			return nil, ErrInvalidWindow
		}
	}
	if opts.To != "" {
		if end, err = time.ParseInLocation(dayLayout, opts.To, loc); err != nil {
			return nil, ErrInvalidWindow
		}
	}
	if start.After(end) {
		return nil, ErrInvalidWindow
	}

	port, err := s.lookupPort(ctx, userID)
	if err != nil {
		return nil, err
	}
	totals, err := s.readings.FindInRange(ctx, userID, port, start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	// Last write wins per day. Zero-valued rows count as "no data" when
	// selecting a day's own sample but remain valid delta baselines.
	byDay := make(map[string]models.EnergyTotal, len(totals))
	nonZero := make(map[string]models.EnergyTotal, len(totals))
	for _, t := range totals {
		key := t.Date.In(loc).Format(dayLayout)
		byDay[key] = t
		if !parseCounters(t).isZero() {
			nonZero[key] = t
		}
	}

	var entries []models.EnergyEntry
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format(dayLayout)
		sample, ok := nonZero[key]
		if !ok {
			entries = append(entries, zeroEntry(key, port))
			continue
		}
		baseline, ok := byDay[d.AddDate(0, 0, -1).Format(dayLayout)]
		if !ok {
			entries = append(entries, rawEntry(key, sample))
			continue
		}
		adjusted := parseCounters(sample).deltaFrom(parseCounters(baseline))
		entries = append(entries, entryFixed(key, sample.Port, adjusted, 2))
	}

	reverseEntries(entries)
	return entries, nil
}

// MonthlySeries returns the trailing 12 calendar months, newest first. Per-day
// deltas use the nearest preceding sample in sorted day order as baseline and
// are then summed per month; months without samples stay all zero.
func (s *EnergyService) MonthlySeries(ctx context.Context, userID int64, timezone string) ([]models.EnergyEntry, error) {
	loc, err := s.resolveLocation(ctx, userID, timezone)
	if err != nil {
		return nil, err
	}

	today := civilDay(s.now(), loc)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc)
	windowStart := monthStart.AddDate(0, -(monthlyWindow - 1), 0)
	windowEnd := monthStart.AddDate(0, 1, 0)

	port, err := s.lookupPort(ctx, userID)
	if err != nil {
		return nil, err
	}
	totals, err := s.readings.FindInRange(ctx, userID, port, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	dayKeys, deltas := adjustByPrecedingDay(totals, loc)

	monthKeys := make([]string, 0, monthlyWindow)
	months := make(map[string]counters, monthlyWindow)
	for i := 0; i < monthlyWindow; i++ {
		key := windowStart.AddDate(0, i, 0).Format(monthLayout)
		monthKeys = append(monthKeys, key)
		months[key] = counters{}
	}

	for i, dayKey := range dayKeys {
		monthKey := dayKey[:len(monthLayout)]
		if bucket, ok := months[monthKey]; ok {
			months[monthKey] = bucket.add(deltas[i])
		}
	}

	entries := make([]models.EnergyEntry, 0, monthlyWindow)
	for _, key := range monthKeys {
		entries = append(entries, entryFixed(key, port, months[key], 2))
	}
	reverseEntries(entries)
	return entries, nil
}

// YearlySeries returns the trailing 10 calendar years, newest first. Unlike
// the daily and monthly views, yearly buckets are plain sums of the raw
// cumulative counters with no delta adjustment across year boundaries.
func (s *EnergyService) YearlySeries(ctx context.Context, userID int64) ([]models.EnergyEntry, error) {
	loc, err := s.resolveLocation(ctx, userID, "")
	if err != nil {
		return nil, err
	}

	today := civilDay(s.now(), loc)
	yearStart := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, loc)
	windowStart := yearStart.AddDate(-(yearlyWindow - 1), 0, 0)
	windowEnd := yearStart.AddDate(1, 0, 0)

	port, err := s.lookupPort(ctx, userID)
	if err != nil {
		return nil, err
	}
	totals, err := s.readings.FindInRange(ctx, userID, port, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	yearKeys := make([]string, 0, yearlyWindow)
	years := make(map[string]counters, yearlyWindow)
	for i := 0; i < yearlyWindow; i++ {
		key := windowStart.AddDate(i, 0, 0).Format(yearLayout)
		yearKeys = append(yearKeys, key)
		years[key] = counters{}
	}

	for _, t := range totals {
		key := t.Date.In(loc).Format(yearLayout)
		if bucket, ok := years[key]; ok {
			years[key] = bucket.add(parseCounters(t))
		}
	}

	entries := make([]models.EnergyEntry, 0, yearlyWindow)
	for _, key := range yearKeys {
		entries = append(entries, entryExact(key, port, years[key]))
	}
	reverseEntries(entries)
	return entries, nil
}

// MonthlyPVProduction sums delta-adjusted PV production per calendar month of
// the given year, keyed by short month name, rounded to three places. Used by
// the certificate-registry push.
func (s *EnergyService) MonthlyPVProduction(ctx context.Context, userID int64, year int) (map[string]decimal.Decimal, error) {
	loc, err := s.resolveLocation(ctx, userID, "")
	if err != nil {
		return nil, err
	}

	totals, err := s.readings.FindAllForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	dayKeys, deltas := adjustByPrecedingDay(totals, loc)

	production := make(map[string]decimal.Decimal, 12)
	for m := time.January; m <= time.December; m++ {
		production[m.String()[:3]] = decimal.Zero
	}

	for i, dayKey := range dayKeys {
		day, err := time.ParseInLocation(dayLayout, dayKey, loc)
		if err != nil || day.Year() != year {
			continue
		}
		month := day.Month().String()[:3]
		production[month] = production[month].Add(deltas[i].pvPower)
	}

	for month, total := range production {
		production[month] = total.Round(3)
	}
	return production, nil
}

// adjustByPrecedingDay collapses samples to one per day (last write wins) and
// converts each day's counters into deltas against the nearest preceding day
// with data, which may be more than one day earlier when data is sparse. The
// first day in history passes through raw. Returned slices are parallel and
// ordered oldest first.
func adjustByPrecedingDay(totals []models.EnergyTotal, loc *time.Location) ([]string, []counters) {
	byDay := make(map[string]models.EnergyTotal, len(totals))
	for _, t := range totals {
		byDay[t.Date.In(loc).Format(dayLayout)] = t
	}

	keys := make([]string, 0, len(byDay))
	for key := range byDay {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	deltas := make([]counters, len(keys))
	for i, key := range keys {
		current := parseCounters(byDay[key])
		if i == 0 {
			deltas[i] = current
			continue
		}
		deltas[i] = current.deltaFrom(parseCounters(byDay[keys[i-1]]))
	}
	return keys, deltas
}

// resolveLocation applies the timezone fallback chain: explicit override,
// tenant preference, configured default. A missing tenant profile is not an
// error; storage failures propagate.
func (s *EnergyService) resolveLocation(ctx context.Context, userID int64, override string) (*time.Location, error) {
	if override != "" {
		if loc, err := time.LoadLocation(override); err == nil {
			return loc, nil
		}
	}

	stored, err := s.tenants.GetTimezone(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}
	if stored != "" {
		if loc, err := time.LoadLocation(stored); err == nil {
			return loc, nil
		}
		s.logger.Warn("invalid stored timezone, using default",
			zap.Int64("user_id", userID), zap.String("timezone", stored))
	}

	loc, err := time.LoadLocation(s.defaultTZ)
	if err != nil {
		return time.UTC, nil
	}
	return loc, nil
}

// lookupPort returns the tenant's device port, or "" when none is registered;
// a tenant without ports still gets a full zero-filled series.
func (s *EnergyService) lookupPort(ctx context.Context, userID int64) (string, error) {
	port, err := s.tenants.FirstPortForUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrPortNotFound) {
			return "", nil
		}
		return "", err
	}
	return port, nil
}

func civilDay(t time.Time, loc *time.Location) time.Time {
	year, month, day := t.In(loc).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}
