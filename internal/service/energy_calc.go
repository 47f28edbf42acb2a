package service

import (
	"github.com/shopspring/decimal"

	"solarhub/internal/models"
)

// counters carries the six cumulative metrics of a sample as decimals so all
// arithmetic stays fixed-point; strings are produced only at the boundary.
type counters struct {
	pvPower           decimal.Decimal
	loadPower         decimal.Decimal
	gridIn            decimal.Decimal
	gridOut           decimal.Decimal
	batteryCharged    decimal.Decimal
	batteryDischarged decimal.Decimal
}

func parseCounters(t models.EnergyTotal) counters {
	return counters{
		pvPower:           parseDecimal(t.PVPower),
		loadPower:         parseDecimal(t.LoadPower),
		gridIn:            parseDecimal(t.GridIn),
		gridOut:           parseDecimal(t.GridOut),
		batteryCharged:    parseDecimal(t.BatteryCharged),
		batteryDischarged: parseDecimal(t.BatteryDischarged),
	}
}

// parseDecimal treats empty or malformed values as zero, the same way the
// ingestion side records absent counters.
func parseDecimal(value string) decimal.Decimal {
	if value == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// deltaOrRetain converts a cumulative reading into a period delta. A counter
// that did not grow signals a device reset, in which case the raw reading is
// trusted as the bucket's own production instead of emitting a negative delta.
func deltaOrRetain(today, previous decimal.Decimal) decimal.Decimal {
	if today.GreaterThan(previous) {
		return today.Sub(previous)
	}
	return today
}

func (c counters) deltaFrom(previous counters) counters {
	return counters{
		pvPower:           deltaOrRetain(c.pvPower, previous.pvPower),
		loadPower:         deltaOrRetain(c.loadPower, previous.loadPower),
		gridIn:            deltaOrRetain(c.gridIn, previous.gridIn),
		gridOut:           deltaOrRetain(c.gridOut, previous.gridOut),
		batteryCharged:    deltaOrRetain(c.batteryCharged, previous.batteryCharged),
		batteryDischarged: deltaOrRetain(c.batteryDischarged, previous.batteryDischarged),
	}
}

func (c counters) add(other counters) counters {
	return counters{
		pvPower:           c.pvPower.Add(other.pvPower),
		loadPower:         c.loadPower.Add(other.loadPower),
		gridIn:            c.gridIn.Add(other.gridIn),
		gridOut:           c.gridOut.Add(other.gridOut),
		batteryCharged:    c.batteryCharged.Add(other.batteryCharged),
		batteryDischarged: c.batteryDischarged.Add(other.batteryDischarged),
	}
}

func (c counters) isZero() bool {
	return c.pvPower.IsZero() &&
		c.loadPower.IsZero() &&
		c.gridIn.IsZero() &&
		c.gridOut.IsZero() &&
		c.batteryCharged.IsZero() &&
		c.batteryDischarged.IsZero()
}

// entryFixed renders the counters with a fixed number of decimal places.
func entryFixed(date, port string, c counters, places int32) models.EnergyEntry {
	return models.EnergyEntry{
		Date:              date,
		Port:              port,
		PVPower:           c.pvPower.StringFixed(places),
		LoadPower:         c.loadPower.StringFixed(places),
		GridIn:            c.gridIn.StringFixed(places),
		GridOut:           c.gridOut.StringFixed(places),
		BatteryCharged:    c.batteryCharged.StringFixed(places),
		BatteryDischarged: c.batteryDischarged.StringFixed(places),
	}
}

// entryExact renders the counters without rounding.
func entryExact(date, port string, c counters) models.EnergyEntry {
	return models.EnergyEntry{
		Date:              date,
		Port:              port,
		PVPower:           c.pvPower.String(),
		LoadPower:         c.loadPower.String(),
		GridIn:            c.gridIn.String(),
		GridOut:           c.gridOut.String(),
		BatteryCharged:    c.batteryCharged.String(),
		BatteryDischarged: c.batteryDischarged.String(),
	}
}

// zeroEntry synthesizes the placeholder emitted for buckets with no data.
func zeroEntry(date, port string) models.EnergyEntry {
	return models.EnergyEntry{
		Date:              date,
		Port:              port,
		PVPower:           "0",
		LoadPower:         "0",
		GridIn:            "0",
		GridOut:           "0",
		BatteryCharged:    "0",
		BatteryDischarged: "0",
	}
}

// rawEntry passes a sample through untouched, used when no baseline exists.
func rawEntry(date string, t models.EnergyTotal) models.EnergyEntry {
	return models.EnergyEntry{
		Date:              date,
		Port:              t.Port,
		PVPower:           t.PVPower,
		LoadPower:         t.LoadPower,
		GridIn:            t.GridIn,
		GridOut:           t.GridOut,
		BatteryCharged:    t.BatteryCharged,
		BatteryDischarged: t.BatteryDischarged,
	}
}

func reverseEntries(entries []models.EnergyEntry) {
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
}
