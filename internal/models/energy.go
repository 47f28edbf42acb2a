package models

import "time"

// EnergyTotal is a raw cumulative-counter sample recorded for one (port, day).
// The six counters are device lifetime totals stored as fixed-precision decimal
// strings; they only ever grow, resetting when hardware is replaced.
type EnergyTotal struct {
	ID                int64     `db:"id" json:"id"`
	UserID            int64     `db:"user_id" json:"user_id"`
	Port              string    `db:"port" json:"port"`
	Date              time.Time `db:"date" json:"date"`
	PVPower           string    `db:"pv_power" json:"pvPower"`
	LoadPower         string    `db:"load_power" json:"loadPower"`
	GridIn            string    `db:"grid_in" json:"gridIn"`
	GridOut           string    `db:"grid_out" json:"gridOut"`
	BatteryCharged    string    `db:"battery_charged" json:"batteryCharged"`
	BatteryDischarged string    `db:"battery_discharged" json:"batteryDischarged"`
}

// EnergyEntry is a derived bucket value: the six counters converted to the
// delta produced or consumed during that bucket. Date is rendered per
// granularity (2006-01-02 daily, 2006-01 monthly, 2006 yearly).
type EnergyEntry struct {
	Date              string `json:"date"`
	Port              string `json:"port"`
	PVPower           string `json:"pvPower"`
	LoadPower         string `json:"loadPower"`
	GridIn            string `json:"gridIn"`
	GridOut           string `json:"gridOut"`
	BatteryCharged    string `json:"batteryCharged"`
	BatteryDischarged string `json:"batteryDischarged"`
}
