package repository

import (
	"context"
	"database/sql"
	"time"

	"solarhub/internal/models"
)

// EnergyRepository reads raw cumulative-counter samples. The normalization
// engine never writes; ingestion happens upstream.
type EnergyRepository struct {
	db *sql.DB
}

// NewEnergyRepository returns repository instance.
func NewEnergyRepository(db *sql.DB) *EnergyRepository {
	return &EnergyRepository{db: db}
}

// FindInRange returns samples matched by owner OR port whose bucket timestamp
// falls inside [from, toExclusive). Rows come back in ascending date order.
func (r *EnergyRepository) FindInRange(ctx context.Context, userID int64, port string, from, toExclusive time.Time) ([]models.EnergyTotal, error) {
	const query = `
		SELECT id, user_id, COALESCE(port, ''), date,
		       pv_power, load_power, grid_in, grid_out, battery_charged, battery_discharged
		FROM total_energy
		WHERE (user_id = $1 OR ($2 <> '' AND port = $2))
		  AND date >= $3 AND date < $4
		ORDER BY date
	`
	rows, err := r.db.QueryContext(ctx, query, userID, port, from, toExclusive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []models.EnergyTotal
	for rows.Next() {
		var t models.EnergyTotal
		if err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.Port,
			&t.Date,
			&t.PVPower,
			&t.LoadPower,
			&t.GridIn,
			&t.GridOut,
			&t.BatteryCharged,
			&t.BatteryDischarged,
		); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// FindAllForUser returns every sample recorded for the tenant, ascending by date.
func (r *EnergyRepository) FindAllForUser(ctx context.Context, userID int64) ([]models.EnergyTotal, error) {
	const query = `
		SELECT id, user_id, COALESCE(port, ''), date,
		       pv_power, load_power, grid_in, grid_out, battery_charged, battery_discharged
		FROM total_energy
		WHERE user_id = $1
		ORDER BY date
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []models.EnergyTotal
	for rows.Next() {
		var t models.EnergyTotal
		if err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.Port,
			&t.Date,
			&t.PVPower,
			&t.LoadPower,
			&t.GridIn,
			&t.GridOut,
			&t.BatteryCharged,
			&t.BatteryDischarged,
		); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}
