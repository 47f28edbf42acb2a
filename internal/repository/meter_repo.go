package repository

import (
	"context"
	"database/sql"
	"errors"

	"solarhub/internal/models"
)

// ErrMeterNotFound represents a tenant without metering evidence on file.
var ErrMeterNotFound = errors.New("metering evidence not found")

// MeterRepository handles CRUD for metering evidence rows.
type MeterRepository struct {
	db *sql.DB
}

// NewMeterRepository returns repository instance.
func NewMeterRepository(db *sql.DB) *MeterRepository {
	return &MeterRepository{db: db}
}

// Create stores metering evidence for the tenant.
func (r *MeterRepository) Create(ctx context.Context, meter *models.MeteringEvidence) error {
	const query = `
		INSERT INTO metering_evidence (user_id, meter_brand, meter_type, serial_number, evidence_photo)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		meter.UserID,
		meter.MeterBrand,
		meter.MeterType,
		meter.SerialNumber,
		meter.EvidencePhoto,
	).Scan(&meter.ID, &meter.CreatedAt)
}

// FirstByUser returns the tenant's metering evidence.
func (r *MeterRepository) FirstByUser(ctx context.Context, userID int64) (*models.MeteringEvidence, error) {
	const query = `
		SELECT id, user_id, meter_brand, meter_type, serial_number, evidence_photo, created_at
		FROM metering_evidence
		WHERE user_id = $1
		ORDER BY id
		LIMIT 1
	`
	var meter models.MeteringEvidence
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&meter.ID,
		&meter.UserID,
		&meter.MeterBrand,
		&meter.MeterType,
		&meter.SerialNumber,
		&meter.EvidencePhoto,
		&meter.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMeterNotFound
		}
		return nil, err
	}
	return &meter, nil
}
