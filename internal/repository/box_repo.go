package repository

import (
	"context"
	"database/sql"

	"solarhub/internal/models"
)

// BoxRepository handles CRUD for registered monitoring devices.
type BoxRepository struct {
	db *sql.DB
}

// NewBoxRepository returns repository instance.
func NewBoxRepository(db *sql.DB) *BoxRepository {
	return &BoxRepository{db: db}
}

// Create inserts a new box registration.
func (r *BoxRepository) Create(ctx context.Context, box *models.Box) error {
	const query = `
		INSERT INTO boxes (user_id, serial_number, photo_proof)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query, box.UserID, box.SerialNumber, box.PhotoProof).
		Scan(&box.ID, &box.CreatedAt)
}

// ListByUser returns all boxes registered by the tenant.
func (r *BoxRepository) ListByUser(ctx context.Context, userID int64) ([]models.Box, error) {
	const query = `
		SELECT id, user_id, serial_number, photo_proof, created_at
		FROM boxes
		WHERE user_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var boxes []models.Box
	for rows.Next() {
		var box models.Box
		if err := rows.Scan(&box.ID, &box.UserID, &box.SerialNumber, &box.PhotoProof, &box.CreatedAt); err != nil {
			return nil, err
		}
		boxes = append(boxes, box)
	}
	return boxes, rows.Err()
}
