package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"solarhub/internal/models"
)

// ErrRedexInfoNotFound represents missing registry registration rows.
var ErrRedexInfoNotFound = errors.New("redex information not found")

// RedexRepository persists Redex registry registration state. Remote inverter
// ids are stored as a jsonb array.
type RedexRepository struct {
	db *sql.DB
}

// NewRedexRepository returns repository instance.
func NewRedexRepository(db *sql.DB) *RedexRepository {
	return &RedexRepository{db: db}
}

// Create records a device declaration file uploaded for the tenant.
func (r *RedexRepository) Create(ctx context.Context, info *models.RedexInformation) error {
	const query = `
		INSERT INTO redex_information (user_id, redex_file_id, validation_code, remote_inv_ids)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	ids, err := json.Marshal(info.RemoteInvIDs)
	if err != nil {
		return err
	}
	return r.db.QueryRowContext(ctx, query, info.UserID, info.RedexFileID, info.ValidationCode, ids).
		Scan(&info.ID, &info.CreatedAt)
}

// FirstByUser returns the tenant's registration row.
func (r *RedexRepository) FirstByUser(ctx context.Context, userID int64) (*models.RedexInformation, error) {
	const query = `
		SELECT id, user_id, redex_file_id, validation_code, remote_inv_ids, created_at
		FROM redex_information
		WHERE user_id = $1
		ORDER BY id
		LIMIT 1
	`
	return scanRedexInfo(r.db.QueryRowContext(ctx, query, userID))
}

// FirstByFileID returns the registration row for an uploaded declaration file.
func (r *RedexRepository) FirstByFileID(ctx context.Context, fileID string) (*models.RedexInformation, error) {
	const query = `
		SELECT id, user_id, redex_file_id, validation_code, remote_inv_ids, created_at
		FROM redex_information
		WHERE redex_file_id = $1
		ORDER BY id
		LIMIT 1
	`
	return scanRedexInfo(r.db.QueryRowContext(ctx, query, fileID))
}

// UpdateRemoteInvIDs replaces the registered inverter ids for a row.
func (r *RedexRepository) UpdateRemoteInvIDs(ctx context.Context, id int64, remoteInvIDs []string) error {
	const query = `
		UPDATE redex_information
		SET remote_inv_ids = $2
		WHERE id = $1
	`
	ids, err := json.Marshal(remoteInvIDs)
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx, query, id, ids)
	if err != nil {
		return err
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrRedexInfoNotFound
	}
	return nil
}

// ListAll returns every registration row across tenants.
func (r *RedexRepository) ListAll(ctx context.Context) ([]models.RedexInformation, error) {
	const query = `
		SELECT id, user_id, redex_file_id, validation_code, remote_inv_ids, created_at
		FROM redex_information
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []models.RedexInformation
	for rows.Next() {
		var info models.RedexInformation
		var rawIDs []byte
		if err := rows.Scan(&info.ID, &info.UserID, &info.RedexFileID, &info.ValidationCode, &rawIDs, &info.CreatedAt); err != nil {
			return nil, err
		}
		if len(rawIDs) > 0 {
			if err := json.Unmarshal(rawIDs, &info.RemoteInvIDs); err != nil {
				return nil, err
			}
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

func scanRedexInfo(row *sql.Row) (*models.RedexInformation, error) {
	var info models.RedexInformation
	var rawIDs []byte
	err := row.Scan(&info.ID, &info.UserID, &info.RedexFileID, &info.ValidationCode, &rawIDs, &info.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRedexInfoNotFound
		}
		return nil, err
	}
	if len(rawIDs) > 0 {
		if err := json.Unmarshal(rawIDs, &info.RemoteInvIDs); err != nil {
			return nil, err
		}
	}
	return &info, nil
}
