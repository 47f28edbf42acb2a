package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"solarhub/internal/models"
)

// ErrUserNotFound represents missing user rows.
var ErrUserNotFound = errors.New("user not found")

// ErrPortNotFound represents a tenant without a registered device port.
var ErrPortNotFound = errors.New("user port not found")

// UserRepository handles CRUD for users, their ports and API credentials.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository returns repository instance.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	const query = `
		INSERT INTO users (email, password_hash, role, timezone)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query, user.Email, user.PasswordHash, user.Role, user.Timezone).
		Scan(&user.ID, &user.CreatedAt)
}

// GetByEmail fetches a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const query = `
		SELECT id, email, password_hash, role, COALESCE(timezone, ''), created_at
		FROM users
		WHERE email = $1
		LIMIT 1
	`
	row := r.db.QueryRowContext(ctx, query, strings.ToLower(strings.TrimSpace(email)))
	return scanUser(row)
}

// GetByID fetches a user by primary key.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	const query = `
		SELECT id, email, password_hash, role, COALESCE(timezone, ''), created_at
		FROM users
		WHERE id = $1
		LIMIT 1
	`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	const query = `
		UPDATE users
		SET password_hash = $2
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, userID, passwordHash)
	if err != nil {
		return err
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// GetTimezone returns the tenant's stored timezone preference.
func (r *UserRepository) GetTimezone(ctx context.Context, userID int64) (string, error) {
	const query = `
		SELECT COALESCE(timezone, '')
		FROM users
		WHERE id = $1
		LIMIT 1
	`
	var tz string
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&tz); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	return tz, nil
}

// FirstPortForUser returns the first device port registered for the tenant.
func (r *UserRepository) FirstPortForUser(ctx context.Context, userID int64) (string, error) {
	const query = `
		SELECT port
		FROM user_ports
		WHERE user_id = $1
		ORDER BY id
		LIMIT 1
	`
	var port string
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&port); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrPortNotFound
		}
		return "", err
	}
	return port, nil
}

// GetCredentials returns the tenant's API credentials if issued.
func (r *UserRepository) GetCredentials(ctx context.Context, userID int64) (*models.UserCredentials, error) {
	const query = `
		SELECT id, user_id, client_id, client_secret, created_at
		FROM user_credentials
		WHERE user_id = $1
		LIMIT 1
	`
	var creds models.UserCredentials
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&creds.ID, &creds.UserID, &creds.ClientID, &creds.ClientSecret, &creds.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &creds, nil
}

// CreateCredentials stores newly issued API credentials.
func (r *UserRepository) CreateCredentials(ctx context.Context, creds *models.UserCredentials) error {
	const query = `
		INSERT INTO user_credentials (user_id, client_id, client_secret)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query, creds.UserID, creds.ClientID, creds.ClientSecret).
		Scan(&creds.ID, &creds.CreatedAt)
}

func scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Role, &user.Timezone, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
