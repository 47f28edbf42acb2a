package models

import "time"

// User represents a platform tenant account.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	Timezone     string    `db:"timezone" json:"timezone"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// UserPort links a tenant to a physical device channel readings are recorded against.
type UserPort struct {
	ID     int64  `db:"id" json:"id"`
	UserID int64  `db:"user_id" json:"user_id"`
	Port   string `db:"port" json:"port"`
}

// UserCredentials are machine credentials issued for device ingestion APIs.
type UserCredentials struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	ClientID     string    `db:"client_id" json:"client_id"`
	ClientSecret string    `db:"client_secret" json:"client_secret"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
