package models

import "time"

// Box represents a registered monitoring device installed at a tenant site.
type Box struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	SerialNumber string    `db:"serial_number" json:"serial_number"`
	PhotoProof   string    `db:"photo_proof" json:"photo_proof"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
