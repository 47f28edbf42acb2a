package models

import "time"

// RedexInformation tracks a tenant's registration state with the Redex
// renewable-certificate registry.
type RedexInformation struct {
	ID             int64     `db:"id" json:"id"`
	UserID         int64     `db:"user_id" json:"user_id"`
	RedexFileID    string    `db:"redex_file_id" json:"redex_file_id"`
	ValidationCode string    `db:"validation_code" json:"validation_code"`
	RemoteInvIDs   []string  `db:"remote_inv_ids" json:"remote_inv_ids"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
