package models

import "time"

// MeteringEvidence documents the physical meter backing a tenant's readings.
type MeteringEvidence struct {
	ID            int64     `db:"id" json:"id"`
	UserID        int64     `db:"user_id" json:"user_id"`
	MeterBrand    string    `db:"meter_brand" json:"meter_brand"`
	MeterType     string    `db:"meter_type" json:"meter_type"`
	SerialNumber  string    `db:"serial_number" json:"serial_number"`
	EvidencePhoto string    `db:"evidence_photo" json:"evidence_photo"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
