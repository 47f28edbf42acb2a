package service

import (
	"context"
	"errors"
	"strings"

	"solarhub/internal/models"
)

// MeterStore defines storage used by MeterService.
type MeterStore interface {
	Create(ctx context.Context, meter *models.MeteringEvidence) error
	FirstByUser(ctx context.Context, userID int64) (*models.MeteringEvidence, error)
}

// MeterService records the metering evidence backing a tenant's readings.
type MeterService struct {
	repo MeterStore
}

// NewMeterService returns service instance.
func NewMeterService(repo MeterStore) *MeterService {
	return &MeterService{repo: repo}
}

// Add stores metering evidence for the tenant.
func (s *MeterService) Add(ctx context.Context, userID int64, meter models.MeteringEvidence) (*models.MeteringEvidence, error) {
	if strings.TrimSpace(meter.SerialNumber) == "" {
		return nil, errors.New("meter: serial number required")
	}
	meter.UserID = userID
	if err := s.repo.Create(ctx, &meter); err != nil {
		return nil, err
	}
	return &meter, nil
}

// Get returns the tenant's metering evidence.
func (s *MeterService) Get(ctx context.Context, userID int64) (*models.MeteringEvidence, error) {
	return s.repo.FirstByUser(ctx, userID)
}
