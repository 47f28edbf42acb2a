package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"solarhub/internal/events"
	"solarhub/internal/models"
)

// BoxStore defines storage used by BoxService.
type BoxStore interface {
	Create(ctx context.Context, box *models.Box) error
	ListByUser(ctx context.Context, userID int64) ([]models.Box, error)
}

// BoxService handles monitoring-device registration.
type BoxService struct {
	repo   BoxStore
	bus    events.Publisher
	logger *zap.Logger
}

// NewBoxService returns service instance.
func NewBoxService(repo BoxStore, bus events.Publisher, logger *zap.Logger) *BoxService {
	return &BoxService{repo: repo, bus: bus, logger: logger}
}

// Register records a new box for the tenant.
func (s *BoxService) Register(ctx context.Context, userID int64, serialNumber, photoProof string) (*models.Box, error) {
	serialNumber = strings.TrimSpace(serialNumber)
	if serialNumber == "" {
		return nil, errors.New("box: serial number required")
	}

	box := &models.Box{
		UserID:       userID,
		SerialNumber: serialNumber,
		PhotoProof:   photoProof,
	}
	if err := s.repo.Create(ctx, box); err != nil {
		return nil, err
	}

	if s.bus != nil {
		s.bus.Publish(events.BoxRegistered{
			UserID:       userID,
			BoxID:        box.ID,
			SerialNumber: box.SerialNumber,
			At:           time.Now().UTC(),
		})
	}

	s.logger.Info("box registered", zap.Int64("user_id", userID), zap.String("serial_number", serialNumber))
	return box, nil
}

// List returns all boxes the tenant registered.
func (s *BoxService) List(ctx context.Context, userID int64) ([]models.Box, error) {
	return s.repo.ListByUser(ctx, userID)
}
