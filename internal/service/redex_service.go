package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"solarhub/internal/clients"
	"solarhub/internal/models"
)

// RedexStore defines registration-state storage used by RedexService.
type RedexStore interface {
	Create(ctx context.Context, info *models.RedexInformation) error
	FirstByUser(ctx context.Context, userID int64) (*models.RedexInformation, error)
	FirstByFileID(ctx context.Context, fileID string) (*models.RedexInformation, error)
	UpdateRemoteInvIDs(ctx context.Context, id int64, remoteInvIDs []string) error
	ListAll(ctx context.Context) ([]models.RedexInformation, error)
}

// RedexService orchestrates the certificate-registry integration: declaration
// uploads, grouped device registration and the recurring production push.
type RedexService struct {
	repo   RedexStore
	client *clients.RedexClient
	energy *EnergyService
	logger *zap.Logger
	now    func() time.Time
}

// NewRedexService returns service instance.
func NewRedexService(repo RedexStore, client *clients.RedexClient, energy *EnergyService, logger *zap.Logger) *RedexService {
	return &RedexService{
		repo:   repo,
		client: client,
		energy: energy,
		logger: logger,
		now:    time.Now,
	}
}

// UploadDeclaration submits a device declaration document to the registry and
// records the returned file id for the tenant.
func (s *RedexService) UploadDeclaration(ctx context.Context, userID int64, fileName, contentType string, content []byte) (*models.RedexInformation, error) {
	result, err := s.client.UploadDeviceFile(ctx, fileName, contentType, content)
	if err != nil {
		return nil, err
	}

	info := &models.RedexInformation{
		UserID:         userID,
		RedexFileID:    result.ID,
		ValidationCode: result.ValidationCode,
	}
	if err := s.repo.Create(ctx, info); err != nil {
		return nil, err
	}
	return info, nil
}

// RegisterGroupedDevices files the grouped application and stores the remote
// inverter ids against the matching declaration row.
func (s *RedexService) RegisterGroupedDevices(ctx context.Context, registration clients.GroupedRegistration) (*clients.RegistrationResult, error) {
	result, err := s.client.RegisterGroupedDevices(ctx, registration)
	if err != nil {
		return nil, err
	}

	var remoteInvIDs []string
	var fileID string
	for _, device := range registration.Devices {
		if fileID == "" {
			fileID = device.DeclarationFormFileID
		}
		for _, inverter := range device.Inverters {
			remoteInvIDs = append(remoteInvIDs, inverter.RemoteInvID)
		}
	}
	if fileID == "" {
		return result, nil
	}

	info, err := s.repo.FirstByFileID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateRemoteInvIDs(ctx, info.ID, remoteInvIDs); err != nil {
		return nil, err
	}
	return result, nil
}

// FileIDForUser returns the declaration file id recorded for the tenant.
func (s *RedexService) FileIDForUser(ctx context.Context, userID int64) (string, error) {
	info, err := s.repo.FirstByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	return info.RedexFileID, nil
}

// PushMonthlyData reports the current year's delta-adjusted PV production for
// every registered inverter across all tenants.
func (s *RedexService) PushMonthlyData(ctx context.Context) error {
	infos, err := s.repo.ListAll(ctx)
	if err != nil {
		return err
	}

	year := s.now().UTC().Year()
	var reports []clients.MonthlyGeneration
	for _, info := range infos {
		if len(info.RemoteInvIDs) == 0 {
			continue
		}
		production, err := s.energy.MonthlyPVProduction(ctx, info.UserID, year)
		if err != nil {
			s.logger.Warn("monthly production rollup failed",
				zap.Int64("user_id", info.UserID), zap.Error(err))
			continue
		}

		perMonth := make(map[string]float64, len(production))
		for month, total := range production {
			perMonth[month] = total.InexactFloat64()
		}
		for _, remoteInvID := range info.RemoteInvIDs {
			reports = append(reports, clients.MonthlyGeneration{
				RemoteInvID: remoteInvID,
				Data: clients.MonthlyGenerationData{
					Year:                          year,
					PeriodProductionPerMonthInKWh: perMonth,
				},
			})
		}
	}

	if len(reports) == 0 {
		s.logger.Debug("no registered inverters, skipping monthly push")
		return nil
	}

	return s.client.PushMonthlyGeneration(ctx, reports)
}
