package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"

	"go.uber.org/zap"

	"solarhub/internal/models"
	"solarhub/internal/password"
	"solarhub/internal/repository"
)

// UserProfiles defines storage used by UserService.
type UserProfiles interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	GetCredentials(ctx context.Context, userID int64) (*models.UserCredentials, error)
	CreateCredentials(ctx context.Context, creds *models.UserCredentials) error
}

// UserService covers profile-level operations: password reset and machine
// credential issuance for device ingestion.
type UserService struct {
	repo   UserProfiles
	hasher password.Hasher
	logger *zap.Logger
}

// NewUserService returns service instance.
func NewUserService(repo UserProfiles, hasher password.Hasher, logger *zap.Logger) *UserService {
	return &UserService{repo: repo, hasher: hasher, logger: logger}
}

// ResetPassword replaces the tenant's password.
func (s *UserService) ResetPassword(ctx context.Context, userID int64, newPassword string) error {
	if newPassword == "" {
		return errors.New("user: password required")
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}
	s.logger.Info("password reset", zap.Int64("user_id", userID))
	return nil
}

// GenerateCredentials returns the tenant's API credentials, issuing a fresh
// client id/secret pair on first call.
func (s *UserService) GenerateCredentials(ctx context.Context, userID int64) (*models.UserCredentials, error) {
	creds, err := s.repo.GetCredentials(ctx, userID)
	if err == nil {
		return creds, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	clientID, err := randomHex(16)
	if err != nil {
		return nil, err
	}
	clientSecret, err := randomHex(32)
	if err != nil {
		return nil, err
	}

	creds = &models.UserCredentials{
		UserID:       userID,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	}
	if err := s.repo.CreateCredentials(ctx, creds); err != nil {
		return nil, err
	}
	s.logger.Info("api credentials issued", zap.Int64("user_id", userID))
	return creds, nil
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
