package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"solarhub/internal/events"
	"solarhub/internal/models"
	"solarhub/internal/password"
	"solarhub/internal/redisstore"
	"solarhub/internal/repository"
)

var (
	// ErrEmailInUse is returned when attempting to register a duplicate email.
	ErrEmailInUse = errors.New("auth: email already registered")
	// ErrInvalidCredentials represents login failure.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
)

// UserAccounts defines the storage contract used by the service.
type UserAccounts interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// SessionRegistry tracks active sessions so tokens can be revoked.
type SessionRegistry interface {
	Save(ctx context.Context, session redisstore.Session) error
	Delete(ctx context.Context, tokenID string) error
}

// AuthService contains registration and login logic.
type AuthService struct {
	repo      UserAccounts
	hasher    password.Hasher
	tokenizer *TokenService
	sessions  SessionRegistry
	bus       events.Publisher
	logger    *zap.Logger
}

// NewAuthService builds AuthService.
func NewAuthService(repo UserAccounts, hasher password.Hasher, tokenizer *TokenService, sessions SessionRegistry, bus events.Publisher, logger *zap.Logger) *AuthService {
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		tokenizer: tokenizer,
		sessions:  sessions,
		bus:       bus,
		logger:    logger,
	}
}

// Signup registers a new tenant account.
func (s *AuthService) Signup(ctx context.Context, email, plainPassword, role, timezone string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, errors.New("auth: email required")
	}
	if plainPassword == "" {
		return nil, errors.New("auth: password required")
	}
	if role == "" {
		role = "user"
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(plainPassword)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Timezone:     timezone,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user signed up", zap.Int64("user_id", user.ID), zap.String("email", user.Email))
	return user, nil
}

// Login authenticates a user, produces a JWT and registers a revocable session.
func (s *AuthService) Login(ctx context.Context, email, plainPassword string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || plainPassword == "" {
		return "", nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, plainPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, claims, err := s.tokenizer.GenerateToken(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}

	if s.sessions != nil {
		session := redisstore.Session{
			TokenID:  claims.ID,
			UserID:   user.ID,
			Email:    user.Email,
			IssuedAt: time.Now().UTC(),
		}
		if err := s.sessions.Save(ctx, session); err != nil {
			return "", nil, err
		}
	}

	if s.bus != nil {
		s.bus.Publish(events.UserLoggedIn{
			UserID: user.ID,
			Email:  user.Email,
			At:     time.Now().UTC(),
		})
	}

	return token, user, nil
}

// Logout revokes the session behind the given token id.
func (s *AuthService) Logout(ctx context.Context, tokenID string) error {
	if s.sessions == nil || tokenID == "" {
		return nil
	}
	return s.sessions.Delete(ctx, tokenID)
}
