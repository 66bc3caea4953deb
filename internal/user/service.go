package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/LeoXLiu-DS/timesheet-logging/internal"
	"github.com/LeoXLiu-DS/timesheet-logging/internal/core/events"
)

type Repository interface {
	GetByID(tenantID, userID int64) (*User, error)
	GetByEmail(email string) (*User, error)
	ListByTenant(tenantID int64) ([]*User, error)
	Create(user *User) error
	UpdateRole(tenantID, userID int64, role string) error
	GetTenantDomain(tenantID int64) (string, error)
}

// PasswordHasher hashes plaintext passwords for storage.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type Service struct {
	repo     Repository
	hasher   PasswordHasher
	eventBus *events.EventBus
	logger   *slog.Logger
}

func NewService(repo Repository, hasher PasswordHasher, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		hasher:   hasher,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *Service) GetByID(tenantID, userID int64) (*User, error) {
	u, err := s.repo.GetByID(tenantID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return u, nil
}

// ListByTenant returns every active account in the tenant for the
// manager's people views.
func (s *Service) ListByTenant(tenantID int64) ([]*User, error) {
	users, err := s.repo.ListByTenant(tenantID)
	if err != nil {
		s.logger.Error("failed to list tenant users", "error", err, "tenant_id", tenantID)
		return nil, err
	}
	return users, nil
}

// Create provisions a new account inside the caller's tenant. The email
// domain must already belong to the tenant; cross-domain invites are
// refused so every account stays routable at login.
func (s *Service) Create(tenantID int64, dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("user validation failed", "error", err, "tenant_id", tenantID)
		return nil, err
	}

	tenantDomain, err := s.repo.GetTenantDomain(tenantID)
	if err != nil {
		s.logger.Error("failed to resolve tenant domain", "error", err, "tenant_id", tenantID)
		return nil, err
	}

	emailDomain := dto.Email[strings.LastIndex(dto.Email, "@")+1:]
	if !strings.EqualFold(emailDomain, tenantDomain) {
		s.logger.Warn("user creation denied: email domain outside tenant",
			"tenant_id", tenantID,
			"email_domain", emailDomain)
		return nil, internal.ErrTenantUnknown
	}

	if existing, err := s.repo.GetByEmail(dto.Email); err == nil && existing != nil {
		return nil, internal.NewConflictError("a user with this email already exists", internal.ErrCodeValidationFailed)
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, err
	}

	now := time.Now()
	u := &User{
		TenantID:     tenantID,
		Email:        strings.ToLower(dto.Email),
		Name:         dto.Name,
		PasswordHash: hash,
		Role:         dto.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(u); err != nil {
		s.logger.Error("failed to create user", "error", err, "tenant_id", tenantID)
		return nil, err
	}

	s.logger.Info("user created",
		"user_id", u.ID,
		"tenant_id", tenantID,
		"role", u.Role)

	s.eventBus.Publish(context.Background(), events.NewUserCreatedEvent(tenantID, u.ID, u.Email, u.Name))

	return u, nil
}

// UpdateRole switches an account between contractor and manager. The
// change takes effect on the user's next issued token.
func (s *Service) UpdateRole(tenantID, userID int64, dto UpdateRoleDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(tenantID, userID)
	if err != nil {
		return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	}

	if u.Role == dto.Role {
		return u, nil
	}

	if err := s.repo.UpdateRole(tenantID, userID, dto.Role); err != nil {
		s.logger.Error("failed to update user role", "error", err, "user_id", userID, "tenant_id", tenantID)
		return nil, err
	}

	s.logger.Info("user role updated",
		"user_id", userID,
		"tenant_id", tenantID,
		"role", dto.Role)

	u.Role = dto.Role
	return u, nil
}
