package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/mhmasum1/digital-life-lessons-server/internal/common"
	"github.com/mhmasum1/digital-life-lessons-server/internal/middleware"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the interface for user business logic.
type Service interface {
	Upsert(ctx context.Context, req UpsertUserRequest) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	IsAdmin(ctx context.Context, principalEmail, email string) (bool, error)
	List(ctx context.Context) ([]UserWithLessonCount, error)
	MakeAdmin(ctx context.Context, id uuid.UUID) error
	UpdateRole(ctx context.Context, actorEmail string, id uuid.UUID, role string) error
	Delete(ctx context.Context, actorEmail, email string) error
	RoleOf(ctx context.Context, email string) (string, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// ServiceImplementation implements Service.
type ServiceImplementation struct {
	repo   Repository
	logger *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)
var _ middleware.RoleLookup = (*ServiceImplementation)(nil)

// NewService creates a new user service.
func NewService(repo Repository, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{repo: repo, logger: logger}
}

// Upsert creates the user on first sign-in, otherwise refreshes the display fields.
func (s *ServiceImplementation) Upsert(ctx context.Context, req UpsertUserRequest) (*User, error) {
	u, err := s.repo.Upsert(ctx, &User{
		Email:    req.Email,
		Name:     req.Name,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("User upserted", zap.String("email", u.Email), zap.String("userID", u.ID.String()))
	return u, nil
}

// GetByEmail retrieves a user by email.
func (s *ServiceImplementation) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.FindByEmail(ctx, email)
}

// IsAdmin answers the admin check. Callers may only ask about themselves.
func (s *ServiceImplementation) IsAdmin(ctx context.Context, principalEmail, email string) (bool, error) {
	if common.NormalizeEmail(principalEmail) != common.NormalizeEmail(email) {
		return false, common.ErrForbidden
	}
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return u.IsAdmin(), nil
}

// List returns all users with their lesson counts.
func (s *ServiceImplementation) List(ctx context.Context) ([]UserWithLessonCount, error) {
	return s.repo.ListWithLessonCounts(ctx)
}

// MakeAdmin promotes a user to admin.
func (s *ServiceImplementation) MakeAdmin(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.UpdateRole(ctx, id, common.RoleAdmin); err != nil {
		return err
	}
	s.logger.Info("User promoted to admin", zap.String("userID", id.String()))
	return nil
}

// UpdateRole sets a user's role. An admin cannot demote themself.
func (s *ServiceImplementation) UpdateRole(ctx context.Context, actorEmail string, id uuid.UUID, role string) error {
	if role != common.RoleAdmin && role != common.RoleUser {
		return common.ErrBadRequest.WithMessage("Invalid role")
	}
	target, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if target.Email == common.NormalizeEmail(actorEmail) && role != common.RoleAdmin {
		return common.ErrConflict.WithMessage("You cannot demote yourself")
	}
	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		return err
	}
	s.logger.Info("User role updated",
		zap.String("userID", id.String()),
		zap.String("role", role),
		zap.String("by", actorEmail),
	)
	return nil
}

// Delete removes a user. Self-deletion is rejected.
func (s *ServiceImplementation) Delete(ctx context.Context, actorEmail, email string) error {
	if common.NormalizeEmail(actorEmail) == common.NormalizeEmail(email) {
		return common.ErrConflict.WithMessage("You cannot delete yourself")
	}
	if err := s.repo.DeleteByEmail(ctx, email); err != nil {
		return err
	}
	s.logger.Info("User deleted", zap.String("email", email), zap.String("by", actorEmail))
	return nil
}

// RoleOf reads the current role for the role guard.
func (s *ServiceImplementation) RoleOf(ctx context.Context, email string) (string, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", middleware.ErrUnknownUser
		}
		return "", fmt.Errorf("role lookup: %w", err)
	}
	return u.Role, nil
}

// EmailExists reports whether a user record exists for the email.
func (s *ServiceImplementation) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, common.ErrNotFound) {
		return false, nil
	}
	return false, err
}
