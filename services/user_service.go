package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/upb/org-auth/models"
	"github.com/upb/org-auth/repositories"
	"go.uber.org/zap"
)

// UserService exposes user lookups to authenticated callers
type UserService struct {
	users  repositories.UserRepository
	logger *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(users repositories.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// GetUser returns the public projection of the user with the given id
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*models.PublicUser, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, WrapInternal("failed to get user", err)
	}
	public := user.Public()
	return &public, nil
}
