package services

import (
	"context"

	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/entities"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/repositories"
	apperrors "github.com/hungrymonkey/restaurant-hours-backend/pkg/errors"
)

// UserService maintains API users initialized from identity-provider claims.
type UserService struct {
	repo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(repo repositories.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Initialize creates or refreshes the user record on sign-in.
func (s *UserService) Initialize(ctx context.Context, user *entities.User) (*entities.User, error) {
	if user.UserID == "" {
		return nil, apperrors.NewValidationError("user_id is required")
	}

	existing, err := s.repo.Get(ctx, user.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		// Premium status is managed elsewhere; keep it across refreshes.
		user.IsPremium = existing.IsPremium
		user.CreatedAt = existing.CreatedAt
	}

	if err := s.repo.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Get returns the user's profile.
func (s *UserService) Get(ctx context.Context, userID string) (*entities.User, error) {
	user, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NewNotFoundError("user " + userID + " not found")
	}
	return user, nil
}
