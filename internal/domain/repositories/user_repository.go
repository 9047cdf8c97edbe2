package repositories

import (
	"context"

	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/entities"
)

// UserRepository defines API-user persistence.
type UserRepository interface {
	// Get returns the user, or nil when unknown.
	Get(ctx context.Context, userID string) (*entities.User, error)

	// Upsert creates or refreshes a user from identity-provider claims.
	Upsert(ctx context.Context, user *entities.User) error
}
