package repositories

import (
	"context"

	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/entities"
)

// HoursRepository defines operating-hours persistence. One record per
// restaurant; writes are upserts.
type HoursRepository interface {
	// Get returns the hours record, or nil when none exists yet.
	Get(ctx context.Context, restaurantID string) (*entities.OperatingHours, error)

	// GetBulk returns hours records keyed by restaurant id.
	GetBulk(ctx context.Context, restaurantIDs []string) (map[string]*entities.OperatingHours, error)

	// Upsert creates or replaces the restaurant's hours record.
	Upsert(ctx context.Context, hours *entities.OperatingHours) error
}
