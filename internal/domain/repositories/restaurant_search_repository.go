package repositories

import (
	"context"

	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/entities"
)

// RestaurantSearchRepository is the full-text index over cached restaurants.
type RestaurantSearchRepository interface {
	// InitSchema ensures the index collection exists.
	InitSchema(ctx context.Context) error

	// Index upserts a restaurant document into the index.
	Index(ctx context.Context, restaurant *entities.Restaurant) error

	// Search queries the index by term (and optional location text).
	Search(ctx context.Context, filter RestaurantFilter) ([]*entities.Restaurant, error)

	// Delete removes a restaurant from the index.
	Delete(ctx context.Context, businessID string) error
}
