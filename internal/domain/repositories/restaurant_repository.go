package repositories

import (
	"context"

	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/entities"
)

// RestaurantUpdate carries the mutable verification fields of a restaurant.
// Nil pointers leave the column untouched.
type RestaurantUpdate struct {
	IsOpen          *bool
	IsHoursVerified *bool
	IsClosed        *bool
	Photos          []string
}

// RestaurantFilter narrows cached-restaurant queries.
type RestaurantFilter struct {
	Term       string
	Location   string
	Price      string
	Categories string
	Limit      int
	Offset     int
}

// RestaurantRepository defines cached restaurant persistence.
type RestaurantRepository interface {
	// GetByID returns the restaurant or a NOT_FOUND AppError.
	GetByID(ctx context.Context, businessID string) (*entities.Restaurant, error)

	// Upsert inserts the restaurant or refreshes its directory fields,
	// leaving verification flags untouched on conflict.
	Upsert(ctx context.Context, restaurant *entities.Restaurant) error

	// BulkUpsert applies Upsert to a directory result page.
	BulkUpsert(ctx context.Context, restaurants []*entities.Restaurant) error

	// Update applies a partial update to verification fields or photos.
	Update(ctx context.Context, businessID string, update RestaurantUpdate) error

	// List returns cached restaurants, newest first.
	List(ctx context.Context, limit int) ([]*entities.Restaurant, error)

	// Search filters the cache by term/location/price/categories.
	Search(ctx context.Context, filter RestaurantFilter) ([]*entities.Restaurant, error)

	// SearchByPhone returns cached restaurants with the given phone number.
	SearchByPhone(ctx context.Context, phone string) ([]*entities.Restaurant, error)

	// ListUnverified returns restaurants with unverified hours, excluding
	// permanently closed ones, ordered created_at ascending (oldest first),
	// bounded by limit.
	ListUnverified(ctx context.Context, limit int) ([]*entities.Restaurant, error)
}
