package providers

import (
	"context"

	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/entities"
)

// DirectoryProvider abstracts the third-party business directory.
type DirectoryProvider interface {
	// Search queries the directory for businesses matching params.
	Search(ctx context.Context, params entities.SearchParams) ([]*entities.Restaurant, error)

	// GetBusiness fetches one business's details, or nil when unknown.
	GetBusiness(ctx context.Context, businessID string) (*entities.Restaurant, error)

	// SearchByPhone looks businesses up by phone number.
	SearchByPhone(ctx context.Context, phone string) ([]*entities.Restaurant, error)
}
