package repositories

import (
	"context"

	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/entities"
)

// VerificationStore commits a verification attempt's restaurant and hours
// writes atomically, so a crash cannot leave the two records diverged.
type VerificationStore interface {
	// CommitVerified upserts the hours record (verified + consenting) and
	// updates the restaurant's is_open/is_hours_verified flags in one
	// transaction.
	CommitVerified(ctx context.Context, restaurantID string, hours *entities.OperatingHours) error

	// MarkUnreachable records a failed attempt: restaurant marked
	// unverified and permanently closed, hours row upserted as unverified,
	// in one transaction.
	MarkUnreachable(ctx context.Context, restaurantID string) error
}
