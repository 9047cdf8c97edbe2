package database

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/entities"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/repositories"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/hungrymonkey/restaurant-hours-backend/pkg/errors"
)

// VerificationAdapter commits the restaurant+hours dual write of a
// verification attempt inside a single transaction.
type VerificationAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewVerificationAdapter creates a new transactional verification store
func NewVerificationAdapter(client *postgres.Client) repositories.VerificationStore {
	return &VerificationAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// CommitVerified writes the verified hours record and flips the restaurant's
// is_open/is_hours_verified flags atomically.
func (a *VerificationAdapter) CommitVerified(ctx context.Context, restaurantID string, hours *entities.OperatingHours) error {
	hours.RestaurantID = restaurantID
	hours.IsHoursVerified = true
	hours.IsConsenting = true

	hoursQuery, hoursArgs, err := buildHoursUpsert(a.db, hours)
	if err != nil {
		return err
	}

	restaurantQuery, restaurantArgs, err := a.db.Update(restaurantsTable).
		Set(goqu.Record{
			"is_open":           hours.IsOpen,
			"is_hours_verified": true,
			"updated_at":        time.Now(),
		}).
		Where(goqu.C("business_id").Eq(restaurantID)).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build restaurant verification update", err)
	}

	return a.inTx(ctx, "commit verified hours", hoursQuery, hoursArgs, restaurantQuery, restaurantArgs, restaurantID)
}

// MarkUnreachable records a failed attempt: the restaurant leaves the
// dispatch pool for good and its hours row is stamped unverified.
func (a *VerificationAdapter) MarkUnreachable(ctx context.Context, restaurantID string) error {
	hours := &entities.OperatingHours{
		RestaurantID:    restaurantID,
		IsOpen:          false,
		IsHoursVerified: false,
		IsConsenting:    false,
	}

	hoursQuery, hoursArgs, err := buildHoursUpsert(a.db, hours)
	if err != nil {
		return err
	}

	restaurantQuery, restaurantArgs, err := a.db.Update(restaurantsTable).
		Set(goqu.Record{
			"is_hours_verified": false,
			"is_closed":         true,
			"updated_at":        time.Now(),
		}).
		Where(goqu.C("business_id").Eq(restaurantID)).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build restaurant unreachable update", err)
	}

	return a.inTx(ctx, "mark restaurant unreachable", hoursQuery, hoursArgs, restaurantQuery, restaurantArgs, restaurantID)
}

func (a *VerificationAdapter) inTx(ctx context.Context, op string, hoursQuery string, hoursArgs []any, restaurantQuery string, restaurantArgs []any, restaurantID string) error {
	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return apperrors.NewInternalError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, hoursQuery, hoursArgs...); err != nil {
		return apperrors.NewInternalError("failed to "+op+" (hours)", err)
	}

	result, err := tx.ExecContext(ctx, restaurantQuery, restaurantArgs...)
	if err != nil {
		return apperrors.NewInternalError("failed to "+op+" (restaurant)", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError("restaurant " + restaurantID + " not found")
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit "+op, err)
	}

	return nil
}
