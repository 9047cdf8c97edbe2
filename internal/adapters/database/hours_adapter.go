package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/entities"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/repositories"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/hungrymonkey/restaurant-hours-backend/pkg/errors"
)

const hoursTable = "operating_hours"

var hoursColumns = []any{
	"id", "restaurant_id", "time_open", "time_closed",
	"is_open", "is_hours_verified", "is_consenting", "updated_at",
}

// HoursAdapter implements the HoursRepository interface
type HoursAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewHoursAdapter creates a new operating-hours adapter
func NewHoursAdapter(client *postgres.Client) repositories.HoursRepository {
	return &HoursAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

func scanHours(row interface{ Scan(...any) error }) (*entities.OperatingHours, error) {
	h := &entities.OperatingHours{}
	var timeOpen, timeClosed sql.NullString
	err := row.Scan(
		&h.ID, &h.RestaurantID, &timeOpen, &timeClosed,
		&h.IsOpen, &h.IsHoursVerified, &h.IsConsenting, &h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	h.TimeOpen = timeOpen.String
	h.TimeClosed = timeClosed.String
	return h, nil
}

// Get returns the hours record, or nil when none exists yet
func (a *HoursAdapter) Get(ctx context.Context, restaurantID string) (*entities.OperatingHours, error) {
	query, args, err := a.db.From(hoursTable).
		Select(hoursColumns...).
		Where(goqu.C("restaurant_id").Eq(restaurantID)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build hours query", err)
	}

	hours, err := scanHours(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get operating hours", err)
	}

	return hours, nil
}

// GetBulk returns hours records keyed by restaurant id
func (a *HoursAdapter) GetBulk(ctx context.Context, restaurantIDs []string) (map[string]*entities.OperatingHours, error) {
	result := make(map[string]*entities.OperatingHours, len(restaurantIDs))
	if len(restaurantIDs) == 0 {
		return result, nil
	}

	query, args, err := a.db.From(hoursTable).
		Select(hoursColumns...).
		Where(goqu.C("restaurant_id").In(restaurantIDs)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build bulk hours query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query operating hours", err)
	}
	defer rows.Close()

	for rows.Next() {
		hours, err := scanHours(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan operating hours", err)
		}
		result[hours.RestaurantID] = hours
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate operating hours", err)
	}

	return result, nil
}

// Upsert creates or replaces the restaurant's hours record
func (a *HoursAdapter) Upsert(ctx context.Context, hours *entities.OperatingHours) error {
	query, args, err := buildHoursUpsert(a.db, hours)
	if err != nil {
		return err
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to upsert operating hours", err)
	}

	return nil
}

// buildHoursUpsert is shared with the transactional verification store.
func buildHoursUpsert(db *goqu.Database, hours *entities.OperatingHours) (string, []any, error) {
	if hours.ID == "" {
		hours.ID = uuid.New().String()
	}
	hours.UpdatedAt = time.Now()

	record := goqu.Record{
		"id":                hours.ID,
		"restaurant_id":     hours.RestaurantID,
		"time_open":         sql.NullString{String: hours.TimeOpen, Valid: hours.TimeOpen != ""},
		"time_closed":       sql.NullString{String: hours.TimeClosed, Valid: hours.TimeClosed != ""},
		"is_open":           hours.IsOpen,
		"is_hours_verified": hours.IsHoursVerified,
		"is_consenting":     hours.IsConsenting,
		"updated_at":        hours.UpdatedAt,
	}

	update := goqu.Record{
		"time_open":         record["time_open"],
		"time_closed":       record["time_closed"],
		"is_open":           record["is_open"],
		"is_hours_verified": record["is_hours_verified"],
		"is_consenting":     record["is_consenting"],
		"updated_at":        record["updated_at"],
	}

	query, args, err := db.Insert(hoursTable).
		Rows(record).
		OnConflict(goqu.DoUpdate("restaurant_id", update)).
		ToSQL()
	if err != nil {
		return "", nil, apperrors.NewInternalError("failed to build hours upsert query", err)
	}
	return query, args, nil
}
