package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"

	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/entities"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/repositories"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/hungrymonkey/restaurant-hours-backend/pkg/errors"
)

const restaurantsTable = "restaurants"

var restaurantColumns = []any{
	"business_id", "name", "rating", "price", "phone",
	"address1", "address2", "address3", "city", "state", "zip_code", "country",
	"display_address", "latitude", "longitude", "photos", "categories",
	"is_open", "is_hours_verified", "is_closed", "created_at", "updated_at",
}

// RestaurantAdapter implements the RestaurantRepository interface
type RestaurantAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewRestaurantAdapter creates a new restaurant adapter
func NewRestaurantAdapter(client *postgres.Client) repositories.RestaurantRepository {
	return &RestaurantAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

func restaurantRecord(r *entities.Restaurant) (goqu.Record, error) {
	categories, err := json.Marshal(r.Categories)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode categories", err)
	}

	return goqu.Record{
		"business_id":       r.BusinessID,
		"name":              r.Name,
		"rating":            r.Rating,
		"price":             sql.NullString{String: r.Price, Valid: r.Price != ""},
		"phone":             sql.NullString{String: r.Phone, Valid: r.Phone != ""},
		"address1":          r.Address.Address1,
		"address2":          r.Address.Address2,
		"address3":          r.Address.Address3,
		"city":              r.Address.City,
		"state":             r.Address.State,
		"zip_code":          r.Address.ZipCode,
		"country":           r.Address.Country,
		"display_address":   pq.Array(r.Address.DisplayAddress),
		"latitude":          r.Latitude,
		"longitude":         r.Longitude,
		"photos":            pq.Array(r.Photos),
		"categories":        categories,
		"is_open":           r.IsOpen,
		"is_hours_verified": r.IsHoursVerified,
		"is_closed":         r.IsClosed,
		"created_at":        r.CreatedAt,
		"updated_at":        r.UpdatedAt,
	}, nil
}

func scanRestaurant(row interface{ Scan(...any) error }) (*entities.Restaurant, error) {
	r := &entities.Restaurant{}
	var price, phone sql.NullString
	var displayAddress, photos pq.StringArray
	var categories []byte

	err := row.Scan(
		&r.BusinessID, &r.Name, &r.Rating, &price, &phone,
		&r.Address.Address1, &r.Address.Address2, &r.Address.Address3,
		&r.Address.City, &r.Address.State, &r.Address.ZipCode, &r.Address.Country,
		&displayAddress, &r.Latitude, &r.Longitude, &photos, &categories,
		&r.IsOpen, &r.IsHoursVerified, &r.IsClosed, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Price = price.String
	r.Phone = phone.String
	r.Address.DisplayAddress = displayAddress
	r.Photos = photos
	if len(categories) > 0 {
		if err := json.Unmarshal(categories, &r.Categories); err != nil {
			return nil, apperrors.NewInternalError("failed to decode categories", err)
		}
	}

	return r, nil
}

// GetByID retrieves a restaurant by its directory business id
func (a *RestaurantAdapter) GetByID(ctx context.Context, businessID string) (*entities.Restaurant, error) {
	query, args, err := a.db.From(restaurantsTable).
		Select(restaurantColumns...).
		Where(goqu.C("business_id").Eq(businessID)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build restaurant query", err)
	}

	restaurant, err := scanRestaurant(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("restaurant with id %s not found", businessID))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get restaurant", err)
	}

	return restaurant, nil
}

// Upsert inserts a restaurant or refreshes its directory fields. On conflict
// the verification flags stay untouched so a directory refresh can never
// reopen a closed restaurant or clear its verification.
func (a *RestaurantAdapter) Upsert(ctx context.Context, restaurant *entities.Restaurant) error {
	now := time.Now()
	if restaurant.CreatedAt.IsZero() {
		restaurant.CreatedAt = now
	}
	restaurant.UpdatedAt = now

	record, err := restaurantRecord(restaurant)
	if err != nil {
		return err
	}

	update := goqu.Record{
		"name":            record["name"],
		"rating":          record["rating"],
		"price":           record["price"],
		"phone":           record["phone"],
		"address1":        record["address1"],
		"address2":        record["address2"],
		"address3":        record["address3"],
		"city":            record["city"],
		"state":           record["state"],
		"zip_code":        record["zip_code"],
		"country":         record["country"],
		"display_address": record["display_address"],
		"latitude":        record["latitude"],
		"longitude":       record["longitude"],
		"photos":          record["photos"],
		"categories":      record["categories"],
		"updated_at":      record["updated_at"],
	}

	query, args, err := a.db.Insert(restaurantsTable).
		Rows(record).
		OnConflict(goqu.DoUpdate("business_id", update)).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build restaurant upsert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to upsert restaurant", err)
	}

	return nil
}

// BulkUpsert stores a directory result page, continuing past per-row errors
func (a *RestaurantAdapter) BulkUpsert(ctx context.Context, restaurants []*entities.Restaurant) error {
	var lastErr error
	for _, restaurant := range restaurants {
		if err := a.Upsert(ctx, restaurant); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Update applies a partial update to verification fields or photos
func (a *RestaurantAdapter) Update(ctx context.Context, businessID string, update repositories.RestaurantUpdate) error {
	record := goqu.Record{"updated_at": time.Now()}

	if update.IsOpen != nil {
		record["is_open"] = *update.IsOpen
	}
	if update.IsHoursVerified != nil {
		record["is_hours_verified"] = *update.IsHoursVerified
	}
	if update.IsClosed != nil {
		record["is_closed"] = *update.IsClosed
	}
	if update.Photos != nil {
		record["photos"] = pq.Array(update.Photos)
	}

	query, args, err := a.db.Update(restaurantsTable).
		Set(record).
		Where(goqu.C("business_id").Eq(businessID)).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build restaurant update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update restaurant", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("restaurant with id %s not found", businessID))
	}

	return nil
}

// List returns cached restaurants, newest first
func (a *RestaurantAdapter) List(ctx context.Context, limit int) ([]*entities.Restaurant, error) {
	ds := a.db.From(restaurantsTable).
		Select(restaurantColumns...).
		Order(goqu.C("created_at").Desc())
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build restaurant list query", err)
	}

	return a.queryRestaurants(ctx, query, args...)
}

// Search filters the cache by term, location, price and categories
func (a *RestaurantAdapter) Search(ctx context.Context, filter repositories.RestaurantFilter) ([]*entities.Restaurant, error) {
	ds := a.db.From(restaurantsTable).Select(restaurantColumns...)

	if filter.Term != "" {
		ds = ds.Where(goqu.C("name").ILike("%" + filter.Term + "%"))
	}
	if filter.Location != "" {
		pattern := "%" + filter.Location + "%"
		ds = ds.Where(goqu.Or(
			goqu.C("city").ILike(pattern),
			goqu.C("state").ILike(pattern),
			goqu.C("zip_code").ILike(pattern),
		))
	}
	if filter.Price != "" {
		ds = ds.Where(goqu.C("price").Eq(filter.Price))
	}
	if filter.Categories != "" {
		ds = ds.Where(goqu.L("categories::text").ILike("%" + filter.Categories + "%"))
	}

	ds = ds.Order(goqu.C("rating").Desc())
	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build restaurant search query", err)
	}

	return a.queryRestaurants(ctx, query, args...)
}

// SearchByPhone returns cached restaurants with the given phone number
func (a *RestaurantAdapter) SearchByPhone(ctx context.Context, phone string) ([]*entities.Restaurant, error) {
	query, args, err := a.db.From(restaurantsTable).
		Select(restaurantColumns...).
		Where(goqu.C("phone").Eq(phone)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build phone search query", err)
	}

	return a.queryRestaurants(ctx, query, args...)
}

// ListUnverified selects dispatch candidates: unverified hours, not closed,
// oldest first so the queue is FIFO-fair.
func (a *RestaurantAdapter) ListUnverified(ctx context.Context, limit int) ([]*entities.Restaurant, error) {
	ds := a.db.From(restaurantsTable).
		Select(restaurantColumns...).
		Where(
			goqu.C("is_hours_verified").IsFalse(),
			goqu.C("is_closed").IsFalse(),
		).
		Order(goqu.C("created_at").Asc())
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build unverified query", err)
	}

	return a.queryRestaurants(ctx, query, args...)
}

func (a *RestaurantAdapter) queryRestaurants(ctx context.Context, query string, args ...any) ([]*entities.Restaurant, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query restaurants", err)
	}
	defer rows.Close()

	restaurants := []*entities.Restaurant{}
	for rows.Next() {
		restaurant, err := scanRestaurant(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan restaurant", err)
		}
		restaurants = append(restaurants, restaurant)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate restaurants", err)
	}

	return restaurants, nil
}
