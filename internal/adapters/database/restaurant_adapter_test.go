package database_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/hungrymonkey/restaurant-hours-backend/internal/adapters/database"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/hungrymonkey/restaurant-hours-backend/pkg/errors"
)

func newMockClient(t *testing.T) (*postgres.Client, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return postgres.NewClientWithDB(db), mock
}

var restaurantTestColumns = []string{
	"business_id", "name", "rating", "price", "phone",
	"address1", "address2", "address3", "city", "state", "zip_code", "country",
	"display_address", "latitude", "longitude", "photos", "categories",
	"is_open", "is_hours_verified", "is_closed", "created_at", "updated_at",
}

func addRestaurantRow(rows *sqlmock.Rows, businessID string, createdAt time.Time) {
	rows.AddRow(
		businessID, "Restaurant "+businessID, 4.0, nil, "+14155551234",
		"1 Main St", "", "", "San Francisco", "CA", "94105", "US",
		"{}", 37.77, -122.41, "{}", []byte("[]"),
		false, false, false, createdAt, createdAt,
	)
}

func TestListUnverified_SelectsOldestOpenCandidates(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := database.NewRestaurantAdapter(client)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(restaurantTestColumns)
	for i, id := range []string{"r1", "r2", "r3", "r4", "r5"} {
		addRestaurantRow(rows, id, base.Add(time.Duration(i)*time.Hour))
	}

	mock.ExpectQuery(`SELECT .+ FROM "restaurants" WHERE .+"is_hours_verified" IS FALSE.+"is_closed" IS FALSE.+ ORDER BY "created_at" ASC LIMIT 5`).
		WillReturnRows(rows)

	restaurants, err := adapter.ListUnverified(context.Background(), 5)

	assert.NoError(t, err)
	assert.Len(t, restaurants, 5)
	for i, id := range []string{"r1", "r2", "r3", "r4", "r5"} {
		assert.Equal(t, id, restaurants[i].BusinessID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUnverified_NoLimitOmitsClause(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := database.NewRestaurantAdapter(client)

	rows := sqlmock.NewRows(restaurantTestColumns)
	addRestaurantRow(rows, "r1", time.Now())

	mock.ExpectQuery(`ORDER BY "created_at" ASC$`).WillReturnRows(rows)

	restaurants, err := adapter.ListUnverified(context.Background(), 0)

	assert.NoError(t, err)
	assert.Len(t, restaurants, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_MissingRestaurantIsNotFound(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := database.NewRestaurantAdapter(client)

	mock.ExpectQuery(`SELECT .+ FROM "restaurants" WHERE .+"business_id" = 'nope'`).
		WillReturnError(sql.ErrNoRows)

	restaurant, err := adapter.GetByID(context.Background(), "nope")

	assert.Nil(t, restaurant)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
