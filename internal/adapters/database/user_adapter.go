package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/entities"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/repositories"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/hungrymonkey/restaurant-hours-backend/pkg/errors"
)

const usersTable = "users"

// UserAdapter implements the UserRepository interface
type UserAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewUserAdapter creates a new user adapter
func NewUserAdapter(client *postgres.Client) repositories.UserRepository {
	return &UserAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Get returns the user, or nil when unknown
func (a *UserAdapter) Get(ctx context.Context, userID string) (*entities.User, error) {
	query, args, err := a.db.From(usersTable).
		Select("user_id", "email", "first_name", "last_name", "is_premium", "created_at", "updated_at").
		Where(goqu.C("user_id").Eq(userID)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build user query", err)
	}

	user := &entities.User{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&user.UserID, &user.Email, &user.FirstName, &user.LastName,
		&user.IsPremium, &user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user", err)
	}

	return user, nil
}

// Upsert creates or refreshes a user from identity-provider claims
func (a *UserAdapter) Upsert(ctx context.Context, user *entities.User) error {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	record := goqu.Record{
		"user_id":    user.UserID,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"is_premium": user.IsPremium,
		"created_at": user.CreatedAt,
		"updated_at": user.UpdatedAt,
	}

	query, args, err := a.db.Insert(usersTable).
		Rows(record).
		OnConflict(goqu.DoUpdate("user_id", goqu.Record{
			"email":      record["email"],
			"first_name": record["first_name"],
			"last_name":  record["last_name"],
			"updated_at": record["updated_at"],
		})).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build user upsert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to upsert user", err)
	}

	return nil
}
