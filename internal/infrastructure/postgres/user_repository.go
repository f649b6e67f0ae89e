package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"lompakko/internal/domain/user"
)

// UserRepository implements the user.Repository interface for PostgreSQL
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, params user.CreateParams) (*user.User, error) {
	query := `
		INSERT INTO users (id, email, name, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, name, password_hash, subscription_active, subscription_end, created_at
	`

	var u user.User
	var subscriptionEnd sql.NullTime

	err := r.db.QueryRowContext(
		ctx, query,
		uuid.NewString(), params.Email, params.Name, params.PasswordHash,
	).Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash,
		&u.SubscriptionActive, &subscriptionEnd, &u.CreatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, user.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if subscriptionEnd.Valid {
		u.SubscriptionEnd = &subscriptionEnd.Time
	}

	return &u, nil
}

// GetByID retrieves a user by its ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	return r.getBy(ctx, "id", id)
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *UserRepository) getBy(ctx context.Context, column, value string) (*user.User, error) {
	query := fmt.Sprintf(`
		SELECT id, email, name, password_hash, subscription_active, subscription_end, created_at
		FROM users
		WHERE %s = $1
	`, column)

	var u user.User
	var subscriptionEnd sql.NullTime

	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash,
		&u.SubscriptionActive, &subscriptionEnd, &u.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if subscriptionEnd.Valid {
		u.SubscriptionEnd = &subscriptionEnd.Time
	}

	return &u, nil
}

// ActivateSubscription marks the user's subscription active until the given time
func (r *UserRepository) ActivateSubscription(ctx context.Context, userID string, until time.Time) error {
	query := `
		UPDATE users
		SET subscription_active = TRUE, subscription_end = $1
		WHERE id = $2
	`

	result, err := r.db.ExecContext(ctx, query, until, userID)
	if err != nil {
		return fmt.Errorf("failed to activate subscription: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return user.ErrNotFound
	}

	return nil
}

// DeactivateExpiredSubscriptions clears the active flag for every user
// whose subscription end has passed
func (r *UserRepository) DeactivateExpiredSubscriptions(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE users
		SET subscription_active = FALSE
		WHERE subscription_active = TRUE
		  AND subscription_end IS NOT NULL
		  AND subscription_end < $1
	`

	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate expired subscriptions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows, nil
}
