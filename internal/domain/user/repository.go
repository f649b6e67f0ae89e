package user

import (
	"context"
	"time"
)

// Repository defines the interface for user data access.
// Defined in the domain layer, implemented in the infrastructure layer.
type Repository interface {
	// Create creates a new user. Returns ErrEmailTaken when the email
	// is already registered.
	Create(ctx context.Context, params CreateParams) (*User, error)

	// GetByID retrieves a user by id. Returns ErrNotFound when missing.
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByEmail retrieves a user by email. Returns ErrNotFound when missing.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// ActivateSubscription marks the user's subscription active until
	// the given end time.
	ActivateSubscription(ctx context.Context, userID string, until time.Time) error

	// DeactivateExpiredSubscriptions clears the active flag for every
	// user whose subscription_end is in the past. Returns the number of
	// users affected.
	DeactivateExpiredSubscriptions(ctx context.Context, now time.Time) (int64, error)
}
