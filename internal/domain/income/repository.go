package income

import "context"

// Repository defines the interface for income data access.
type Repository interface {
	// Create creates a new income
	Create(ctx context.Context, params CreateParams) (*Income, error)

	// ListByUserID retrieves the user's incomes, newest date first.
	// A non-empty month (YYYY-MM) restricts the result to dates with
	// that prefix.
	ListByUserID(ctx context.Context, userID, month string) ([]*Income, error)

	// Delete removes the user's income. Returns ErrNotFound when the
	// income does not exist or belongs to someone else.
	Delete(ctx context.Context, id, userID string) error
}
