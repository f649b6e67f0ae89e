package expense

import "context"

// Repository defines the interface for expense data access.
type Repository interface {
	// Create creates a new expense
	Create(ctx context.Context, params CreateParams) (*Expense, error)

	// ListByUserID retrieves the user's expenses, newest date first.
	// A non-empty month (YYYY-MM) restricts the result to dates with
	// that prefix.
	ListByUserID(ctx context.Context, userID, month string) ([]*Expense, error)

	// Delete removes the user's expense. Returns ErrNotFound when the
	// expense does not exist or belongs to someone else.
	Delete(ctx context.Context, id, userID string) error

	// ExistsByImportID reports whether an aggregator transaction has
	// already been imported for the user.
	ExistsByImportID(ctx context.Context, userID, importID string) (bool, error)
}
