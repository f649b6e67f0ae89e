package budget

import "context"

// Repository defines the interface for budget data access.
type Repository interface {
	// Upsert creates the budget for (user, month) or replaces its amount
	// if one already exists. The uniqueness invariant lives here, not in
	// the handler.
	Upsert(ctx context.Context, params CreateParams) (*Budget, error)

	// GetByMonth retrieves the budget for a given user and month key.
	// Returns ErrNotFound when no budget is set.
	GetByMonth(ctx context.Context, userID, month string) (*Budget, error)

	// ListByUserID retrieves all budgets for a user, newest month first.
	ListByUserID(ctx context.Context, userID string) ([]*Budget, error)
}
