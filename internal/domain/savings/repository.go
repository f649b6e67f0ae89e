package savings

import "context"

// Repository defines the interface for savings goal data access.
type Repository interface {
	// Create creates a new savings goal
	Create(ctx context.Context, params CreateParams) (*Goal, error)

	// ListByUserID retrieves all savings goals for a user
	ListByUserID(ctx context.Context, userID string) ([]*Goal, error)

	// Update replaces the user's goal with the given parameters.
	// Returns ErrNotFound when the goal does not exist or belongs to
	// someone else.
	Update(ctx context.Context, id string, params CreateParams) (*Goal, error)

	// Delete removes the user's goal. Returns ErrNotFound when the goal
	// does not exist or belongs to someone else.
	Delete(ctx context.Context, id, userID string) error
}
