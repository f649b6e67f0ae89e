package loan

import "context"

// Repository defines the interface for loan data access.
type Repository interface {
	// Create creates a new loan
	Create(ctx context.Context, params CreateParams) (*Loan, error)

	// ListByUserID retrieves all loans for a user
	ListByUserID(ctx context.Context, userID string) ([]*Loan, error)

	// Update replaces the user's loan with the given parameters.
	// Returns ErrNotFound when the loan does not exist or belongs to
	// someone else.
	Update(ctx context.Context, id string, params CreateParams) (*Loan, error)

	// Delete removes the user's loan. Returns ErrNotFound when the loan
	// does not exist or belongs to someone else.
	Delete(ctx context.Context, id, userID string) error
}
