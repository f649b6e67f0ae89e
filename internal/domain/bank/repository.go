package bank

import "context"

// Repository defines the interface for bank connection data access.
type Repository interface {
	// Create records a new connection
	Create(ctx context.Context, params CreateParams) (*Connection, error)

	// GetByID retrieves a connection. Returns ErrNotFound when missing.
	GetByID(ctx context.Context, id string) (*Connection, error)

	// ListByUserID retrieves all connections for a user, newest first
	ListByUserID(ctx context.Context, userID string) ([]*Connection, error)

	// UpdateStatus stores the latest requisition status
	UpdateStatus(ctx context.Context, id, status string) error

	// Delete removes the user's connection. Returns ErrNotFound when the
	// connection does not exist or belongs to someone else.
	Delete(ctx context.Context, id, userID string) error
}
