package payment

import "context"

// Repository defines the interface for payment transaction data access.
type Repository interface {
	// Create records a new checkout session
	Create(ctx context.Context, params CreateParams) (*Transaction, error)

	// GetBySessionID retrieves a transaction by its checkout session ID.
	// Returns ErrNotFound when no such session exists.
	GetBySessionID(ctx context.Context, sessionID string) (*Transaction, error)

	// UpdateStatus stores the latest payment status for a session
	UpdateStatus(ctx context.Context, sessionID, paymentStatus string) error

	// MarkProcessed atomically flips the processed flag. Returns true only
	// for the caller that performed the flip, so exactly one caller
	// activates the subscription for a paid session.
	MarkProcessed(ctx context.Context, sessionID string) (bool, error)
}
