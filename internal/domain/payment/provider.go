package payment

import "context"

// Session is a newly created hosted checkout session. The client is
// redirected to URL and later polls status with SessionID.
type Session struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}

// SessionStatus is the provider's view of a checkout session.
type SessionStatus struct {
	Status        string
	PaymentStatus string
	AmountTotal   float64
	Currency      string
}

// CreateSessionParams describes the checkout session to open. Amounts
// are in whole currency units.
type CreateSessionParams struct {
	Amount     float64
	Currency   string
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

// CheckoutProvider is the hosted checkout integration. Implementations
// live in internal/infrastructure.
type CheckoutProvider interface {
	CreateSession(ctx context.Context, params CreateSessionParams) (*Session, error)
	GetSessionStatus(ctx context.Context, sessionID string) (*SessionStatus, error)
}
