package payment

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("payment transaction not found")
	ErrNotConfigured = errors.New("checkout provider not configured")
)

// Payment statuses. Pending is recorded when the session is opened;
// later values come from the provider verbatim.
const (
	StatusPending = "pending"
	StatusPaid    = "paid"
	StatusUnpaid  = "unpaid"
)

// Session statuses reported by the checkout provider. Expiry shows up
// here, not in the payment status, which stays unpaid for a session
// that timed out.
const (
	SessionOpen     = "open"
	SessionComplete = "complete"
	SessionExpired  = "expired"
)

// Subscription pricing. A single plan, billed per 30-day period.
const (
	SubscriptionPrice = 4.99
	SubscriptionDays  = 30
	Currency          = "eur"
)

// Transaction records one checkout session. Processed guards against a
// session activating the subscription more than once.
type Transaction struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	SessionID     string    `json:"session_id"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	PaymentStatus string    `json:"payment_status"`
	Processed     bool      `json:"processed"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CreateParams struct {
	UserID        string
	SessionID     string
	Amount        float64
	Currency      string
	PaymentStatus string
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if p.UserID == "" {
		return errors.New("user ID is required")
	}
	if p.SessionID == "" {
		return errors.New("session ID is required")
	}
	if p.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	return nil
}
