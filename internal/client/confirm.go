package client

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sethvargo/go-retry"

	"lompakko/internal/domain/payment"
	"lompakko/internal/domain/user"
)

// Confirmation states shown after returning from the hosted checkout.
const (
	StateLoading   = "loading"
	StateSucceeded = "succeeded"
	StateFailed    = "failed"
)

const (
	confirmAttempts        = 5
	defaultConfirmInterval = 2 * time.Second
)

var (
	errMissingSessionID = errors.New("missing session id in callback URL")
	errSessionExpired   = errors.New("checkout session expired")
	errStillPending     = errors.New("payment still pending")
)

// ConfirmResult is the outcome of a payment confirmation poll.
type ConfirmResult struct {
	State    string
	Attempts int
	Status   *payment.StatusResult
	User     *user.User
}

// ConfirmPayment polls the session status until the payment settles.
// At most 5 attempts spaced 2 seconds apart; a paid session stops the
// poll and triggers one profile refresh so the caller sees the
// activated subscription. An expired session fails immediately, and
// running out of attempts fails with the last pending state.
func (c *Client) ConfirmPayment(ctx context.Context, sessionID string) (*ConfirmResult, error) {
	return c.confirmPayment(ctx, sessionID, defaultConfirmInterval)
}

func (c *Client) confirmPayment(ctx context.Context, sessionID string, interval time.Duration) (*ConfirmResult, error) {
	result := &ConfirmResult{State: StateLoading}

	if sessionID == "" {
		result.State = StateFailed
		return result, errMissingSessionID
	}

	backoff := retry.WithMaxRetries(confirmAttempts-1, retry.NewConstant(interval))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		result.Attempts++

		status, err := c.PaymentStatus(ctx, sessionID)
		if err != nil {
			if errors.Is(err, ErrUnauthorized) {
				return err
			}
			// Transient; the final attempt surfaces it.
			return retry.RetryableError(err)
		}
		result.Status = status

		// Expiry is reported on the session status; the payment status
		// of a timed-out session stays unpaid.
		switch {
		case status.PaymentStatus == payment.StatusPaid:
			return nil
		case status.Status == payment.SessionExpired:
			return errSessionExpired
		default:
			return retry.RetryableError(errStillPending)
		}
	})
	if err != nil {
		result.State = StateFailed
		return result, fmt.Errorf("payment confirmation failed: %w", err)
	}

	result.State = StateSucceeded

	// Single refresh so the caller's profile reflects the activated
	// subscription. The payment itself has already settled, so a
	// refresh failure does not fail the confirmation.
	u, err := c.Me(ctx)
	if err != nil {
		log.Printf("Failed to refresh profile after payment: %v", err)
		return result, nil
	}
	result.User = u

	return result, nil
}
