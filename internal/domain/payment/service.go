package payment

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"lompakko/internal/domain/user"
)

// StatusResult is returned to status polls. AlreadyProcessed tells the
// client the session had been settled on an earlier poll.
type StatusResult struct {
	Status           string  `json:"status"`
	PaymentStatus    string  `json:"payment_status"`
	AmountTotal      float64 `json:"amount_total"`
	Currency         string  `json:"currency"`
	AlreadyProcessed bool    `json:"already_processed"`
}

// Service contains the business logic for subscription payments
type Service struct {
	repo     Repository
	provider CheckoutProvider
	users    user.Repository
	now      func() time.Time
}

// NewService creates a new payment service
func NewService(repo Repository, provider CheckoutProvider, users user.Repository) *Service {
	return &Service{
		repo:     repo,
		provider: provider,
		users:    users,
		now:      time.Now,
	}
}

// Checkout opens a hosted checkout session for the subscription plan and
// records it as pending. The amount is fixed server-side so a client can
// never influence the price.
func (s *Service) Checkout(ctx context.Context, userID, originURL string) (*Session, error) {
	if s.provider == nil {
		return nil, ErrNotConfigured
	}

	origin := strings.TrimRight(originURL, "/")

	session, err := s.provider.CreateSession(ctx, CreateSessionParams{
		Amount:     SubscriptionPrice,
		Currency:   Currency,
		SuccessURL: origin + "/payment/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  origin + "/payment/cancel",
		Metadata: map[string]string{
			"user_id": userID,
			"type":    "subscription",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating checkout session: %w", err)
	}

	_, err = s.repo.Create(ctx, CreateParams{
		UserID:        userID,
		SessionID:     session.SessionID,
		Amount:        SubscriptionPrice,
		Currency:      Currency,
		PaymentStatus: StatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("recording checkout session: %w", err)
	}

	return session, nil
}

// Status refreshes a session from the provider and settles it when paid.
// Settlement happens at most once per session regardless of how many
// polls observe the paid status.
func (s *Service) Status(ctx context.Context, sessionID, userID string) (*StatusResult, error) {
	if s.provider == nil {
		return nil, ErrNotConfigured
	}

	tx, err := s.repo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	// Sessions are only visible to the user that opened them.
	if tx.UserID != userID {
		return nil, ErrNotFound
	}

	status, err := s.provider.GetSessionStatus(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("fetching session status: %w", err)
	}

	if err := s.repo.UpdateStatus(ctx, sessionID, status.PaymentStatus); err != nil {
		log.Printf("Failed to update payment status for session %s: %v", sessionID, err)
	}

	alreadyProcessed := tx.Processed
	if status.PaymentStatus == StatusPaid && !alreadyProcessed {
		first, err := s.repo.MarkProcessed(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("settling session: %w", err)
		}
		if first {
			if err := s.activate(ctx, tx.UserID); err != nil {
				return nil, err
			}
		} else {
			alreadyProcessed = true
		}
	}

	return &StatusResult{
		Status:           status.Status,
		PaymentStatus:    status.PaymentStatus,
		AmountTotal:      status.AmountTotal,
		Currency:         status.Currency,
		AlreadyProcessed: alreadyProcessed,
	}, nil
}

// HandleWebhook settles a session from a provider notification. It goes
// through the same single-settlement path as polling, so a webhook and a
// poll racing each other still activate the subscription once.
func (s *Service) HandleWebhook(ctx context.Context, sessionID, paymentStatus string) error {
	tx, err := s.repo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateStatus(ctx, sessionID, paymentStatus); err != nil {
		return fmt.Errorf("updating payment status: %w", err)
	}

	if paymentStatus != StatusPaid || tx.Processed {
		return nil
	}

	first, err := s.repo.MarkProcessed(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("settling session: %w", err)
	}
	if !first {
		return nil
	}

	return s.activate(ctx, tx.UserID)
}

func (s *Service) activate(ctx context.Context, userID string) error {
	until := s.now().Add(SubscriptionDays * 24 * time.Hour)
	if err := s.users.ActivateSubscription(ctx, userID, until); err != nil {
		return fmt.Errorf("activating subscription: %w", err)
	}
	log.Printf("Subscription activated for user %s until %s", userID, until.Format(time.RFC3339))
	return nil
}
