package payment

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"lompakko/internal/domain/user"
)

type mockRepo struct {
	transactions map[string]*Transaction
	created      []CreateParams
	statusCalls  []string
}

func newMockRepo() *mockRepo {
	return &mockRepo{transactions: map[string]*Transaction{}}
}

func (m *mockRepo) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	m.created = append(m.created, params)
	tx := &Transaction{
		ID:            "tx-1",
		UserID:        params.UserID,
		SessionID:     params.SessionID,
		Amount:        params.Amount,
		Currency:      params.Currency,
		PaymentStatus: params.PaymentStatus,
	}
	m.transactions[params.SessionID] = tx
	return tx, nil
}

func (m *mockRepo) GetBySessionID(ctx context.Context, sessionID string) (*Transaction, error) {
	tx, ok := m.transactions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *tx
	return &copied, nil
}

func (m *mockRepo) UpdateStatus(ctx context.Context, sessionID, paymentStatus string) error {
	m.statusCalls = append(m.statusCalls, paymentStatus)
	if tx, ok := m.transactions[sessionID]; ok {
		tx.PaymentStatus = paymentStatus
	}
	return nil
}

func (m *mockRepo) MarkProcessed(ctx context.Context, sessionID string) (bool, error) {
	tx, ok := m.transactions[sessionID]
	if !ok {
		return false, ErrNotFound
	}
	if tx.Processed {
		return false, nil
	}
	tx.Processed = true
	return true, nil
}

type mockProvider struct {
	session    *Session
	sessionErr error
	status     *SessionStatus
	statusErr  error
	created    []CreateSessionParams
}

func (m *mockProvider) CreateSession(ctx context.Context, params CreateSessionParams) (*Session, error) {
	m.created = append(m.created, params)
	if m.sessionErr != nil {
		return nil, m.sessionErr
	}
	return m.session, nil
}

func (m *mockProvider) GetSessionStatus(ctx context.Context, sessionID string) (*SessionStatus, error) {
	if m.statusErr != nil {
		return nil, m.statusErr
	}
	return m.status, nil
}

type mockUserRepo struct {
	activations []string
	until       time.Time
}

func (m *mockUserRepo) Create(ctx context.Context, params user.CreateParams) (*user.User, error) {
	return nil, errors.New("not implemented")
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*user.User, error) {
	return nil, user.ErrNotFound
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, user.ErrNotFound
}

func (m *mockUserRepo) ActivateSubscription(ctx context.Context, userID string, until time.Time) error {
	m.activations = append(m.activations, userID)
	m.until = until
	return nil
}

func (m *mockUserRepo) DeactivateExpiredSubscriptions(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

func newTestService(repo *mockRepo, provider *mockProvider, users *mockUserRepo) *Service {
	s := NewService(repo, provider, users)
	s.now = func() time.Time {
		return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	return s
}

func TestCheckout(t *testing.T) {
	repo := newMockRepo()
	provider := &mockProvider{
		session: &Session{URL: "https://checkout.example.com/cs_123", SessionID: "cs_123"},
	}
	service := newTestService(repo, provider, &mockUserRepo{})

	session, err := service.Checkout(context.Background(), "user-1", "https://app.example.com/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if session.SessionID != "cs_123" {
		t.Errorf("session ID = %q, want cs_123", session.SessionID)
	}

	if len(provider.created) != 1 {
		t.Fatalf("expected 1 provider call, got %d", len(provider.created))
	}
	params := provider.created[0]
	if params.Amount != SubscriptionPrice {
		t.Errorf("amount = %v, want %v", params.Amount, SubscriptionPrice)
	}
	if params.Currency != Currency {
		t.Errorf("currency = %q, want %q", params.Currency, Currency)
	}
	if params.SuccessURL != "https://app.example.com/payment/success?session_id={CHECKOUT_SESSION_ID}" {
		t.Errorf("unexpected success URL %q", params.SuccessURL)
	}
	if params.Metadata["user_id"] != "user-1" {
		t.Errorf("metadata user_id = %q, want user-1", params.Metadata["user_id"])
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected 1 recorded transaction, got %d", len(repo.created))
	}
	if repo.created[0].PaymentStatus != StatusPending {
		t.Errorf("recorded status = %q, want %q", repo.created[0].PaymentStatus, StatusPending)
	}
}

func TestCheckout_ProviderError(t *testing.T) {
	repo := newMockRepo()
	provider := &mockProvider{sessionErr: errors.New("provider down")}
	service := newTestService(repo, provider, &mockUserRepo{})

	_, err := service.Checkout(context.Background(), "user-1", "https://app.example.com")
	if err == nil {
		t.Fatal("expected error")
	}
	if len(repo.created) != 0 {
		t.Error("no transaction should be recorded when session creation fails")
	}
}

func TestStatus_PaidActivatesOnce(t *testing.T) {
	repo := newMockRepo()
	repo.transactions["cs_123"] = &Transaction{
		ID: "tx-1", UserID: "user-1", SessionID: "cs_123", PaymentStatus: StatusPending,
	}
	provider := &mockProvider{
		status: &SessionStatus{Status: "complete", PaymentStatus: StatusPaid, AmountTotal: 4.99, Currency: "eur"},
	}
	users := &mockUserRepo{}
	service := newTestService(repo, provider, users)

	result, err := service.Status(context.Background(), "cs_123", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.PaymentStatus != StatusPaid {
		t.Errorf("payment status = %q, want paid", result.PaymentStatus)
	}
	if result.AlreadyProcessed {
		t.Error("first paid poll should not report already_processed")
	}
	if len(users.activations) != 1 || users.activations[0] != "user-1" {
		t.Fatalf("activations = %v, want exactly one for user-1", users.activations)
	}
	wantUntil := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	if !users.until.Equal(wantUntil) {
		t.Errorf("subscription end = %v, want %v", users.until, wantUntil)
	}

	// A second poll of the same paid session must not activate again.
	result, err = service.Status(context.Background(), "cs_123", "user-1")
	if err != nil {
		t.Fatalf("unexpected error on second poll: %v", err)
	}
	if !result.AlreadyProcessed {
		t.Error("second poll should report already_processed")
	}
	if len(users.activations) != 1 {
		t.Errorf("activations after second poll = %d, want 1", len(users.activations))
	}
}

func TestStatus_PendingDoesNotActivate(t *testing.T) {
	repo := newMockRepo()
	repo.transactions["cs_123"] = &Transaction{
		ID: "tx-1", UserID: "user-1", SessionID: "cs_123", PaymentStatus: StatusPending,
	}
	provider := &mockProvider{
		status: &SessionStatus{Status: "open", PaymentStatus: StatusPending},
	}
	users := &mockUserRepo{}
	service := newTestService(repo, provider, users)

	result, err := service.Status(context.Background(), "cs_123", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.PaymentStatus != StatusPending {
		t.Errorf("payment status = %q, want pending", result.PaymentStatus)
	}
	if len(users.activations) != 0 {
		t.Error("pending session must not activate the subscription")
	}
}

func TestStatus_WrongUser(t *testing.T) {
	repo := newMockRepo()
	repo.transactions["cs_123"] = &Transaction{
		ID: "tx-1", UserID: "user-1", SessionID: "cs_123",
	}
	service := newTestService(repo, &mockProvider{}, &mockUserRepo{})

	_, err := service.Status(context.Background(), "cs_123", "user-2")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for another user's session, got %v", err)
	}
}

func TestStatus_UnknownSession(t *testing.T) {
	service := newTestService(newMockRepo(), &mockProvider{}, &mockUserRepo{})

	_, err := service.Status(context.Background(), "cs_missing", "user-1")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStatus_ProviderError(t *testing.T) {
	repo := newMockRepo()
	repo.transactions["cs_123"] = &Transaction{
		ID: "tx-1", UserID: "user-1", SessionID: "cs_123",
	}
	provider := &mockProvider{statusErr: errors.New("timeout")}
	service := newTestService(repo, provider, &mockUserRepo{})

	_, err := service.Status(context.Background(), "cs_123", "user-1")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "session status") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestHandleWebhook_PaidActivatesOnce(t *testing.T) {
	repo := newMockRepo()
	repo.transactions["cs_123"] = &Transaction{
		ID: "tx-1", UserID: "user-1", SessionID: "cs_123", PaymentStatus: StatusPending,
	}
	users := &mockUserRepo{}
	service := newTestService(repo, &mockProvider{}, users)

	if err := service.HandleWebhook(context.Background(), "cs_123", StatusPaid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users.activations) != 1 {
		t.Fatalf("activations = %d, want 1", len(users.activations))
	}

	// Replayed webhook is a no-op.
	if err := service.HandleWebhook(context.Background(), "cs_123", StatusPaid); err != nil {
		t.Fatalf("unexpected error on replay: %v", err)
	}
	if len(users.activations) != 1 {
		t.Errorf("activations after replay = %d, want 1", len(users.activations))
	}
}

func TestHandleWebhook_Unpaid(t *testing.T) {
	repo := newMockRepo()
	repo.transactions["cs_123"] = &Transaction{
		ID: "tx-1", UserID: "user-1", SessionID: "cs_123", PaymentStatus: StatusPending,
	}
	users := &mockUserRepo{}
	service := newTestService(repo, &mockProvider{}, users)

	if err := service.HandleWebhook(context.Background(), "cs_123", StatusUnpaid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users.activations) != 0 {
		t.Error("unpaid session must not activate the subscription")
	}
	if repo.transactions["cs_123"].PaymentStatus != StatusUnpaid {
		t.Errorf("stored status = %q, want unpaid", repo.transactions["cs_123"].PaymentStatus)
	}
}
