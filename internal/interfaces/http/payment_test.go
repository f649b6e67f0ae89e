package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"context"

	"lompakko/internal/domain/payment"
)

// MockPaymentRepo implements payment.Repository for testing
type MockPaymentRepo struct {
	CreateFunc         func(ctx context.Context, params payment.CreateParams) (*payment.Transaction, error)
	GetBySessionIDFunc func(ctx context.Context, sessionID string) (*payment.Transaction, error)
	MarkProcessedFunc  func(ctx context.Context, sessionID string) (bool, error)
}

func (m *MockPaymentRepo) Create(ctx context.Context, params payment.CreateParams) (*payment.Transaction, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return &payment.Transaction{ID: "tx-1", SessionID: params.SessionID, UserID: params.UserID}, nil
}

func (m *MockPaymentRepo) GetBySessionID(ctx context.Context, sessionID string) (*payment.Transaction, error) {
	if m.GetBySessionIDFunc != nil {
		return m.GetBySessionIDFunc(ctx, sessionID)
	}
	return nil, payment.ErrNotFound
}

func (m *MockPaymentRepo) UpdateStatus(ctx context.Context, sessionID, paymentStatus string) error {
	return nil
}

func (m *MockPaymentRepo) MarkProcessed(ctx context.Context, sessionID string) (bool, error) {
	if m.MarkProcessedFunc != nil {
		return m.MarkProcessedFunc(ctx, sessionID)
	}
	return true, nil
}

// MockCheckoutProvider implements payment.CheckoutProvider for testing
type MockCheckoutProvider struct {
	CreateSessionFunc    func(ctx context.Context, params payment.CreateSessionParams) (*payment.Session, error)
	GetSessionStatusFunc func(ctx context.Context, sessionID string) (*payment.SessionStatus, error)
}

func (m *MockCheckoutProvider) CreateSession(ctx context.Context, params payment.CreateSessionParams) (*payment.Session, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, params)
	}
	return &payment.Session{URL: "https://checkout.example.com/cs_1", SessionID: "cs_1"}, nil
}

func (m *MockCheckoutProvider) GetSessionStatus(ctx context.Context, sessionID string) (*payment.SessionStatus, error) {
	if m.GetSessionStatusFunc != nil {
		return m.GetSessionStatusFunc(ctx, sessionID)
	}
	return &payment.SessionStatus{Status: "open", PaymentStatus: payment.StatusPending}, nil
}

func newPaymentHandler(repo *MockPaymentRepo, provider *MockCheckoutProvider) *PaymentHandler {
	service := payment.NewService(repo, provider, &MockUserRepo{})
	return NewPaymentHandler(service)
}

func TestHandleCheckout(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler := newPaymentHandler(&MockPaymentRepo{}, &MockCheckoutProvider{})

		body, _ := json.Marshal(CheckoutRequest{OriginURL: "https://app.example.com"})
		rr := httptest.NewRecorder()
		handler.HandleCheckout(rr, authedRequest(http.MethodPost, "/api/payments/checkout", body))

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", rr.Code, rr.Body.String())
		}
		var session payment.Session
		if err := json.Unmarshal(rr.Body.Bytes(), &session); err != nil || session.SessionID == "" {
			t.Errorf("unexpected body %s", rr.Body.String())
		}
	})

	t.Run("Missing Origin", func(t *testing.T) {
		handler := newPaymentHandler(&MockPaymentRepo{}, &MockCheckoutProvider{})

		body, _ := json.Marshal(CheckoutRequest{})
		rr := httptest.NewRecorder()
		handler.HandleCheckout(rr, authedRequest(http.MethodPost, "/api/payments/checkout", body))

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rr.Code)
		}
	})
}

func TestHandleStatus(t *testing.T) {
	repo := &MockPaymentRepo{
		GetBySessionIDFunc: func(ctx context.Context, sessionID string) (*payment.Transaction, error) {
			if sessionID == "cs_1" {
				return &payment.Transaction{ID: "tx-1", UserID: "user-1", SessionID: "cs_1"}, nil
			}
			return nil, payment.ErrNotFound
		},
	}
	provider := &MockCheckoutProvider{
		GetSessionStatusFunc: func(ctx context.Context, sessionID string) (*payment.SessionStatus, error) {
			return &payment.SessionStatus{Status: "complete", PaymentStatus: payment.StatusPaid, AmountTotal: 4.99, Currency: "eur"}, nil
		},
	}
	handler := newPaymentHandler(repo, provider)

	t.Run("Paid", func(t *testing.T) {
		req := authedRequest(http.MethodGet, "/api/payments/status/cs_1", nil)
		req.SetPathValue("session_id", "cs_1")
		rr := httptest.NewRecorder()
		handler.HandleStatus(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", rr.Code, rr.Body.String())
		}
		var result payment.StatusResult
		if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if result.PaymentStatus != payment.StatusPaid {
			t.Errorf("payment status = %q, want paid", result.PaymentStatus)
		}
	})

	t.Run("Unknown Session", func(t *testing.T) {
		req := authedRequest(http.MethodGet, "/api/payments/status/cs_missing", nil)
		req.SetPathValue("session_id", "cs_missing")
		rr := httptest.NewRecorder()
		handler.HandleStatus(rr, req)

		if rr.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rr.Code)
		}
	})
}

func TestHandleCategories(t *testing.T) {
	rr := httptest.NewRecorder()
	HandleCategories(rr, httptest.NewRequest(http.MethodGet, "/api/categories", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var categories []map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &categories); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if len(categories) != 8 {
		t.Errorf("len = %d, want 8 categories", len(categories))
	}
}
