package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"lompakko/internal/domain/payment"
)

func TestCreateSession(t *testing.T) {
	var gotForm map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != sessionsPath || r.Method != http.MethodPost {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("Authorization") != "Bearer sk_test_123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		r.ParseForm()
		gotForm = map[string]string{}
		for key := range r.PostForm {
			gotForm[key] = r.PostForm.Get(key)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":             "cs_test_1",
			"url":            "https://checkout.example.com/cs_test_1",
			"status":         "open",
			"payment_status": "unpaid",
		})
	}))
	defer server.Close()

	client := NewClient("sk_test_123")
	client.baseURL = server.URL

	session, err := client.CreateSession(context.Background(), payment.CreateSessionParams{
		Amount:     4.99,
		Currency:   "eur",
		SuccessURL: "https://app.example.com/payment/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  "https://app.example.com/payment/cancel",
		Metadata:   map[string]string{"user_id": "user-1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if session.SessionID != "cs_test_1" {
		t.Errorf("session ID = %q, want cs_test_1", session.SessionID)
	}
	// 4.99 EUR becomes 499 minor units.
	if gotForm["line_items[0][price_data][unit_amount]"] != "499" {
		t.Errorf("unit_amount = %q, want 499", gotForm["line_items[0][price_data][unit_amount]"])
	}
	if gotForm["metadata[user_id]"] != "user-1" {
		t.Errorf("metadata = %q, want user-1", gotForm["metadata[user_id]"])
	}
}

func TestGetSessionStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != sessionsPath+"/cs_test_1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":             "cs_test_1",
			"status":         "complete",
			"payment_status": "paid",
			"amount_total":   499,
			"currency":       "eur",
		})
	}))
	defer server.Close()

	client := NewClient("sk_test_123")
	client.baseURL = server.URL

	status, err := client.GetSessionStatus(context.Background(), "cs_test_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.PaymentStatus != "paid" {
		t.Errorf("payment status = %q, want paid", status.PaymentStatus)
	}
	if status.AmountTotal != 4.99 {
		t.Errorf("amount = %v, want 4.99", status.AmountTotal)
	}
}

func TestAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{
				"type":    "invalid_request_error",
				"message": "No such checkout session",
			},
		})
	}))
	defer server.Close()

	client := NewClient("sk_test_123")
	client.baseURL = server.URL

	_, err := client.GetSessionStatus(context.Background(), "cs_missing")
	if err == nil {
		t.Fatal("expected error")
	}
}
