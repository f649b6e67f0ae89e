package nordigen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newTestServer fakes the token endpoint plus whatever extra routes the
// test registers.
func newTestServer(t *testing.T, handler func(mux *http.ServeMux)) *Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc(tokenPath, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var creds map[string]string
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds["secret_id"] == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"access": "test-token", "access_expires": 3600})
	})
	handler(mux)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := NewClient("id", "key")
	client.baseURL = server.URL
	return client
}

func TestListInstitutions(t *testing.T) {
	var gotAuth, gotCountry string
	client := newTestServer(t, func(mux *http.ServeMux) {
		mux.HandleFunc(institutionsPath, func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotCountry = r.URL.Query().Get("country")
			json.NewEncoder(w).Encode([]map[string]string{
				{"id": "NORDEA_NDEAFIHH", "name": "Nordea", "bic": "NDEAFIHH"},
				{"id": "OP_OKOYFIHH", "name": "OP", "bic": "OKOYFIHH"},
			})
		})
	})

	institutions, err := client.ListInstitutions(context.Background(), "FI")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotAuth != "Bearer test-token" {
		t.Errorf("authorization header = %q, want bearer token", gotAuth)
	}
	if gotCountry != "FI" {
		t.Errorf("country = %q, want FI", gotCountry)
	}
	if len(institutions) != 2 || institutions[0].Name != "Nordea" {
		t.Errorf("unexpected institutions: %+v", institutions)
	}
}

func TestCreateRequisition(t *testing.T) {
	client := newTestServer(t, func(mux *http.ServeMux) {
		mux.HandleFunc(requisitionsPath, func(w http.ResponseWriter, r *http.Request) {
			var payload map[string]string
			json.NewDecoder(r.Body).Decode(&payload)
			if payload["institution_id"] != "NORDEA_NDEAFIHH" || payload["reference"] == "" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]any{
				"id":        "req-1",
				"status":    "CR",
				"link":      "https://ob.example.com/start",
				"reference": payload["reference"],
			})
		})
	})

	req, err := client.CreateRequisition(context.Background(), "NORDEA_NDEAFIHH", "https://app.example.com/banks", "ref-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.ID != "req-1" || req.Status != "CR" || req.Reference != "ref-1" {
		t.Errorf("unexpected requisition: %+v", req)
	}
}

func TestListAccountTransactions(t *testing.T) {
	client := newTestServer(t, func(mux *http.ServeMux) {
		mux.HandleFunc(accountsPath+"acc-1/transactions/", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"transactions": map[string]any{
					"booked": []map[string]any{
						{
							"internalTransactionId": "t1",
							"bookingDate":           "2024-03-02",
							"transactionAmount":     map[string]string{"amount": "-45.20", "currency": "EUR"},
							"remittanceInformationUnstructured": "S-MARKET HELSINKI",
						},
						{
							"transactionId":     "t2",
							"bookingDate":       "2024-03-01",
							"transactionAmount": map[string]string{"amount": "2800.00", "currency": "EUR"},
							"debtorName":        "Firma Oy",
						},
					},
				},
			})
		})
	})

	transactions, err := client.ListAccountTransactions(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(transactions))
	}
	if transactions[0].ID != "t1" || transactions[0].Amount != -45.20 {
		t.Errorf("unexpected first transaction: %+v", transactions[0])
	}
	// Falls back to transactionId and the debtor name.
	if transactions[1].ID != "t2" || transactions[1].Description != "Firma Oy" {
		t.Errorf("unexpected second transaction: %+v", transactions[1])
	}
}

func TestAPIError(t *testing.T) {
	client := newTestServer(t, func(mux *http.ServeMux) {
		mux.HandleFunc(requisitionsPath+"missing/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{
				"summary": "Not found",
				"detail":  "Requisition missing not found",
			})
		})
	})

	_, err := client.GetRequisition(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestTokenCaching(t *testing.T) {
	tokenCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc(tokenPath, func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		json.NewEncoder(w).Encode(map[string]any{"access": "tok", "access_expires": 3600})
	})
	mux.HandleFunc(institutionsPath, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]string{})
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient("id", "key")
	client.baseURL = server.URL

	for i := 0; i < 3; i++ {
		if _, err := client.ListInstitutions(context.Background(), "FI"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if tokenCalls != 1 {
		t.Errorf("token endpoint called %d times, want 1", tokenCalls)
	}
}
