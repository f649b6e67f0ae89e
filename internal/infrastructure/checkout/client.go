// Package checkout implements the payment.CheckoutProvider interface
// against the Stripe Checkout API.
package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"lompakko/internal/domain/payment"
)

const (
	defaultBaseURL = "https://api.stripe.com"
	defaultTimeout = 30 * time.Second

	sessionsPath = "/v1/checkout/sessions"
)

// Client handles communication with the hosted checkout API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Ensure Client implements the provider interface
var _ payment.CheckoutProvider = (*Client)(nil)

// NewClient creates a new checkout API client
func NewClient(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
	}
}

type sessionResponse struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	AmountTotal   int64  `json:"amount_total"` // minor units
	Currency      string `json:"currency"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateSession opens a hosted checkout session. The amount is converted
// to minor units as the API expects.
func (c *Client) CreateSession(ctx context.Context, params payment.CreateSessionParams) (*payment.Session, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", params.Currency)
	form.Set("line_items[0][price_data][product_data][name]", "Premium-tilaus")
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(toMinorUnits(params.Amount), 10))
	for key, value := range params.Metadata {
		form.Set("metadata["+key+"]", value)
	}

	var resp sessionResponse
	if err := c.doForm(ctx, http.MethodPost, c.baseURL+sessionsPath, form, &resp); err != nil {
		return nil, err
	}

	return &payment.Session{
		URL:       resp.URL,
		SessionID: resp.ID,
	}, nil
}

// GetSessionStatus fetches the current state of a checkout session
func (c *Client) GetSessionStatus(ctx context.Context, sessionID string) (*payment.SessionStatus, error) {
	var resp sessionResponse
	if err := c.doForm(ctx, http.MethodGet, c.baseURL+sessionsPath+"/"+sessionID, nil, &resp); err != nil {
		return nil, err
	}

	return &payment.SessionStatus{
		Status:        resp.Status,
		PaymentStatus: resp.PaymentStatus,
		AmountTotal:   fromMinorUnits(resp.AmountTotal),
		Currency:      resp.Currency,
	}, nil
}

func (c *Client) doForm(ctx context.Context, method, endpoint string, form url.Values, out any) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if err := json.Unmarshal(data, &errResp); err != nil || errResp.Error.Message == "" {
			return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(data))
		}
		return fmt.Errorf("API error (status %d): %s - %s", resp.StatusCode, errResp.Error.Type, errResp.Error.Message)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func fromMinorUnits(amount int64) float64 {
	return float64(amount) / 100
}
