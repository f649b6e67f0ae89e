// Package nordigen implements the bank.Aggregator interface against the
// GoCardless Bank Account Data API (formerly Nordigen).
package nordigen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"lompakko/internal/domain/bank"
)

const (
	defaultBaseURL = "https://bankaccountdata.gocardless.com"
	defaultTimeout = 30 * time.Second

	tokenPath        = "/api/v2/token/new/"
	institutionsPath = "/api/v2/institutions/"
	requisitionsPath = "/api/v2/requisitions/"
	accountsPath     = "/api/v2/accounts/"
)

// Client handles communication with the bank data API. Access tokens are
// cached and refreshed shortly before they expire.
type Client struct {
	httpClient *http.Client
	baseURL    string
	secretID   string
	secretKey  string

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// Ensure Client implements the aggregator interface
var _ bank.Aggregator = (*Client)(nil)

// NewClient creates a new bank data API client
func NewClient(secretID, secretKey string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL:   defaultBaseURL,
		secretID:  secretID,
		secretKey: secretKey,
	}
}

type tokenResponse struct {
	Access        string `json:"access"`
	AccessExpires int    `json:"access_expires"`
}

type institutionResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	BIC  string `json:"bic"`
	Logo string `json:"logo"`
}

type requisitionResponse struct {
	ID        string   `json:"id"`
	Status    string   `json:"status"`
	Link      string   `json:"link"`
	Reference string   `json:"reference"`
	Accounts  []string `json:"accounts"`
}

type accountDetailsResponse struct {
	Account struct {
		IBAN     string `json:"iban"`
		Name     string `json:"name"`
		Currency string `json:"currency"`
	} `json:"account"`
}

type transactionsResponse struct {
	Transactions struct {
		Booked []struct {
			TransactionID         string `json:"transactionId"`
			InternalTransactionID string `json:"internalTransactionId"`
			BookingDate           string `json:"bookingDate"`
			TransactionAmount     struct {
				Amount   string `json:"amount"`
				Currency string `json:"currency"`
			} `json:"transactionAmount"`
			RemittanceInformationUnstructured string `json:"remittanceInformationUnstructured"`
			CreditorName                      string `json:"creditorName"`
			DebtorName                        string `json:"debtorName"`
		} `json:"booked"`
	} `json:"transactions"`
}

type errorResponse struct {
	Summary string `json:"summary"`
	Detail  string `json:"detail"`
}

// ListInstitutions lists banks available for a country code
func (c *Client) ListInstitutions(ctx context.Context, country string) ([]bank.Institution, error) {
	var resp []institutionResponse
	url := c.baseURL + institutionsPath + "?country=" + country
	if err := c.doJSON(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return nil, err
	}

	institutions := make([]bank.Institution, 0, len(resp))
	for _, inst := range resp {
		institutions = append(institutions, bank.Institution{
			ID:   inst.ID,
			Name: inst.Name,
			BIC:  inst.BIC,
			Logo: inst.Logo,
		})
	}
	return institutions, nil
}

// CreateRequisition opens a new bank consent
func (c *Client) CreateRequisition(ctx context.Context, institutionID, redirectURL, reference string) (*bank.Requisition, error) {
	payload := map[string]string{
		"institution_id": institutionID,
		"redirect":       redirectURL,
		"reference":      reference,
	}

	var resp requisitionResponse
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+requisitionsPath, payload, &resp); err != nil {
		return nil, err
	}

	return toRequisition(&resp), nil
}

// GetRequisition fetches the current state of a consent
func (c *Client) GetRequisition(ctx context.Context, requisitionID string) (*bank.Requisition, error) {
	var resp requisitionResponse
	url := c.baseURL + requisitionsPath + requisitionID + "/"
	if err := c.doJSON(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return nil, err
	}

	return toRequisition(&resp), nil
}

// GetAccountDetails fetches IBAN and naming for one account
func (c *Client) GetAccountDetails(ctx context.Context, accountID string) (*bank.Account, error) {
	var resp accountDetailsResponse
	url := c.baseURL + accountsPath + accountID + "/details/"
	if err := c.doJSON(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return nil, err
	}

	return &bank.Account{
		ID:       accountID,
		IBAN:     resp.Account.IBAN,
		Name:     resp.Account.Name,
		Currency: resp.Account.Currency,
	}, nil
}

// ListAccountTransactions fetches booked transactions for one account.
// Amounts come back as strings and are negative for debits.
func (c *Client) ListAccountTransactions(ctx context.Context, accountID string) ([]bank.ProviderTransaction, error) {
	var resp transactionsResponse
	url := c.baseURL + accountsPath + accountID + "/transactions/"
	if err := c.doJSON(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return nil, err
	}

	transactions := make([]bank.ProviderTransaction, 0, len(resp.Transactions.Booked))
	for _, tx := range resp.Transactions.Booked {
		amount, err := strconv.ParseFloat(tx.TransactionAmount.Amount, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse amount '%s': %w", tx.TransactionAmount.Amount, err)
		}

		id := tx.InternalTransactionID
		if id == "" {
			id = tx.TransactionID
		}

		description := tx.RemittanceInformationUnstructured
		if description == "" {
			if tx.CreditorName != "" {
				description = tx.CreditorName
			} else {
				description = tx.DebtorName
			}
		}

		transactions = append(transactions, bank.ProviderTransaction{
			ID:          id,
			Amount:      amount,
			Currency:    tx.TransactionAmount.Currency,
			Date:        tx.BookingDate,
			Description: description,
		})
	}

	return transactions, nil
}

func toRequisition(resp *requisitionResponse) *bank.Requisition {
	return &bank.Requisition{
		ID:        resp.ID,
		Status:    resp.Status,
		Link:      resp.Link,
		Reference: resp.Reference,
		Accounts:  resp.Accounts,
	}
}

// token returns a valid access token, exchanging the secrets for a new
// one when the cached token is missing or about to expire.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	payload, err := json.Marshal(map[string]string{
		"secret_id":  c.secretID,
		"secret_key": c.secretKey,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+tokenPath, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", apiError(resp.StatusCode, body)
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal token response: %w", err)
	}

	c.accessToken = tokenResp.Access
	// Renew one minute early so in-flight requests never carry a stale token.
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.AccessExpires)*time.Second - time.Minute)

	return c.accessToken, nil
}

func (c *Client) doJSON(ctx context.Context, method, url string, payload, out any) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

func apiError(status int, body []byte) error {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Summary == "" {
		return fmt.Errorf("API request failed with status %d: %s", status, string(body))
	}
	return fmt.Errorf("API error (status %d): %s - %s", status, errResp.Summary, errResp.Detail)
}
