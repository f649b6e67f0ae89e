// Package client is a programmatic client for the Lompakko API. It
// persists the bearer token between invocations and implements the
// client-side payment confirmation and bank-connection flows.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lompakko/internal/domain/bank"
	"lompakko/internal/domain/budget"
	"lompakko/internal/domain/expense"
	"lompakko/internal/domain/income"
	"lompakko/internal/domain/loan"
	"lompakko/internal/domain/payment"
	"lompakko/internal/domain/report"
	"lompakko/internal/domain/savings"
	"lompakko/internal/domain/user"
)

// ErrUnauthorized is returned when no token is stored or the API
// rejects the current one. The stored token is cleared before it is
// returned, so the next call prompts a fresh login.
var ErrUnauthorized = errors.New("unauthorized, please log in again")

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Detail)
}

// IsNotConfigured reports whether the error is the backend signalling
// that the open-banking aggregator credentials are missing. The marker
// is a 500 whose detail mentions the integration is not configured.
func IsNotConfigured(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusInternalServerError &&
		strings.Contains(apiErr.Detail, "not configured")
}

// Client talks to the Lompakko API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
}

// New creates a client for the API at baseURL. Tokens are read from
// and written to the given store.
func New(baseURL string, tokens TokenStore) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		tokens:     tokens,
	}
}

// Auth is the register/login response.
type Auth struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

// ImportResult is the response of a transaction import.
type ImportResult struct {
	Imported int    `json:"imported"`
	Message  string `json:"message"`
}

// Category is one entry of the expense category listing.
type Category struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Register creates an account and stores the returned token.
func (c *Client) Register(ctx context.Context, email, name, password string) (*user.User, error) {
	body := map[string]string{"email": email, "name": name, "password": password}

	var auth Auth
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &auth, false); err != nil {
		return nil, err
	}
	if err := c.tokens.Save(auth.Token); err != nil {
		return nil, err
	}
	return auth.User, nil
}

// Login authenticates and stores the returned token.
func (c *Client) Login(ctx context.Context, email, password string) (*user.User, error) {
	body := map[string]string{"email": email, "password": password}

	var auth Auth
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &auth, false); err != nil {
		return nil, err
	}
	if err := c.tokens.Save(auth.Token); err != nil {
		return nil, err
	}
	return auth.User, nil
}

// Logout discards the stored token.
func (c *Client) Logout() error {
	return c.tokens.Clear()
}

// Me returns the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*user.User, error) {
	var u user.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &u, true); err != nil {
		return nil, err
	}
	return &u, nil
}

// Summary fetches the dashboard aggregation for the given month
// (YYYY-MM, empty for the current month).
func (c *Client) Summary(ctx context.Context, month string) (*report.Summary, error) {
	path := "/api/dashboard/summary"
	if month != "" {
		path += "?month=" + url.QueryEscape(month)
	}

	var summary report.Summary
	if err := c.do(ctx, http.MethodGet, path, nil, &summary, true); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) Budgets(ctx context.Context) ([]*budget.Budget, error) {
	var budgets []*budget.Budget
	if err := c.do(ctx, http.MethodGet, "/api/budgets", nil, &budgets, true); err != nil {
		return nil, err
	}
	return budgets, nil
}

func (c *Client) SetBudget(ctx context.Context, amount float64, month string) (*budget.Budget, error) {
	body := map[string]any{"amount": amount, "month": month}

	var b budget.Budget
	if err := c.do(ctx, http.MethodPost, "/api/budgets", body, &b, true); err != nil {
		return nil, err
	}
	return &b, nil
}

// CurrentBudget returns the budget for the current month, or nil when
// none is set.
func (c *Client) CurrentBudget(ctx context.Context) (*budget.Budget, error) {
	var b *budget.Budget
	if err := c.do(ctx, http.MethodGet, "/api/budgets/current", nil, &b, true); err != nil {
		return nil, err
	}
	return b, nil
}

func (c *Client) Expenses(ctx context.Context, month string) ([]*expense.Expense, error) {
	path := "/api/expenses"
	if month != "" {
		path += "?month=" + url.QueryEscape(month)
	}

	var expenses []*expense.Expense
	if err := c.do(ctx, http.MethodGet, path, nil, &expenses, true); err != nil {
		return nil, err
	}
	return expenses, nil
}

func (c *Client) CreateExpense(ctx context.Context, amount float64, description, category, date string) (*expense.Expense, error) {
	body := map[string]any{
		"amount": amount, "description": description, "category": category, "date": date,
	}

	var e expense.Expense
	if err := c.do(ctx, http.MethodPost, "/api/expenses", body, &e, true); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) DeleteExpense(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/expenses/"+url.PathEscape(id), nil, nil, true)
}

func (c *Client) Incomes(ctx context.Context, month string) ([]*income.Income, error) {
	path := "/api/incomes"
	if month != "" {
		path += "?month=" + url.QueryEscape(month)
	}

	var incomes []*income.Income
	if err := c.do(ctx, http.MethodGet, path, nil, &incomes, true); err != nil {
		return nil, err
	}
	return incomes, nil
}

func (c *Client) CreateIncome(ctx context.Context, amount float64, description, source, date string, recurring bool) (*income.Income, error) {
	body := map[string]any{
		"amount": amount, "description": description, "source": source,
		"date": date, "recurring": recurring,
	}

	var i income.Income
	if err := c.do(ctx, http.MethodPost, "/api/incomes", body, &i, true); err != nil {
		return nil, err
	}
	return &i, nil
}

func (c *Client) DeleteIncome(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/incomes/"+url.PathEscape(id), nil, nil, true)
}

// LoanParams is the request body for creating or updating a loan.
type LoanParams struct {
	Name            string  `json:"name"`
	LoanType        string  `json:"loan_type"`
	OriginalAmount  float64 `json:"original_amount"`
	RemainingAmount float64 `json:"remaining_amount"`
	InterestRate    float64 `json:"interest_rate"`
	MonthlyPayment  float64 `json:"monthly_payment"`
	StartDate       string  `json:"start_date"`
	EndDate         *string `json:"end_date,omitempty"`
}

func (c *Client) Loans(ctx context.Context) ([]*loan.Loan, error) {
	var loans []*loan.Loan
	if err := c.do(ctx, http.MethodGet, "/api/loans", nil, &loans, true); err != nil {
		return nil, err
	}
	return loans, nil
}

func (c *Client) CreateLoan(ctx context.Context, params LoanParams) (*loan.Loan, error) {
	var l loan.Loan
	if err := c.do(ctx, http.MethodPost, "/api/loans", params, &l, true); err != nil {
		return nil, err
	}
	return &l, nil
}

func (c *Client) UpdateLoan(ctx context.Context, id string, params LoanParams) (*loan.Loan, error) {
	var l loan.Loan
	if err := c.do(ctx, http.MethodPut, "/api/loans/"+url.PathEscape(id), params, &l, true); err != nil {
		return nil, err
	}
	return &l, nil
}

func (c *Client) DeleteLoan(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/loans/"+url.PathEscape(id), nil, nil, true)
}

// SavingsGoalParams is the request body for creating or updating a
// savings goal.
type SavingsGoalParams struct {
	Name          string  `json:"name"`
	TargetAmount  float64 `json:"target_amount"`
	CurrentAmount float64 `json:"current_amount"`
	TargetDate    *string `json:"target_date,omitempty"`
	Icon          string  `json:"icon"`
}

func (c *Client) SavingsGoals(ctx context.Context) ([]*savings.Goal, error) {
	var goals []*savings.Goal
	if err := c.do(ctx, http.MethodGet, "/api/savings", nil, &goals, true); err != nil {
		return nil, err
	}
	return goals, nil
}

func (c *Client) CreateSavingsGoal(ctx context.Context, params SavingsGoalParams) (*savings.Goal, error) {
	var g savings.Goal
	if err := c.do(ctx, http.MethodPost, "/api/savings", params, &g, true); err != nil {
		return nil, err
	}
	return &g, nil
}

func (c *Client) UpdateSavingsGoal(ctx context.Context, id string, params SavingsGoalParams) (*savings.Goal, error) {
	var g savings.Goal
	if err := c.do(ctx, http.MethodPut, "/api/savings/"+url.PathEscape(id), params, &g, true); err != nil {
		return nil, err
	}
	return &g, nil
}

func (c *Client) DeleteSavingsGoal(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/savings/"+url.PathEscape(id), nil, nil, true)
}

func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, &categories, false); err != nil {
		return nil, err
	}
	return categories, nil
}

// Checkout starts a subscription checkout. The returned session URL
// is opened in the browser; originURL is where the provider sends the
// user back afterwards.
func (c *Client) Checkout(ctx context.Context, originURL string) (*payment.Session, error) {
	body := map[string]string{"origin_url": originURL}

	var session payment.Session
	if err := c.do(ctx, http.MethodPost, "/api/payments/checkout", body, &session, true); err != nil {
		return nil, err
	}
	return &session, nil
}

// PaymentStatus fetches the provider-side status of a checkout session.
func (c *Client) PaymentStatus(ctx context.Context, sessionID string) (*payment.StatusResult, error) {
	var status payment.StatusResult
	path := "/api/payments/status/" + url.PathEscape(sessionID)
	if err := c.do(ctx, http.MethodGet, path, nil, &status, true); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) Institutions(ctx context.Context) ([]bank.Institution, error) {
	var institutions []bank.Institution
	if err := c.do(ctx, http.MethodGet, "/api/banks/finland", nil, &institutions, true); err != nil {
		return nil, err
	}
	return institutions, nil
}

func (c *Client) ConnectBank(ctx context.Context, institutionID, institutionName, redirectURL string) (*bank.ConnectResult, error) {
	body := map[string]string{
		"institution_id":   institutionID,
		"institution_name": institutionName,
		"redirect_url":     redirectURL,
	}

	var result bank.ConnectResult
	if err := c.do(ctx, http.MethodPost, "/api/banks/connect", body, &result, true); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Connections(ctx context.Context) ([]*bank.Connection, error) {
	var connections []*bank.Connection
	if err := c.do(ctx, http.MethodGet, "/api/banks/connections", nil, &connections, true); err != nil {
		return nil, err
	}
	return connections, nil
}

func (c *Client) DeleteConnection(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/banks/connection/"+url.PathEscape(id), nil, nil, true)
}

func (c *Client) Accounts(ctx context.Context, connectionID string) ([]bank.Account, error) {
	var resp struct {
		Accounts []bank.Account `json:"accounts"`
	}
	path := "/api/banks/connection/" + url.PathEscape(connectionID) + "/accounts"
	if err := c.do(ctx, http.MethodGet, path, nil, &resp, true); err != nil {
		return nil, err
	}
	return resp.Accounts, nil
}

// ImportTransactions imports debit transactions from a linked account
// as expenses.
func (c *Client) ImportTransactions(ctx context.Context, accountID string) (*ImportResult, error) {
	var result ImportResult
	path := "/api/banks/import-transactions/" + url.PathEscape(accountID)
	if err := c.do(ctx, http.MethodPost, path, nil, &result, true); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if authed {
		token, err := c.tokens.Token()
		if err != nil {
			return err
		}
		if token == "" {
			return ErrUnauthorized
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// The token is stale; drop it so the next call starts clean.
		if err := c.tokens.Clear(); err != nil {
			return err
		}
		return ErrUnauthorized
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Detail != "" {
		apiErr.Detail = body.Detail
	} else {
		apiErr.Detail = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
