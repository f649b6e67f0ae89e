package bank

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("bank connection not found")
	ErrNotConfigured = errors.New("bank aggregator not configured")
)

// Requisition statuses as reported by the aggregator. CR means the
// requisition was created but the user has not finished authenticating
// at the bank, LN means accounts are linked, EX means the consent
// expired.
const (
	StatusCreated = "CR"
	StatusLinked  = "LN"
	StatusExpired = "EX"
)

// Connection ties a user to one bank requisition. Reference is the
// correlation token carried through the bank's redirect.
type Connection struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	RequisitionID   string    `json:"requisition_id"`
	InstitutionID   string    `json:"institution_id"`
	InstitutionName string    `json:"institution_name"`
	Status          string    `json:"status"`
	Reference       string    `json:"reference"`
	CreatedAt       time.Time `json:"created_at"`
}

type CreateParams struct {
	UserID          string
	RequisitionID   string
	InstitutionID   string
	InstitutionName string
	Status          string
	Reference       string
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if p.UserID == "" {
		return errors.New("user ID is required")
	}
	if p.RequisitionID == "" {
		return errors.New("requisition ID is required")
	}
	if p.InstitutionID == "" {
		return errors.New("institution ID is required")
	}
	return nil
}

// Institution is a bank the user can connect to.
type Institution struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	BIC  string `json:"bic"`
	Logo string `json:"logo"`
}

// Account is a bank account reachable through a linked requisition.
type Account struct {
	ID       string `json:"id"`
	IBAN     string `json:"iban"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

// ConnectResult is handed to the client to start the bank's hosted
// authentication flow.
type ConnectResult struct {
	Link          string `json:"link"`
	RequisitionID string `json:"requisition_id"`
	Reference     string `json:"reference"`
}
