package bank

import "context"

// Requisition is the aggregator's view of one bank consent.
type Requisition struct {
	ID        string
	Status    string
	Link      string
	Reference string
	Accounts  []string
}

// ProviderTransaction is a booked transaction as reported by the
// aggregator. Amount is negative for debits.
type ProviderTransaction struct {
	ID          string
	Amount      float64
	Currency    string
	Date        string // YYYY-MM-DD
	Description string
}

// Aggregator is the open banking integration. Implementations live in
// internal/infrastructure.
type Aggregator interface {
	ListInstitutions(ctx context.Context, country string) ([]Institution, error)
	CreateRequisition(ctx context.Context, institutionID, redirectURL, reference string) (*Requisition, error)
	GetRequisition(ctx context.Context, requisitionID string) (*Requisition, error)
	GetAccountDetails(ctx context.Context, accountID string) (*Account, error)
	ListAccountTransactions(ctx context.Context, accountID string) ([]ProviderTransaction, error)
}
