package bank

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"lompakko/internal/domain/expense"
)

// categoryKeywords maps transaction description fragments to expense
// categories. Matching is case-insensitive, first hit wins.
var categoryKeywords = []struct {
	keyword  string
	category string
}{
	{"vuokra", "Asuminen"},
	{"s-market", "Ruoka"},
	{"k-market", "Ruoka"},
	{"k-citymarket", "Ruoka"},
	{"prisma", "Ruoka"},
	{"lidl", "Ruoka"},
	{"alepa", "Ruoka"},
	{"hsl", "Liikenne"},
	{"neste", "Liikenne"},
	{"abc ", "Liikenne"},
	{"vr-yhtyma", "Liikenne"},
	{"netflix", "Viihde"},
	{"spotify", "Viihde"},
	{"finnkino", "Viihde"},
	{"apteekki", "Terveys"},
	{"terveystalo", "Terveys"},
}

// Service contains the business logic for bank connections. The
// aggregator may be nil when the integration is not configured; every
// operation then fails with ErrNotConfigured.
type Service struct {
	repo       Repository
	expenses   expense.Repository
	aggregator Aggregator
}

// NewService creates a new bank service
func NewService(repo Repository, expenses expense.Repository, aggregator Aggregator) *Service {
	return &Service{repo: repo, expenses: expenses, aggregator: aggregator}
}

// Institutions lists banks available for the given country code.
func (s *Service) Institutions(ctx context.Context, country string) ([]Institution, error) {
	if s.aggregator == nil {
		return nil, ErrNotConfigured
	}
	if country == "" {
		country = "FI"
	}
	return s.aggregator.ListInstitutions(ctx, country)
}

// Connect opens a requisition at the aggregator and records the pending
// connection. The returned link sends the user to the bank's hosted
// authentication; the reference comes back on the redirect so the client
// can correlate it.
func (s *Service) Connect(ctx context.Context, userID, institutionID, institutionName, redirectURL string) (*ConnectResult, error) {
	if s.aggregator == nil {
		return nil, ErrNotConfigured
	}

	reference := uuid.NewString()
	req, err := s.aggregator.CreateRequisition(ctx, institutionID, redirectURL, reference)
	if err != nil {
		return nil, fmt.Errorf("creating requisition: %w", err)
	}

	_, err = s.repo.Create(ctx, CreateParams{
		UserID:          userID,
		RequisitionID:   req.ID,
		InstitutionID:   institutionID,
		InstitutionName: institutionName,
		Status:          StatusCreated,
		Reference:       reference,
	})
	if err != nil {
		return nil, fmt.Errorf("recording connection: %w", err)
	}

	return &ConnectResult{
		Link:          req.Link,
		RequisitionID: req.ID,
		Reference:     reference,
	}, nil
}

// Connections lists the user's connections with statuses refreshed from
// the aggregator. The stored status is the source of truth for clients;
// a refresh failure keeps the last known status rather than failing the
// listing.
func (s *Service) Connections(ctx context.Context, userID string) ([]*Connection, error) {
	if s.aggregator == nil {
		return nil, ErrNotConfigured
	}

	connections, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, conn := range connections {
		if conn.Status == StatusExpired {
			continue
		}
		req, err := s.aggregator.GetRequisition(ctx, conn.RequisitionID)
		if err != nil {
			log.Printf("Failed to refresh requisition %s: %v", conn.RequisitionID, err)
			continue
		}
		if req.Status != conn.Status {
			if err := s.repo.UpdateStatus(ctx, conn.ID, req.Status); err != nil {
				log.Printf("Failed to update connection %s status: %v", conn.ID, err)
				continue
			}
			conn.Status = req.Status
		}
	}

	return connections, nil
}

// Accounts lists the accounts reachable through one of the user's
// connections.
func (s *Service) Accounts(ctx context.Context, userID, connectionID string) ([]Account, error) {
	if s.aggregator == nil {
		return nil, ErrNotConfigured
	}

	conn, err := s.ownedConnection(ctx, userID, connectionID)
	if err != nil {
		return nil, err
	}

	req, err := s.aggregator.GetRequisition(ctx, conn.RequisitionID)
	if err != nil {
		return nil, fmt.Errorf("fetching requisition: %w", err)
	}

	accounts := make([]Account, 0, len(req.Accounts))
	for _, accountID := range req.Accounts {
		details, err := s.aggregator.GetAccountDetails(ctx, accountID)
		if err != nil {
			log.Printf("Failed to fetch account %s details: %v", accountID, err)
			accounts = append(accounts, Account{ID: accountID})
			continue
		}
		accounts = append(accounts, *details)
	}

	return accounts, nil
}

// ImportTransactions pulls booked transactions for one account and
// records the debits as expenses. Transactions already imported for the
// user are skipped, so repeated imports do not duplicate rows. Returns
// the number of expenses created.
func (s *Service) ImportTransactions(ctx context.Context, userID, connectionID, accountID string) (int, error) {
	if s.aggregator == nil {
		return 0, ErrNotConfigured
	}

	conn, err := s.ownedConnection(ctx, userID, connectionID)
	if err != nil {
		return 0, err
	}

	req, err := s.aggregator.GetRequisition(ctx, conn.RequisitionID)
	if err != nil {
		return 0, fmt.Errorf("fetching requisition: %w", err)
	}
	if !containsAccount(req.Accounts, accountID) {
		return 0, ErrNotFound
	}

	transactions, err := s.aggregator.ListAccountTransactions(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("fetching transactions: %w", err)
	}

	imported := 0
	for _, tx := range transactions {
		// Credits are income, not spending.
		if tx.Amount >= 0 {
			continue
		}

		importID := accountID + ":" + tx.ID
		exists, err := s.expenses.ExistsByImportID(ctx, userID, importID)
		if err != nil {
			return imported, fmt.Errorf("checking import %s: %w", importID, err)
		}
		if exists {
			continue
		}

		description := tx.Description
		if description == "" {
			description = "Pankkitapahtuma"
		}

		_, err = s.expenses.Create(ctx, expense.CreateParams{
			UserID:      userID,
			Amount:      -tx.Amount,
			Description: description,
			Category:    Categorize(description),
			Date:        tx.Date,
			ImportID:    &importID,
		})
		if err != nil {
			return imported, fmt.Errorf("importing transaction %s: %w", tx.ID, err)
		}
		imported++
	}

	return imported, nil
}

// ImportByAccount imports transactions for an account reachable through
// any of the user's connections. The owning connection is resolved by
// asking the aggregator which requisition lists the account; an account
// no connection covers is ErrNotFound.
func (s *Service) ImportByAccount(ctx context.Context, userID, accountID string) (int, error) {
	if s.aggregator == nil {
		return 0, ErrNotConfigured
	}

	connections, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}

	for _, conn := range connections {
		if conn.Status == StatusExpired {
			continue
		}
		req, err := s.aggregator.GetRequisition(ctx, conn.RequisitionID)
		if err != nil {
			log.Printf("Failed to fetch requisition %s: %v", conn.RequisitionID, err)
			continue
		}
		if containsAccount(req.Accounts, accountID) {
			return s.ImportTransactions(ctx, userID, conn.ID, accountID)
		}
	}

	return 0, ErrNotFound
}

// Delete removes one of the user's connections.
func (s *Service) Delete(ctx context.Context, userID, connectionID string) error {
	return s.repo.Delete(ctx, connectionID, userID)
}

// Categorize picks an expense category from a transaction description.
func Categorize(description string) string {
	lower := strings.ToLower(description)
	for _, entry := range categoryKeywords {
		if strings.Contains(lower, entry.keyword) {
			return entry.category
		}
	}
	return expense.DefaultCategory
}

func containsAccount(accounts []string, id string) bool {
	for _, a := range accounts {
		if a == id {
			return true
		}
	}
	return false
}

func (s *Service) ownedConnection(ctx context.Context, userID, connectionID string) (*Connection, error) {
	conn, err := s.repo.GetByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	if conn.UserID != userID {
		return nil, ErrNotFound
	}
	return conn, nil
}
