package loan

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("loan not found")
	ErrInvalidLoanType   = errors.New("invalid loan type")
	ErrRemainingExceeds  = errors.New("remaining amount cannot exceed original amount")
)

// TypeLabels maps loan type identifiers to display labels. The keys are
// the only accepted loan_type values.
var TypeLabels = map[string]string{
	"asuntolaina":  "Asuntolaina",
	"autolaina":    "Autolaina",
	"kulutusluotto": "Kulutusluotto",
	"opintolaina":  "Opintolaina",
}

// Loan is an outstanding loan with its repayment terms.
type Loan struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Name            string    `json:"name"`
	LoanType        string    `json:"loan_type"`
	OriginalAmount  float64   `json:"original_amount"`
	RemainingAmount float64   `json:"remaining_amount"`
	InterestRate    float64   `json:"interest_rate"`
	MonthlyPayment  float64   `json:"monthly_payment"`
	StartDate       string    `json:"start_date"` // YYYY-MM-DD
	EndDate         *string   `json:"end_date"`   // optional
	CreatedAt       time.Time `json:"created_at"`
}

type CreateParams struct {
	UserID          string
	Name            string
	LoanType        string
	OriginalAmount  float64
	RemainingAmount float64
	InterestRate    float64
	MonthlyPayment  float64
	StartDate       string
	EndDate         *string
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if p.UserID == "" {
		return errors.New("user ID is required")
	}
	if p.Name == "" {
		return errors.New("loan name is required")
	}
	if _, ok := TypeLabels[p.LoanType]; !ok {
		return ErrInvalidLoanType
	}
	if p.OriginalAmount < 0 || p.RemainingAmount < 0 || p.MonthlyPayment < 0 {
		return errors.New("amounts must be non-negative")
	}
	if p.RemainingAmount > p.OriginalAmount {
		return ErrRemainingExceeds
	}
	if p.InterestRate < 0 {
		return errors.New("interest rate must be non-negative")
	}
	if _, err := time.Parse("2006-01-02", p.StartDate); err != nil {
		return errors.New("start date must be in YYYY-MM-DD format")
	}
	if p.EndDate != nil {
		if _, err := time.Parse("2006-01-02", *p.EndDate); err != nil {
			return errors.New("end date must be in YYYY-MM-DD format")
		}
	}
	return nil
}
