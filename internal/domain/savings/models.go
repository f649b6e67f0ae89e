package savings

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("savings goal not found")
)

// DefaultIcon tags goals created without an explicit icon.
const DefaultIcon = "piggy-bank"

// Goal is a savings target the user is working towards.
type Goal struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	TargetAmount  float64   `json:"target_amount"`
	CurrentAmount float64   `json:"current_amount"`
	TargetDate    *string   `json:"target_date"` // optional, YYYY-MM-DD
	Icon          string    `json:"icon"`
	CreatedAt     time.Time `json:"created_at"`
}

type CreateParams struct {
	UserID        string
	Name          string
	TargetAmount  float64
	CurrentAmount float64
	TargetDate    *string
	Icon          string
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if p.UserID == "" {
		return errors.New("user ID is required")
	}
	if p.Name == "" {
		return errors.New("goal name is required")
	}
	if p.TargetAmount <= 0 {
		return errors.New("target amount must be positive")
	}
	if p.CurrentAmount < 0 {
		return errors.New("current amount must be non-negative")
	}
	if p.TargetDate != nil {
		if _, err := time.Parse("2006-01-02", *p.TargetDate); err != nil {
			return errors.New("target date must be in YYYY-MM-DD format")
		}
	}
	return nil
}
