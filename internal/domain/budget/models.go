package budget

import (
	"errors"
	"regexp"
	"time"
)

var (
	ErrNotFound     = errors.New("budget not found")
	ErrInvalidMonth = errors.New("month must be in YYYY-MM format")
)

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// Budget is a monthly spending limit, unique per (user, month).
type Budget struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Amount    float64   `json:"amount"`
	Month     string    `json:"month"` // YYYY-MM
	CreatedAt time.Time `json:"created_at"`
}

type CreateParams struct {
	UserID string
	Amount float64
	Month  string
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if p.UserID == "" {
		return errors.New("user ID is required")
	}
	if p.Amount < 0 {
		return errors.New("amount must be non-negative")
	}
	if !IsValidMonth(p.Month) {
		return ErrInvalidMonth
	}
	return nil
}

// IsValidMonth reports whether s is a YYYY-MM month key.
func IsValidMonth(s string) bool {
	return monthPattern.MatchString(s)
}

// CurrentMonth returns the month key for the given instant in UTC.
func CurrentMonth(now time.Time) string {
	return now.UTC().Format("2006-01")
}
