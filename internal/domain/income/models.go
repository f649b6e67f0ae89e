package income

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("income not found")
	ErrInvalidSource = errors.New("invalid income source")
)

// SourceLabels maps income source identifiers to the Finnish labels used
// in summaries. The keys are the only accepted source values.
var SourceLabels = map[string]string{
	"salary":     "Palkka",
	"freelance":  "Freelance-työt",
	"investment": "Sijoitukset",
	"other":      "Muut tulot",
}

// Income is a single earning record.
type Income struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Source      string    `json:"source"`
	Date        string    `json:"date"` // YYYY-MM-DD
	Recurring   bool      `json:"recurring"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateParams struct {
	UserID      string
	Amount      float64
	Description string
	Source      string
	Date        string
	Recurring   bool
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if p.UserID == "" {
		return errors.New("user ID is required")
	}
	if p.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	if p.Description == "" {
		return errors.New("description is required")
	}
	if _, ok := SourceLabels[p.Source]; !ok {
		return ErrInvalidSource
	}
	if _, err := time.Parse("2006-01-02", p.Date); err != nil {
		return errors.New("date must be in YYYY-MM-DD format")
	}
	return nil
}

// SourceLabel returns the Finnish label for a source, falling back to the
// raw identifier for unknown values (old rows survive label table edits).
func SourceLabel(source string) string {
	if label, ok := SourceLabels[source]; ok {
		return label
	}
	return source
}
