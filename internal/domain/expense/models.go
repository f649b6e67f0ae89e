package expense

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("expense not found")
)

// DefaultCategory is used when an expense arrives without a known category
// (manual entry with a blank field, or an aggregator import that maps to
// nothing).
const DefaultCategory = "Muut"

// Category is a static lookup entry for the expense category table.
type Category struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// Categories is the predefined expense category table served by
// GET /api/categories and used to validate manual entries.
var Categories = []Category{
	{Name: "Asuminen", Icon: "home", Color: "#3B82F6"},
	{Name: "Ruoka", Icon: "utensils", Color: "#10B981"},
	{Name: "Liikenne", Icon: "car", Color: "#8B5CF6"},
	{Name: "Viihde", Icon: "gamepad", Color: "#EC4899"},
	{Name: "Terveys", Icon: "heart", Color: "#EF4444"},
	{Name: "Vaatteet", Icon: "shirt", Color: "#F59E0B"},
	{Name: "Koulutus", Icon: "book", Color: "#06B6D4"},
	{Name: "Muut", Icon: "receipt", Color: "#6B7280"},
}

// Expense is a single spending record.
type Expense struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Date        string    `json:"date"` // YYYY-MM-DD
	ImportID    *string   `json:"-"`    // aggregator transaction id for imported rows
	CreatedAt   time.Time `json:"created_at"`
}

type CreateParams struct {
	UserID      string
	Amount      float64
	Description string
	Category    string
	Date        string
	ImportID    *string
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
	if !isValidDate(p.Date) {
		return errors.New("date must be in YYYY-MM-DD format")
	}
	return nil
}

// CategoryOrDefault returns name if it is a known category, otherwise
// DefaultCategory.
func CategoryOrDefault(name string) string {
	for _, c := range Categories {
		if c.Name == name {
			return name
		}
	}
	return DefaultCategory
}

func isValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
