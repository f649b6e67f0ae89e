package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"lompakko/internal/domain/budget"
)

// BudgetRepository implements the budget.Repository interface for PostgreSQL
type BudgetRepository struct {
	db *DB
}

// NewBudgetRepository creates a new PostgreSQL budget repository
func NewBudgetRepository(db *DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

// Upsert creates or replaces the budget for (user, month)
func (r *BudgetRepository) Upsert(ctx context.Context, params budget.CreateParams) (*budget.Budget, error) {
	query := `
		INSERT INTO budgets (id, user_id, amount, month)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, month)
		DO UPDATE SET amount = EXCLUDED.amount
		RETURNING id, user_id, amount, month, created_at
	`

	var b budget.Budget
	err := r.db.QueryRowContext(
		ctx, query,
		uuid.NewString(), params.UserID, params.Amount, params.Month,
	).Scan(&b.ID, &b.UserID, &b.Amount, &b.Month, &b.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to upsert budget: %w", err)
	}

	return &b, nil
}

// GetByMonth retrieves the budget for a user and month key
func (r *BudgetRepository) GetByMonth(ctx context.Context, userID, month string) (*budget.Budget, error) {
	query := `
		SELECT id, user_id, amount, month, created_at
		FROM budgets
		WHERE user_id = $1 AND month = $2
	`

	var b budget.Budget
	err := r.db.QueryRowContext(ctx, query, userID, month).Scan(
		&b.ID, &b.UserID, &b.Amount, &b.Month, &b.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, budget.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	return &b, nil
}

// ListByUserID retrieves all budgets for a user, newest month first
func (r *BudgetRepository) ListByUserID(ctx context.Context, userID string) ([]*budget.Budget, error) {
	query := `
		SELECT id, user_id, amount, month, created_at
		FROM budgets
		WHERE user_id = $1
		ORDER BY month DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*budget.Budget
	for rows.Next() {
		var b budget.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Amount, &b.Month, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, &b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}

	return budgets, nil
}
