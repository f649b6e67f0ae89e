package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"lompakko/internal/domain/income"
)

// IncomeRepository implements the income.Repository interface for PostgreSQL
type IncomeRepository struct {
	db *DB
}

// NewIncomeRepository creates a new PostgreSQL income repository
func NewIncomeRepository(db *DB) *IncomeRepository {
	return &IncomeRepository{db: db}
}

// Create creates a new income
func (r *IncomeRepository) Create(ctx context.Context, params income.CreateParams) (*income.Income, error) {
	query := `
		INSERT INTO incomes (id, user_id, amount, source, description, date, recurring)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, user_id, amount, source, description, date, recurring, created_at
	`

	var in income.Income
	err := r.db.QueryRowContext(
		ctx, query,
		uuid.NewString(), params.UserID, params.Amount, params.Source,
		params.Description, params.Date, params.Recurring,
	).Scan(
		&in.ID, &in.UserID, &in.Amount, &in.Source,
		&in.Description, &in.Date, &in.Recurring, &in.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create income: %w", err)
	}

	return &in, nil
}

// ListByUserID retrieves the user's incomes, newest date first. A
// non-empty month restricts the result to dates with that prefix.
func (r *IncomeRepository) ListByUserID(ctx context.Context, userID, month string) ([]*income.Income, error) {
	query := `
		SELECT id, user_id, amount, source, description, date, recurring, created_at
		FROM incomes
		WHERE user_id = $1 AND ($2 = '' OR date LIKE $2 || '-%')
		ORDER BY date DESC, created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list incomes: %w", err)
	}
	defer rows.Close()

	var incomes []*income.Income
	for rows.Next() {
		var in income.Income
		err := rows.Scan(
			&in.ID, &in.UserID, &in.Amount, &in.Source,
			&in.Description, &in.Date, &in.Recurring, &in.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan income: %w", err)
		}
		incomes = append(incomes, &in)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating incomes: %w", err)
	}

	return incomes, nil
}

// Delete removes the user's income
func (r *IncomeRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM incomes WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete income: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return income.ErrNotFound
	}

	return nil
}
