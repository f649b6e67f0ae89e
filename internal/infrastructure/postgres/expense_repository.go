package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"lompakko/internal/domain/expense"
)

// ExpenseRepository implements the expense.Repository interface for PostgreSQL
type ExpenseRepository struct {
	db *DB
}

// NewExpenseRepository creates a new PostgreSQL expense repository
func NewExpenseRepository(db *DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// Create creates a new expense
func (r *ExpenseRepository) Create(ctx context.Context, params expense.CreateParams) (*expense.Expense, error) {
	query := `
		INSERT INTO expenses (id, user_id, amount, description, category, date, import_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, user_id, amount, description, category, date, import_id, created_at
	`

	var e expense.Expense
	var importID sql.NullString

	var importIDIn sql.NullString
	if params.ImportID != nil {
		importIDIn = sql.NullString{String: *params.ImportID, Valid: true}
	}

	err := r.db.QueryRowContext(
		ctx, query,
		uuid.NewString(), params.UserID, params.Amount, params.Description,
		params.Category, params.Date, importIDIn,
	).Scan(
		&e.ID, &e.UserID, &e.Amount, &e.Description,
		&e.Category, &e.Date, &importID, &e.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	if importID.Valid {
		e.ImportID = &importID.String
	}

	return &e, nil
}

// ListByUserID retrieves the user's expenses, newest date first. A
// non-empty month restricts the result to dates with that prefix.
func (r *ExpenseRepository) ListByUserID(ctx context.Context, userID, month string) ([]*expense.Expense, error) {
	query := `
		SELECT id, user_id, amount, description, category, date, import_id, created_at
		FROM expenses
		WHERE user_id = $1 AND ($2 = '' OR date LIKE $2 || '-%')
		ORDER BY date DESC, created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*expense.Expense
	for rows.Next() {
		var e expense.Expense
		var importID sql.NullString

		err := rows.Scan(
			&e.ID, &e.UserID, &e.Amount, &e.Description,
			&e.Category, &e.Date, &importID, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}

		if importID.Valid {
			e.ImportID = &importID.String
		}

		expenses = append(expenses, &e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}

	return expenses, nil
}

// Delete removes the user's expense
func (r *ExpenseRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM expenses WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return expense.ErrNotFound
	}

	return nil
}

// ExistsByImportID reports whether an aggregator transaction was already imported
func (r *ExpenseRepository) ExistsByImportID(ctx context.Context, userID, importID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM expenses WHERE user_id = $1 AND import_id = $2)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, userID, importID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check import existence: %w", err)
	}

	return exists, nil
}
