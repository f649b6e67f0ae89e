package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"lompakko/internal/domain/savings"
)

// SavingsRepository implements the savings.Repository interface for PostgreSQL
type SavingsRepository struct {
	db *DB
}

// NewSavingsRepository creates a new PostgreSQL savings repository
func NewSavingsRepository(db *DB) *SavingsRepository {
	return &SavingsRepository{db: db}
}

// Create creates a new savings goal
func (r *SavingsRepository) Create(ctx context.Context, params savings.CreateParams) (*savings.Goal, error) {
	query := `
		INSERT INTO savings_goals (id, user_id, name, target_amount, current_amount, target_date, icon)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, user_id, name, target_amount, current_amount, target_date, icon, created_at
	`

	icon := params.Icon
	if icon == "" {
		icon = savings.DefaultIcon
	}

	return r.scanGoal(r.db.QueryRowContext(
		ctx, query,
		uuid.NewString(), params.UserID, params.Name, params.TargetAmount,
		params.CurrentAmount, nullStringPtr(params.TargetDate), icon,
	))
}

// ListByUserID retrieves all savings goals for a user
func (r *SavingsRepository) ListByUserID(ctx context.Context, userID string) ([]*savings.Goal, error) {
	query := `
		SELECT id, user_id, name, target_amount, current_amount, target_date, icon, created_at
		FROM savings_goals
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list savings goals: %w", err)
	}
	defer rows.Close()

	var goals []*savings.Goal
	for rows.Next() {
		var g savings.Goal
		var targetDate sql.NullString

		err := rows.Scan(
			&g.ID, &g.UserID, &g.Name, &g.TargetAmount,
			&g.CurrentAmount, &targetDate, &g.Icon, &g.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan savings goal: %w", err)
		}

		if targetDate.Valid {
			g.TargetDate = &targetDate.String
		}

		goals = append(goals, &g)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating savings goals: %w", err)
	}

	return goals, nil
}

// Update replaces the user's goal with the given parameters
func (r *SavingsRepository) Update(ctx context.Context, id string, params savings.CreateParams) (*savings.Goal, error) {
	query := `
		UPDATE savings_goals
		SET name = $1, target_amount = $2, current_amount = $3, target_date = $4, icon = $5
		WHERE id = $6 AND user_id = $7
		RETURNING id, user_id, name, target_amount, current_amount, target_date, icon, created_at
	`

	icon := params.Icon
	if icon == "" {
		icon = savings.DefaultIcon
	}

	return r.scanGoal(r.db.QueryRowContext(
		ctx, query,
		params.Name, params.TargetAmount, params.CurrentAmount,
		nullStringPtr(params.TargetDate), icon, id, params.UserID,
	))
}

// Delete removes the user's goal
func (r *SavingsRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM savings_goals WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete savings goal: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return savings.ErrNotFound
	}

	return nil
}

func (r *SavingsRepository) scanGoal(row rowScanner) (*savings.Goal, error) {
	var g savings.Goal
	var targetDate sql.NullString

	err := row.Scan(
		&g.ID, &g.UserID, &g.Name, &g.TargetAmount,
		&g.CurrentAmount, &targetDate, &g.Icon, &g.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, savings.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan savings goal: %w", err)
	}

	if targetDate.Valid {
		g.TargetDate = &targetDate.String
	}

	return &g, nil
}
