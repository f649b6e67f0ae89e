package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"lompakko/internal/domain/bank"
)

// BankRepository implements the bank.Repository interface for PostgreSQL
type BankRepository struct {
	db *DB
}

// NewBankRepository creates a new PostgreSQL bank connection repository
func NewBankRepository(db *DB) *BankRepository {
	return &BankRepository{db: db}
}

const bankColumns = `id, user_id, requisition_id, institution_id, institution_name, status, reference, created_at`

// Create records a new connection
func (r *BankRepository) Create(ctx context.Context, params bank.CreateParams) (*bank.Connection, error) {
	query := `
		INSERT INTO bank_connections (id, user_id, requisition_id, institution_id, institution_name, status, reference)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + bankColumns

	var c bank.Connection
	err := r.db.QueryRowContext(
		ctx, query,
		uuid.NewString(), params.UserID, params.RequisitionID,
		params.InstitutionID, params.InstitutionName, params.Status, params.Reference,
	).Scan(
		&c.ID, &c.UserID, &c.RequisitionID, &c.InstitutionID,
		&c.InstitutionName, &c.Status, &c.Reference, &c.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create bank connection: %w", err)
	}

	return &c, nil
}

// GetByID retrieves a connection by its ID
func (r *BankRepository) GetByID(ctx context.Context, id string) (*bank.Connection, error) {
	query := `
		SELECT ` + bankColumns + `
		FROM bank_connections
		WHERE id = $1
	`

	var c bank.Connection
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.UserID, &c.RequisitionID, &c.InstitutionID,
		&c.InstitutionName, &c.Status, &c.Reference, &c.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, bank.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bank connection: %w", err)
	}

	return &c, nil
}

// ListByUserID retrieves all connections for a user, newest first
func (r *BankRepository) ListByUserID(ctx context.Context, userID string) ([]*bank.Connection, error) {
	query := `
		SELECT ` + bankColumns + `
		FROM bank_connections
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank connections: %w", err)
	}
	defer rows.Close()

	var connections []*bank.Connection
	for rows.Next() {
		var c bank.Connection
		err := rows.Scan(
			&c.ID, &c.UserID, &c.RequisitionID, &c.InstitutionID,
			&c.InstitutionName, &c.Status, &c.Reference, &c.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank connection: %w", err)
		}
		connections = append(connections, &c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bank connections: %w", err)
	}

	return connections, nil
}

// UpdateStatus stores the latest requisition status
func (r *BankRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE bank_connections SET status = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update connection status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return bank.ErrNotFound
	}

	return nil
}

// Delete removes the user's connection
func (r *BankRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM bank_connections WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete bank connection: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return bank.ErrNotFound
	}

	return nil
}
