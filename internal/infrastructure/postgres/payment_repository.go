package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"lompakko/internal/domain/payment"
)

// PaymentRepository implements the payment.Repository interface for PostgreSQL
type PaymentRepository struct {
	db *DB
}

// NewPaymentRepository creates a new PostgreSQL payment repository
func NewPaymentRepository(db *DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create records a new checkout session
func (r *PaymentRepository) Create(ctx context.Context, params payment.CreateParams) (*payment.Transaction, error) {
	query := `
		INSERT INTO payment_transactions (id, user_id, session_id, amount, currency, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, session_id, amount, currency, payment_status, processed, created_at, updated_at
	`

	var tx payment.Transaction
	err := r.db.QueryRowContext(
		ctx, query,
		uuid.NewString(), params.UserID, params.SessionID,
		params.Amount, params.Currency, params.PaymentStatus,
	).Scan(
		&tx.ID, &tx.UserID, &tx.SessionID, &tx.Amount, &tx.Currency,
		&tx.PaymentStatus, &tx.Processed, &tx.CreatedAt, &tx.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create payment transaction: %w", err)
	}

	return &tx, nil
}

// GetBySessionID retrieves a transaction by checkout session ID
func (r *PaymentRepository) GetBySessionID(ctx context.Context, sessionID string) (*payment.Transaction, error) {
	query := `
		SELECT id, user_id, session_id, amount, currency, payment_status, processed, created_at, updated_at
		FROM payment_transactions
		WHERE session_id = $1
	`

	var tx payment.Transaction
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&tx.ID, &tx.UserID, &tx.SessionID, &tx.Amount, &tx.Currency,
		&tx.PaymentStatus, &tx.Processed, &tx.CreatedAt, &tx.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, payment.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment transaction: %w", err)
	}

	return &tx, nil
}

// UpdateStatus stores the latest payment status for a session
func (r *PaymentRepository) UpdateStatus(ctx context.Context, sessionID, paymentStatus string) error {
	query := `
		UPDATE payment_transactions
		SET payment_status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE session_id = $2
	`

	result, err := r.db.ExecContext(ctx, query, paymentStatus, sessionID)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return payment.ErrNotFound
	}

	return nil
}

// MarkProcessed atomically flips the processed flag. The WHERE clause
// makes concurrent callers race on a single row update, so exactly one
// of them observes the flip.
func (r *PaymentRepository) MarkProcessed(ctx context.Context, sessionID string) (bool, error) {
	query := `
		UPDATE payment_transactions
		SET processed = TRUE, updated_at = CURRENT_TIMESTAMP
		WHERE session_id = $1 AND processed = FALSE
	`

	result, err := r.db.ExecContext(ctx, query, sessionID)
	if err != nil {
		return false, fmt.Errorf("failed to mark transaction processed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows == 1, nil
}
