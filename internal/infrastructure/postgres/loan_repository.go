package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"lompakko/internal/domain/loan"
)

// LoanRepository implements the loan.Repository interface for PostgreSQL
type LoanRepository struct {
	db *DB
}

// NewLoanRepository creates a new PostgreSQL loan repository
func NewLoanRepository(db *DB) *LoanRepository {
	return &LoanRepository{db: db}
}

const loanColumns = `id, user_id, name, loan_type, original_amount, remaining_amount,
       interest_rate, monthly_payment, start_date, end_date, created_at`

// Create creates a new loan
func (r *LoanRepository) Create(ctx context.Context, params loan.CreateParams) (*loan.Loan, error) {
	query := `
		INSERT INTO loans (id, user_id, name, loan_type, original_amount, remaining_amount,
		                   interest_rate, monthly_payment, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + loanColumns

	return r.scanLoan(r.db.QueryRowContext(
		ctx, query,
		uuid.NewString(), params.UserID, params.Name, params.LoanType,
		params.OriginalAmount, params.RemainingAmount, params.InterestRate,
		params.MonthlyPayment, params.StartDate, nullStringPtr(params.EndDate),
	))
}

// ListByUserID retrieves all loans for a user
func (r *LoanRepository) ListByUserID(ctx context.Context, userID string) ([]*loan.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	defer rows.Close()

	var loans []*loan.Loan
	for rows.Next() {
		var l loan.Loan
		var endDate sql.NullString

		err := rows.Scan(
			&l.ID, &l.UserID, &l.Name, &l.LoanType,
			&l.OriginalAmount, &l.RemainingAmount, &l.InterestRate,
			&l.MonthlyPayment, &l.StartDate, &endDate, &l.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}

		if endDate.Valid {
			l.EndDate = &endDate.String
		}

		loans = append(loans, &l)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating loans: %w", err)
	}

	return loans, nil
}

// Update replaces the user's loan with the given parameters
func (r *LoanRepository) Update(ctx context.Context, id string, params loan.CreateParams) (*loan.Loan, error) {
	query := `
		UPDATE loans
		SET name = $1, loan_type = $2, original_amount = $3, remaining_amount = $4,
		    interest_rate = $5, monthly_payment = $6, start_date = $7, end_date = $8
		WHERE id = $9 AND user_id = $10
		RETURNING ` + loanColumns

	l, err := r.scanLoan(r.db.QueryRowContext(
		ctx, query,
		params.Name, params.LoanType, params.OriginalAmount, params.RemainingAmount,
		params.InterestRate, params.MonthlyPayment, params.StartDate,
		nullStringPtr(params.EndDate), id, params.UserID,
	))
	if err == loan.ErrNotFound {
		return nil, loan.ErrNotFound
	}
	return l, err
}

// Delete removes the user's loan
func (r *LoanRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM loans WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete loan: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return loan.ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *LoanRepository) scanLoan(row rowScanner) (*loan.Loan, error) {
	var l loan.Loan
	var endDate sql.NullString

	err := row.Scan(
		&l.ID, &l.UserID, &l.Name, &l.LoanType,
		&l.OriginalAmount, &l.RemainingAmount, &l.InterestRate,
		&l.MonthlyPayment, &l.StartDate, &endDate, &l.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, loan.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan loan: %w", err)
	}

	if endDate.Valid {
		l.EndDate = &endDate.String
	}

	return &l, nil
}

func nullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
