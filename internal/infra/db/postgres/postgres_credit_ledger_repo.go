package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"travel-ai-planner/internal/domain"
	"travel-ai-planner/internal/domain/ports/repository"
)

var _ repository.CreditLedger = (*creditLedgerRepo)(nil)

type creditLedgerRepo struct {
	pool *pgxpool.Pool
}

func NewCreditLedgerRepo(pool *pgxpool.Pool) *creditLedgerRepo {
	return &creditLedgerRepo{pool: pool}
}

// Deduct takes amount credits atomically. The balance guard in the WHERE
// clause makes the check-and-debit a single statement, so two concurrent
// jobs can never overdraw the same account.
func (r *creditLedgerRepo) Deduct(ctx context.Context, tx repository.Tx, userID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidArgument
	}
	const q = `
UPDATE credit_balances
   SET balance = balance - $2, updated_at = now()
 WHERE user_id = $1 AND balance >= $2
RETURNING balance;`
	row, err := pickRow(ctx, r.pool, tx, q, userID, amount)
	if err != nil {
		return 0, err
	}
	var remaining int64
	if err := row.Scan(&remaining); err == nil {
		return remaining, nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrReadDatabaseRow
	}

	// No row updated: either the account is unknown or the balance is short.
	exists, err := r.accountExists(ctx, tx, userID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, domain.ErrNotFound
	}
	return 0, domain.ErrInsufficientCredits
}

func (r *creditLedgerRepo) Refund(ctx context.Context, tx repository.Tx, userID string, amount int64) error {
	if amount <= 0 {
		return domain.ErrInvalidArgument
	}
	const q = `
UPDATE credit_balances
   SET balance = balance + $2, updated_at = now()
 WHERE user_id = $1;`
	tag, err := execSQL(ctx, r.pool, tx, q, userID, amount)
	if err != nil {
		return fmt.Errorf("refund credits: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *creditLedgerRepo) Balance(ctx context.Context, userID string) (int64, error) {
	row, err := pickRow(ctx, r.pool, nil, `SELECT balance FROM credit_balances WHERE user_id = $1;`, userID)
	if err != nil {
		return 0, err
	}
	var balance int64
	if err := row.Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, domain.ErrReadDatabaseRow
	}
	return balance, nil
}

func (r *creditLedgerRepo) accountExists(ctx context.Context, tx repository.Tx, userID string) (bool, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT 1 FROM credit_balances WHERE user_id = $1;`, userID)
	if err != nil {
		return false, err
	}
	var one int
	if err := row.Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, domain.ErrReadDatabaseRow
	}
	return true, nil
}
