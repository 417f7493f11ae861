package repository

import "context"

// CreditLedger is the atomic per-user prepaid balance. The orchestrator
// never reads-then-writes a balance; it only calls Deduct and branches on
// domain.ErrInsufficientCredits. The ledger serializes concurrent deducts
// for the same user (single atomic decrement with floor check).
type CreditLedger interface {
	// Deduct removes amount credits and returns the new balance, or
	// domain.ErrInsufficientCredits without changing anything.
	Deduct(ctx context.Context, tx Tx, userID string, amount int64) (remaining int64, err error)
	// Refund compensates a deduct whose charged work produced no value.
	Refund(ctx context.Context, tx Tx, userID string, amount int64) error
	Balance(ctx context.Context, userID string) (int64, error)
}
