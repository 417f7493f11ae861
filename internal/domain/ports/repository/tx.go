package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

var NoTX interface{}

// TransactionManager provides a thin abstraction to execute a function
// within a database transaction, passing the underlying handle via `tx`.
//
// The concrete type of `tx` is infra-defined (pgx.Tx for Postgres).
// Repositories MUST gracefully accept `nil` tx (non-transactional path).
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
