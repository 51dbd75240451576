package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

// TransactionManager provides a thin abstraction to execute a function within
// a database transaction, passing the underlying transaction handle via `tx`.
//
// Repositories accept `tx Tx` and MUST gracefully accept nil (the
// non-transactional path). The concrete type is infra-defined (pgx.Tx for
// Postgres). The generation status flip and the approval clear run under one
// such transaction, as does the open-job check before enqueue.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
