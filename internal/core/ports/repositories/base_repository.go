package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the query surface shared by pgx.Tx and *pgxpool.Pool.
// Every repository method takes it explicitly so callers decide the transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// TxFunc is the unit of work executed by RunInTx.
type TxFunc func(ctx context.Context, tx DBTX) error

// TransactionManager defines methods for transaction management
type TransactionManager interface {
	// RunInTx runs fn in a new transaction. It commits when fn returns nil and
	// rolls back otherwise, returning fn's error unchanged.
	RunInTx(ctx context.Context, fn TxFunc) error

	// DB returns the non-transactional handle for read-only queries.
	DB() DBTX
}
