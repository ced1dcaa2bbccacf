package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stitchadmin/stitchadmin/internal/apperrors"
	portsrepo "github.com/stitchadmin/stitchadmin/internal/core/ports/repositories"
	"github.com/stitchadmin/stitchadmin/internal/middleware"
)

// PostgreSQL error codes the repositories translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgRaiseException      = "P0001"
)

// PgxTransactionManager runs units of work on a pgx pool.
type PgxTransactionManager struct {
	pool *pgxpool.Pool
}

func newPgxTransactionManager(pool *pgxpool.Pool) portsrepo.TransactionManager {
	return &PgxTransactionManager{pool: pool}
}

var _ portsrepo.TransactionManager = (*PgxTransactionManager)(nil)

// RunInTx begins a transaction, runs fn and commits. Any error from fn rolls back.
func (m *PgxTransactionManager) RunInTx(ctx context.Context, fn portsrepo.TxFunc) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			middleware.GetLoggerFromCtx(ctx).Warn("Failed to roll back transaction", "error", rbErr)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// DB returns the pool for statements outside a transaction.
func (m *PgxTransactionManager) DB() portsrepo.DBTX {
	return m.pool
}

// translateError maps driver errors onto the application error kinds.
func translateError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, msg)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s: %s", apperrors.ErrDuplicate, msg, pgErr.Detail)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s: referenced row missing: %s", apperrors.ErrValidation, msg, pgErr.Detail)
		case pgCheckViolation:
			return fmt.Errorf("%w: %s: %s", apperrors.ErrValidation, msg, pgErr.ConstraintName)
		case pgRaiseException:
			return fmt.Errorf("%w: %s: %s", apperrors.ErrConflict, msg, pgErr.Message)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return fmt.Errorf("%w: %s: %v", apperrors.ErrDatabase, msg, err)
}

func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}

func errorsIsDuplicate(err error) bool {
	return errors.Is(err, apperrors.ErrDuplicate)
}
