package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stitchadmin/stitchadmin/internal/apperrors"
	"github.com/stitchadmin/stitchadmin/internal/core/domain"
	portsrepo "github.com/stitchadmin/stitchadmin/internal/core/ports/repositories"
	"github.com/stitchadmin/stitchadmin/internal/models"
	"github.com/stitchadmin/stitchadmin/internal/utils/mapping"
)

type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

// newPgxAccountRepository creates a new repository for the chart of accounts.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{pool: pool}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `number, name, kind, tax_relevant, tax_rate, active, chart, created_at`

func scanAccount(row interface{ Scan(...any) error }) (models.Account, error) {
	var m models.Account
	err := row.Scan(&m.Number, &m.Name, &m.Kind, &m.TaxRelevant, &m.TaxRate, &m.Active, &m.Chart, &m.CreatedAt)
	return m, err
}

// FindAccountByNumber retrieves an account by its number.
func (r *PgxAccountRepository) FindAccountByNumber(ctx context.Context, db portsrepo.DBTX, number string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE number = $1;`

	m, err := scanAccount(db.QueryRow(ctx, query, number))
	if err != nil {
		err = translateError(err, "account %s", number)
		if isNotFound(err) {
			return nil, fmt.Errorf("%w %s", apperrors.ErrUnknownAccount, number)
		}
		return nil, err
	}
	acc, err := mapping.ToDomainAccount(m)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// FindAccountsByNumbers retrieves several accounts keyed by number.
func (r *PgxAccountRepository) FindAccountsByNumbers(ctx context.Context, db portsrepo.DBTX, numbers []string) (map[string]domain.Account, error) {
	accounts := make(map[string]domain.Account, len(numbers))
	if len(numbers) == 0 {
		return accounts, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE number = ANY($1);`
	rows, err := db.Query(ctx, query, numbers)
	if err != nil {
		return nil, translateError(err, "failed to query accounts by numbers")
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, translateError(err, "failed to scan account row")
		}
		acc, err := mapping.ToDomainAccount(m)
		if err != nil {
			return nil, err
		}
		accounts[acc.Number] = acc
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "error iterating account rows")
	}
	return accounts, nil
}

// ListAccounts lists the chart ordered by number.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, db portsrepo.DBTX, activeOnly bool) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ($1 = FALSE OR active) ORDER BY number;`
	rows, err := db.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, translateError(err, "failed to list accounts")
	}
	defer rows.Close()

	var ms []models.Account
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, translateError(err, "failed to scan account row")
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "error iterating account rows")
	}
	return mapping.ToDomainAccountSlice(ms)
}

// SetAccountActive flips the active flag.
func (r *PgxAccountRepository) SetAccountActive(ctx context.Context, db portsrepo.DBTX, number string, active bool) error {
	tag, err := db.Exec(ctx, `UPDATE accounts SET active = $2 WHERE number = $1;`, number, active)
	if err != nil {
		return translateError(err, "failed to update account %s", number)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w %s", apperrors.ErrUnknownAccount, number)
	}
	return nil
}

// SumAccount aggregates live postings on both sides of the account. Reversed
// postings and counter-postings cancel out and are skipped together.
func (r *PgxAccountRepository) SumAccount(ctx context.Context, db portsrepo.DBTX, number string, from, to *time.Time) (domain.AccountTotals, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE debit_account = $1), 0),
			COALESCE(SUM(amount) FILTER (WHERE credit_account = $1), 0)
		FROM postings
		WHERE (debit_account = $1 OR credit_account = $1)
		  AND NOT reversed
		  AND reversal_of IS NULL
		  AND ($2::date IS NULL OR posting_date >= $2::date)
		  AND ($3::date IS NULL OR posting_date <= $3::date);
	`
	var debit, credit decimal.Decimal
	if err := db.QueryRow(ctx, query, number, from, to).Scan(&debit, &credit); err != nil {
		return domain.AccountTotals{}, translateError(err, "failed to sum account %s", number)
	}
	return domain.AccountTotals{Debit: debit, Credit: credit}, nil
}

// HasPostingsSince reports whether a posting dated on or after since touches the account.
func (r *PgxAccountRepository) HasPostingsSince(ctx context.Context, db portsrepo.DBTX, number string, since time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM postings
			WHERE (debit_account = $1 OR credit_account = $1) AND posting_date >= $2::date
		);
	`
	var exists bool
	if err := db.QueryRow(ctx, query, number, since).Scan(&exists); err != nil {
		return false, translateError(err, "failed to check recent postings of account %s", number)
	}
	return exists, nil
}
