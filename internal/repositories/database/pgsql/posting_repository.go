package pgsql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stitchadmin/stitchadmin/internal/apperrors"
	"github.com/stitchadmin/stitchadmin/internal/core/domain"
	portsrepo "github.com/stitchadmin/stitchadmin/internal/core/ports/repositories"
	"github.com/stitchadmin/stitchadmin/internal/models"
	"github.com/stitchadmin/stitchadmin/internal/utils/mapping"
)

type PgxPostingRepository struct {
	pool *pgxpool.Pool
}

// newPgxPostingRepository creates a new repository for ledger postings.
func newPgxPostingRepository(pool *pgxpool.Pool) portsrepo.PostingRepositoryFacade {
	return &PgxPostingRepository{pool: pool}
}

var _ portsrepo.PostingRepositoryFacade = (*PgxPostingRepository)(nil)

const postingColumns = `id, posting_date, doc_ref, debit_account, credit_account, amount, tax_amount, text, kind,
	source_kind, source_id, cost_center, created_at, created_by, reversed, reversed_at, reversal_of, reversal_reason`

func scanPosting(row interface{ Scan(...any) error }) (domain.Posting, error) {
	var m models.Posting
	err := row.Scan(
		&m.ID, &m.PostingDate, &m.DocRef, &m.DebitAccount, &m.CreditAccount, &m.Amount, &m.TaxAmount, &m.Text, &m.Kind,
		&m.SourceKind, &m.SourceID, &m.CostCenter, &m.CreatedAt, &m.CreatedBy, &m.Reversed, &m.ReversedAt, &m.ReversalOf, &m.ReversalReason,
	)
	if err != nil {
		return domain.Posting{}, err
	}
	return mapping.ToDomainPosting(m)
}

func collectPostings(rows pgx.Rows) ([]domain.Posting, error) {
	defer rows.Close()
	postings := []domain.Posting{}
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return nil, translateError(err, "failed to scan posting row")
		}
		postings = append(postings, p)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "error iterating posting rows")
	}
	return postings, nil
}

func (r *PgxPostingRepository) findPosting(ctx context.Context, db portsrepo.DBTX, id int64, lock bool) (*domain.Posting, error) {
	query := `SELECT ` + postingColumns + ` FROM postings WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	p, err := scanPosting(db.QueryRow(ctx, query, id))
	if err != nil {
		err = translateError(err, "posting %d", id)
		if isNotFound(err) {
			return nil, fmt.Errorf("%w %d", apperrors.ErrPostingNotFound, id)
		}
		return nil, err
	}
	return &p, nil
}

// FindPostingByID retrieves a posting by id.
func (r *PgxPostingRepository) FindPostingByID(ctx context.Context, db portsrepo.DBTX, id int64) (*domain.Posting, error) {
	return r.findPosting(ctx, db, id, false)
}

// FindPostingByIDForUpdate retrieves and locks a posting. Must be called within a transaction.
func (r *PgxPostingRepository) FindPostingByIDForUpdate(ctx context.Context, db portsrepo.DBTX, id int64) (*domain.Posting, error) {
	return r.findPosting(ctx, db, id, true)
}

// FindCounterPosting returns the counter-posting of id.
func (r *PgxPostingRepository) FindCounterPosting(ctx context.Context, db portsrepo.DBTX, id int64) (*domain.Posting, error) {
	p, err := scanPosting(db.QueryRow(ctx, `SELECT `+postingColumns+` FROM postings WHERE reversal_of = $1`, id))
	if err != nil {
		return nil, translateError(err, "counter-posting of %d", id)
	}
	return &p, nil
}

// ListPostings builds the filtered listing. Descending (date, id) unless filter.Ascending.
func (r *PgxPostingRepository) ListPostings(ctx context.Context, db portsrepo.DBTX, filter domain.PostingFilter) ([]domain.Posting, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Account != "" {
		p := arg(filter.Account)
		conds = append(conds, fmt.Sprintf("(debit_account = %s OR credit_account = %s)", p, p))
	}
	if filter.DateFrom != nil {
		conds = append(conds, "posting_date >= "+arg(*filter.DateFrom)+"::date")
	}
	if filter.DateTo != nil {
		conds = append(conds, "posting_date <= "+arg(*filter.DateTo)+"::date")
	}
	if filter.Kind != "" {
		conds = append(conds, "kind = "+arg(string(filter.Kind)))
	}
	if filter.ExcludeReversed {
		conds = append(conds, "NOT reversed")
	}

	order := "DESC"
	cmp := "<"
	if filter.Ascending {
		order, cmp = "ASC", ">"
	}
	if filter.After != nil {
		conds = append(conds, fmt.Sprintf("(posting_date, id) %s (%s::date, %s)", cmp, arg(filter.After.Date), arg(filter.After.ID)))
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + postingColumns + ` FROM postings`)
	if len(conds) > 0 {
		b.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	fmt.Fprintf(&b, " ORDER BY posting_date %s, id %s", order, order)
	if filter.Limit > 0 {
		b.WriteString(" LIMIT " + arg(filter.Limit))
	}

	rows, err := db.Query(ctx, b.String(), args...)
	if err != nil {
		return nil, translateError(err, "failed to query postings")
	}
	return collectPostings(rows)
}

// ListPostingsBySource returns every posting of a source document in id order.
func (r *PgxPostingRepository) ListPostingsBySource(ctx context.Context, db portsrepo.DBTX, sourceKind string, sourceID int64) ([]domain.Posting, error) {
	query := `SELECT ` + postingColumns + ` FROM postings WHERE source_kind = $1 AND source_id = $2 ORDER BY id;`
	rows, err := db.Query(ctx, query, sourceKind, sourceID)
	if err != nil {
		return nil, translateError(err, "failed to query postings of %s %d", sourceKind, sourceID)
	}
	return collectPostings(rows)
}

// CountPostings counts live postings in the range.
func (r *PgxPostingRepository) CountPostings(ctx context.Context, db portsrepo.DBTX, from, to *time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM postings
		WHERE NOT reversed AND reversal_of IS NULL
		  AND ($1::date IS NULL OR posting_date >= $1::date)
		  AND ($2::date IS NULL OR posting_date <= $2::date);
	`
	var n int
	if err := db.QueryRow(ctx, query, from, to).Scan(&n); err != nil {
		return 0, translateError(err, "failed to count postings")
	}
	return n, nil
}

// InsertPosting appends a posting and returns its id.
func (r *PgxPostingRepository) InsertPosting(ctx context.Context, db portsrepo.DBTX, d domain.PostingDraft, createdAt time.Time) (int64, error) {
	query := `
		INSERT INTO postings (posting_date, doc_ref, debit_account, credit_account, amount, tax_amount, text, kind,
			source_kind, source_id, cost_center, created_at, created_by, reversal_of)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id;
	`
	var id int64
	err := db.QueryRow(ctx, query,
		d.Date, d.DocRef, d.DebitAccount, d.CreditAccount, d.Amount, d.TaxAmount, d.Text, string(d.Kind),
		d.SourceKind, d.SourceID, d.CostCenter, createdAt, d.CreatedBy, d.ReversalOf,
	).Scan(&id)
	if err != nil {
		return 0, translateError(err, "failed to insert posting %s", d.DocRef)
	}
	return id, nil
}

// MarkReversed sets the reversal flag of an unreversed posting.
func (r *PgxPostingRepository) MarkReversed(ctx context.Context, db portsrepo.DBTX, id int64, reason string, at time.Time) error {
	query := `
		UPDATE postings
		SET reversed = TRUE, reversed_at = $2, reversal_reason = $3
		WHERE id = $1 AND NOT reversed;
	`
	tag, err := db.Exec(ctx, query, id, at, reason)
	if err != nil {
		return translateError(err, "failed to mark posting %d reversed", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: posting %d is already reversed or does not exist", apperrors.ErrConflict, id)
	}
	return nil
}

type PgxFingerprintRepository struct {
	pool *pgxpool.Pool
}

func newPgxFingerprintRepository(pool *pgxpool.Pool) portsrepo.BookingFingerprintRepository {
	return &PgxFingerprintRepository{pool: pool}
}

var _ portsrepo.BookingFingerprintRepository = (*PgxFingerprintRepository)(nil)

// ClaimFingerprint inserts fp and reports whether this call created it.
func (r *PgxFingerprintRepository) ClaimFingerprint(ctx context.Context, db portsrepo.DBTX, fp domain.BookingFingerprint) (bool, error) {
	query := `
		INSERT INTO booking_fingerprints (fingerprint, source_kind, source_id, event, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (fingerprint) DO NOTHING;
	`
	tag, err := db.Exec(ctx, query, fp.Fingerprint, fp.SourceKind, fp.SourceID, fp.Event, fp.CreatedAt)
	if err != nil {
		return false, translateError(err, "failed to claim booking fingerprint")
	}
	return tag.RowsAffected() == 1, nil
}
