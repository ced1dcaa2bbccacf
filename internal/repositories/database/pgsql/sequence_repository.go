package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stitchadmin/stitchadmin/internal/apperrors"
	"github.com/stitchadmin/stitchadmin/internal/core/domain"
	portsrepo "github.com/stitchadmin/stitchadmin/internal/core/ports/repositories"
	"github.com/stitchadmin/stitchadmin/internal/models"
	"github.com/stitchadmin/stitchadmin/internal/utils/mapping"
)

type PgxSequenceRepository struct {
	pool *pgxpool.Pool
}

// newPgxSequenceRepository creates a repository for number sequences and the number log.
func newPgxSequenceRepository(pool *pgxpool.Pool) *PgxSequenceRepository {
	return &PgxSequenceRepository{pool: pool}
}

var (
	_ portsrepo.SequenceRepository  = (*PgxSequenceRepository)(nil)
	_ portsrepo.NumberLogRepository = (*PgxSequenceRepository)(nil)
)

const sequenceColumns = `doc_type, prefix, separator, include_year, include_month, number_length,
	reset_yearly, reset_monthly, current_year, current_month, current_number`

func scanSequence(row interface{ Scan(...any) error }) (domain.DocumentNumberSequence, error) {
	var m models.DocumentNumberSequence
	err := row.Scan(&m.DocType, &m.Prefix, &m.Separator, &m.IncludeYear, &m.IncludeMonth, &m.NumberLength,
		&m.ResetYearly, &m.ResetMonthly, &m.CurrentYear, &m.CurrentMonth, &m.CurrentNumber)
	if err != nil {
		return domain.DocumentNumberSequence{}, err
	}
	return mapping.ToDomainSequence(m)
}

// FindSequenceForUpdate locks the sequence row of docType. Must be called within a transaction.
func (r *PgxSequenceRepository) FindSequenceForUpdate(ctx context.Context, db portsrepo.DBTX, docType domain.DocumentType) (*domain.DocumentNumberSequence, error) {
	query := `SELECT ` + sequenceColumns + ` FROM document_number_sequences WHERE doc_type = $1 FOR UPDATE;`
	seq, err := scanSequence(db.QueryRow(ctx, query, string(docType)))
	if err != nil {
		err = translateError(err, "sequence %s", docType)
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrSequenceNotConfigured, docType)
		}
		return nil, err
	}
	return &seq, nil
}

// UpdateSequenceCounter stores the period and counter of seq.
func (r *PgxSequenceRepository) UpdateSequenceCounter(ctx context.Context, db portsrepo.DBTX, seq domain.DocumentNumberSequence) error {
	query := `
		UPDATE document_number_sequences
		SET current_year = $2, current_month = $3, current_number = $4
		WHERE doc_type = $1;
	`
	tag, err := db.Exec(ctx, query, string(seq.DocType), seq.CurrentYear, seq.CurrentMonth, seq.CurrentNumber)
	if err != nil {
		return translateError(err, "failed to update sequence %s", seq.DocType)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrSequenceNotConfigured, seq.DocType)
	}
	return nil
}

// ListSequences lists every configured sequence ordered by document type.
func (r *PgxSequenceRepository) ListSequences(ctx context.Context, db portsrepo.DBTX) ([]domain.DocumentNumberSequence, error) {
	rows, err := db.Query(ctx, `SELECT `+sequenceColumns+` FROM document_number_sequences ORDER BY doc_type;`)
	if err != nil {
		return nil, translateError(err, "failed to list sequences")
	}
	defer rows.Close()

	var out []domain.DocumentNumberSequence
	for rows.Next() {
		seq, err := scanSequence(rows)
		if err != nil {
			return nil, translateError(err, "failed to scan sequence row")
		}
		out = append(out, seq)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "error iterating sequences")
	}
	return out, nil
}

// LogIssuedNumber appends to the number log.
func (r *PgxSequenceRepository) LogIssuedNumber(ctx context.Context, db portsrepo.DBTX, entry domain.IssuedNumber) error {
	query := `
		INSERT INTO document_number_log (number, doc_type, issued_at, issued_by)
		VALUES ($1, $2, $3, $4);
	`
	_, err := db.Exec(ctx, query, entry.Number, string(entry.DocType), entry.IssuedAt, entry.IssuedBy)
	return translateError(err, "failed to log number %s", entry.Number)
}

// CancelIssuedNumber flags a logged number as cancelled.
func (r *PgxSequenceRepository) CancelIssuedNumber(ctx context.Context, db portsrepo.DBTX, number, reason, by string, at time.Time) error {
	var cancelled bool
	err := db.QueryRow(ctx, `SELECT cancelled FROM document_number_log WHERE number = $1 FOR UPDATE;`, number).Scan(&cancelled)
	if err != nil {
		return translateError(err, "document number %s", number)
	}
	if cancelled {
		return fmt.Errorf("%w: document number %s is already cancelled", apperrors.ErrConflict, number)
	}

	query := `
		UPDATE document_number_log
		SET cancelled = TRUE, cancelled_at = $2, cancelled_by = $3, cancel_reason = $4
		WHERE number = $1;
	`
	_, err = db.Exec(ctx, query, number, at, by, reason)
	return translateError(err, "failed to cancel document number %s", number)
}
