package repositories

import (
	"context"
	"time"

	"github.com/stitchadmin/stitchadmin/internal/core/domain"
)

// SequenceRepository stores document number counters.
type SequenceRepository interface {
	// FindSequenceForUpdate locks the sequence row of docType.
	// Returns apperrors.ErrSequenceNotConfigured when no row exists.
	FindSequenceForUpdate(ctx context.Context, db DBTX, docType domain.DocumentType) (*domain.DocumentNumberSequence, error)

	// UpdateSequenceCounter stores the counter fields of seq.
	UpdateSequenceCounter(ctx context.Context, db DBTX, seq domain.DocumentNumberSequence) error

	// ListSequences lists all configured sequences.
	ListSequences(ctx context.Context, db DBTX) ([]domain.DocumentNumberSequence, error)
}

// NumberLogRepository is the audit log of issued document numbers.
type NumberLogRepository interface {
	LogIssuedNumber(ctx context.Context, db DBTX, entry domain.IssuedNumber) error

	// CancelIssuedNumber flags a logged number. Returns apperrors.ErrNotFound for
	// unknown numbers and apperrors.ErrConflict when already cancelled.
	CancelIssuedNumber(ctx context.Context, db DBTX, number, reason, by string, at time.Time) error
}
