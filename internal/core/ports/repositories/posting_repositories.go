package repositories

import (
	"context"
	"time"

	"github.com/stitchadmin/stitchadmin/internal/core/domain"
)

// PostingReader defines read operations for ledger postings
type PostingReader interface {
	// FindPostingByID retrieves a posting. Returns apperrors.ErrNotFound when missing.
	FindPostingByID(ctx context.Context, db DBTX, id int64) (*domain.Posting, error)

	// FindPostingByIDForUpdate retrieves a posting and locks its row until the transaction ends.
	FindPostingByIDForUpdate(ctx context.Context, db DBTX, id int64) (*domain.Posting, error)

	// FindCounterPosting returns the posting whose reversal_of is id.
	FindCounterPosting(ctx context.Context, db DBTX, id int64) (*domain.Posting, error)

	// ListPostings returns postings matching the filter, ordered by (date, id).
	ListPostings(ctx context.Context, db DBTX, filter domain.PostingFilter) ([]domain.Posting, error)

	// ListPostingsBySource returns every posting of one source document in id order.
	ListPostingsBySource(ctx context.Context, db DBTX, sourceKind string, sourceID int64) ([]domain.Posting, error)

	// CountPostings counts live postings dated in the range.
	CountPostings(ctx context.Context, db DBTX, from, to *time.Time) (int, error)
}

// PostingWriter defines the two writes the ledger allows.
type PostingWriter interface {
	// InsertPosting appends a posting and returns its id.
	InsertPosting(ctx context.Context, db DBTX, draft domain.PostingDraft, createdAt time.Time) (int64, error)

	// MarkReversed flips reversed false->true. Returns apperrors.ErrConflict if it was already reversed.
	MarkReversed(ctx context.Context, db DBTX, id int64, reason string, at time.Time) error
}

// PostingRepositoryFacade combines all posting-related repository interfaces
type PostingRepositoryFacade interface {
	PostingReader
	PostingWriter
}

// BookingFingerprintRepository remembers booked business events.
type BookingFingerprintRepository interface {
	// ClaimFingerprint inserts the fingerprint and reports whether it was new.
	ClaimFingerprint(ctx context.Context, db DBTX, fp domain.BookingFingerprint) (bool, error)
}
