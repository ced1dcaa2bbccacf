package services

import (
	"context"
	"time"

	"github.com/stitchadmin/stitchadmin/internal/core/domain"
	"github.com/stitchadmin/stitchadmin/internal/core/ports/repositories"
)

// LedgerWriterSvc appends and reverses postings
type LedgerWriterSvc interface {
	// Post inserts all drafts atomically in a new transaction.
	Post(ctx context.Context, drafts []domain.PostingDraft) ([]int64, error)

	// PostInTx inserts all drafts inside the caller's transaction.
	PostInTx(ctx context.Context, tx repositories.DBTX, drafts []domain.PostingDraft) ([]int64, error)

	// Reverse counter-books a posting. Reversing twice returns the first counter-posting.
	Reverse(ctx context.Context, postingID int64, reason, actor string) (int64, error)

	// ReverseInTx is Reverse inside the caller's transaction.
	ReverseInTx(ctx context.Context, tx repositories.DBTX, postingID int64, reason, actor string) (int64, error)
}

// LedgerReaderSvc queries and exports postings
type LedgerReaderSvc interface {
	// Query lists postings, newest first.
	Query(ctx context.Context, filter domain.PostingFilter) ([]domain.Posting, error)

	// GetPosting retrieves a single posting.
	GetPosting(ctx context.Context, id int64) (*domain.Posting, error)

	// ListBySource lists every posting derived from one business document.
	ListBySource(ctx context.Context, sourceKind string, sourceID int64) ([]domain.Posting, error)

	// ExportDATEV renders the postings of a period as a DATEV booking batch.
	ExportDATEV(ctx context.Context, from, to time.Time) ([]byte, string, error)

	// Statistics summarises the ledger for an optional period.
	Statistics(ctx context.Context, from, to *time.Time) (*domain.LedgerStatistics, error)
}

// LedgerSvcFacade combines all ledger service interfaces
type LedgerSvcFacade interface {
	LedgerWriterSvc
	LedgerReaderSvc
}
