package services

import (
	"context"

	"github.com/stitchadmin/stitchadmin/internal/core/domain"
	"github.com/stitchadmin/stitchadmin/internal/core/ports/repositories"
)

// NumberingSvc issues document numbers
type NumberingSvc interface {
	// Next issues a number in its own transaction.
	Next(ctx context.Context, docType domain.DocumentType, actor string) (string, error)

	// NextInTx issues a number inside the caller's transaction. The counter only
	// advances if that transaction commits.
	NextInTx(ctx context.Context, tx repositories.DBTX, docType domain.DocumentType, actor string) (string, error)

	// CancelNumber marks an issued number as cancelled. It is never reissued.
	CancelNumber(ctx context.Context, number, reason, actor string) error

	// ListSequences returns the configured sequences.
	ListSequences(ctx context.Context) ([]domain.DocumentNumberSequence, error)
}
