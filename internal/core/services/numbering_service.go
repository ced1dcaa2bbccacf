package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/stitchadmin/stitchadmin/internal/apperrors"
	"github.com/stitchadmin/stitchadmin/internal/core/domain"
	portsrepo "github.com/stitchadmin/stitchadmin/internal/core/ports/repositories"
	portssvc "github.com/stitchadmin/stitchadmin/internal/core/ports/services"
)

// numberingService implements the NumberingSvc interface
type numberingService struct {
	BaseService
	txManager    portsrepo.TransactionManager
	sequenceRepo portsrepo.SequenceRepository
	logRepo      portsrepo.NumberLogRepository
}

// NewNumberingService creates a new numbering service.
func NewNumberingService(
	txManager portsrepo.TransactionManager,
	sequenceRepo portsrepo.SequenceRepository,
	logRepo portsrepo.NumberLogRepository,
	clock domain.Clock,
) portssvc.NumberingSvc {
	return &numberingService{
		BaseService:  BaseService{Clock: clock},
		txManager:    txManager,
		sequenceRepo: sequenceRepo,
		logRepo:      logRepo,
	}
}

// Ensure numberingService implements the NumberingSvc interface
var _ portssvc.NumberingSvc = (*numberingService)(nil)

func (s *numberingService) Next(ctx context.Context, docType domain.DocumentType, actor string) (string, error) {
	var number string
	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.DBTX) error {
		var err error
		number, err = s.NextInTx(ctx, tx, docType, actor)
		return err
	})
	if err != nil {
		return "", err
	}
	return number, nil
}

func (s *numberingService) NextInTx(ctx context.Context, tx portsrepo.DBTX, docType domain.DocumentType, actor string) (string, error) {
	if _, err := domain.ParseDocumentType(string(docType)); err != nil {
		return "", err
	}

	seq, err := s.sequenceRepo.FindSequenceForUpdate(ctx, tx, docType)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to lock number sequence", slog.String("doc_type", string(docType)))
		}
		return "", err
	}

	now := s.Now()
	number := seq.Advance(now)
	if err := s.sequenceRepo.UpdateSequenceCounter(ctx, tx, *seq); err != nil {
		s.LogError(ctx, err, "Failed to store number sequence", slog.String("doc_type", string(docType)))
		return "", err
	}
	if err := s.logRepo.LogIssuedNumber(ctx, tx, domain.IssuedNumber{
		DocType:  docType,
		Number:   number,
		IssuedAt: now,
		IssuedBy: actor,
	}); err != nil {
		s.LogError(ctx, err, "Failed to log issued number", slog.String("number", number))
		return "", err
	}

	s.LogDebug(ctx, "Document number issued", slog.String("doc_type", string(docType)), slog.String("number", number))
	return number, nil
}

func (s *numberingService) CancelNumber(ctx context.Context, number, reason, actor string) error {
	if number == "" || reason == "" {
		return fmt.Errorf("%w: number and reason are required", apperrors.ErrValidation)
	}
	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.DBTX) error {
		return s.logRepo.CancelIssuedNumber(ctx, tx, number, reason, actor, s.Now())
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to cancel document number", slog.String("number", number))
		}
		return err
	}
	s.LogInfo(ctx, "Document number cancelled", slog.String("number", number), slog.String("actor", actor))
	return nil
}

func (s *numberingService) ListSequences(ctx context.Context) ([]domain.DocumentNumberSequence, error) {
	seqs, err := s.sequenceRepo.ListSequences(ctx, s.txManager.DB())
	if err != nil {
		s.LogError(ctx, err, "Failed to list number sequences")
		return nil, err
	}
	return seqs, nil
}
