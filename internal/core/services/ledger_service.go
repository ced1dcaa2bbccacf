package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/stitchadmin/stitchadmin/internal/apperrors"
	"github.com/stitchadmin/stitchadmin/internal/core/domain"
	portsrepo "github.com/stitchadmin/stitchadmin/internal/core/ports/repositories"
	portssvc "github.com/stitchadmin/stitchadmin/internal/core/ports/services"
	"github.com/stitchadmin/stitchadmin/internal/utils/accounting"
)

const (
	defaultLedgerFutureGrace = 24 * time.Hour
	defaultDATEVOrigin       = "StitchAdmin"
	maxPostingTextRunes      = 255
)

// revenueAccounts are summed into LedgerStatistics.Revenue.
var revenueAccounts = []string{"8400", "8300", "8125"}

// ledgerService implements the LedgerSvcFacade interface
type ledgerService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	postingRepo portsrepo.PostingRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	futureGrace time.Duration
	datevOrigin string
}

// LedgerServiceOption is a functional option for configuring the ledger service
type LedgerServiceOption func(*ledgerService)

// WithFutureGrace sets how far in the future a posting may be dated.
func WithFutureGrace(grace time.Duration) LedgerServiceOption {
	return func(s *ledgerService) {
		if grace >= 0 {
			s.futureGrace = grace
		}
	}
}

// WithDATEVOrigin sets the origin field of the export header.
func WithDATEVOrigin(origin string) LedgerServiceOption {
	return func(s *ledgerService) {
		if origin != "" {
			s.datevOrigin = origin
		}
	}
}

// WithLedgerClock replaces the wall clock.
func WithLedgerClock(clock domain.Clock) LedgerServiceOption {
	return func(s *ledgerService) {
		s.Clock = clock
	}
}

// NewLedgerService creates a new ledger service with the provided options
func NewLedgerService(
	txManager portsrepo.TransactionManager,
	postingRepo portsrepo.PostingRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	options ...LedgerServiceOption,
) portssvc.LedgerSvcFacade {
	svc := &ledgerService{
		txManager:   txManager,
		postingRepo: postingRepo,
		accountRepo: accountRepo,
		futureGrace: defaultLedgerFutureGrace,
		datevOrigin: defaultDATEVOrigin,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure ledgerService implements the LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) Post(ctx context.Context, drafts []domain.PostingDraft) ([]int64, error) {
	var ids []int64
	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.DBTX) error {
		var err error
		ids, err = s.PostInTx(ctx, tx, drafts)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *ledgerService) PostInTx(ctx context.Context, tx portsrepo.DBTX, drafts []domain.PostingDraft) ([]int64, error) {
	if len(drafts) == 0 {
		return nil, fmt.Errorf("%w: nothing to post", apperrors.ErrInvalidPosting)
	}

	prepared := make([]domain.PostingDraft, 0, len(drafts))
	numbers := make([]string, 0, 2*len(drafts))
	for i, d := range drafts {
		d, err := s.prepareDraft(d)
		if err != nil {
			s.LogDebug(ctx, "Rejected posting draft", slog.Int("index", i), slog.String("error", err.Error()))
			return nil, err
		}
		prepared = append(prepared, d)
		numbers = append(numbers, d.DebitAccount, d.CreditAccount)
	}

	accounts, err := s.accountRepo.FindAccountsByNumbers(ctx, tx, numbers)
	if err != nil {
		s.LogError(ctx, err, "Failed to load posting accounts")
		return nil, err
	}
	for _, d := range prepared {
		if bad, ok := accounting.CheckedPostingAccounts(d, accounts); !ok {
			if _, exists := accounts[bad]; !exists {
				return nil, fmt.Errorf("%w %s", apperrors.ErrUnknownAccount, bad)
			}
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrInvalidPosting, bad)
		}
	}

	createdAt := s.Now()
	ids := make([]int64, 0, len(prepared))
	for _, d := range prepared {
		id, err := s.postingRepo.InsertPosting(ctx, tx, d, createdAt)
		if err != nil {
			s.LogError(ctx, err, "Failed to insert posting",
				slog.String("doc_ref", d.DocRef), slog.String("source_kind", d.SourceKind))
			return nil, err
		}
		ids = append(ids, id)
	}

	s.LogDebug(ctx, "Postings inserted", slog.Int("count", len(ids)))
	return ids, nil
}

// prepareDraft rounds amounts and checks everything that does not need the chart.
func (s *ledgerService) prepareDraft(d domain.PostingDraft) (domain.PostingDraft, error) {
	d.Amount = domain.RoundMoney(d.Amount)
	d.TaxAmount = domain.RoundMoney(d.TaxAmount)
	if err := d.Validate(); err != nil {
		return d, err
	}
	if d.Kind == domain.PostingReversal && d.ReversalOf == nil {
		return d, fmt.Errorf("%w: reversal postings are created by Reverse only", apperrors.ErrInvalidPosting)
	}
	if d.SourceKind == "" {
		return d, fmt.Errorf("%w: source kind is required", apperrors.ErrInvalidPosting)
	}
	if utf8.RuneCountInString(d.Text) > maxPostingTextRunes {
		return d, fmt.Errorf("%w: text longer than %d characters", apperrors.ErrInvalidPosting, maxPostingTextRunes)
	}
	latest := s.Now().Add(s.futureGrace)
	d.Date = domain.DateOnly(d.Date)
	if d.Date.After(latest) {
		return d, fmt.Errorf("%w: date %s is in the future", apperrors.ErrInvalidPosting, d.Date.Format(time.DateOnly))
	}
	return d, nil
}

func (s *ledgerService) Reverse(ctx context.Context, postingID int64, reason, actor string) (int64, error) {
	var counterID int64
	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.DBTX) error {
		var err error
		counterID, err = s.ReverseInTx(ctx, tx, postingID, reason, actor)
		return err
	})
	if err != nil {
		return 0, err
	}
	return counterID, nil
}

func (s *ledgerService) ReverseInTx(ctx context.Context, tx portsrepo.DBTX, postingID int64, reason, actor string) (int64, error) {
	if reason == "" {
		return 0, fmt.Errorf("%w: reversal reason is required", apperrors.ErrValidation)
	}

	original, err := s.postingRepo.FindPostingByIDForUpdate(ctx, tx, postingID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to lock posting", slog.Int64("posting_id", postingID))
		}
		return 0, err
	}
	if original.IsCounterPosting() {
		return 0, fmt.Errorf("%w: posting %d is itself a reversal", apperrors.ErrInvalidPosting, postingID)
	}
	if original.Reversed {
		counter, err := s.postingRepo.FindCounterPosting(ctx, tx, postingID)
		if err != nil {
			return 0, err
		}
		s.LogDebug(ctx, "Posting already reversed", slog.Int64("posting_id", postingID), slog.Int64("counter_id", counter.ID))
		return counter.ID, nil
	}

	now := s.Now()
	reversalOf := original.ID
	counter := domain.PostingDraft{
		Date:          domain.DateOnly(now),
		DocRef:        original.DocRef,
		DebitAccount:  original.CreditAccount,
		CreditAccount: original.DebitAccount,
		Amount:        original.Amount,
		TaxAmount:     original.TaxAmount,
		Text:          truncateRunes(domain.ReversalTextPrefix+original.Text, maxPostingTextRunes),
		Kind:          domain.PostingReversal,
		SourceKind:    original.SourceKind,
		SourceID:      original.SourceID,
		CostCenter:    original.CostCenter,
		CreatedBy:     actor,
		ReversalOf:    &reversalOf,
	}
	if err := counter.Validate(); err != nil {
		return 0, err
	}

	counterID, err := s.postingRepo.InsertPosting(ctx, tx, counter, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to insert counter-posting", slog.Int64("posting_id", postingID))
		return 0, err
	}
	if err := s.postingRepo.MarkReversed(ctx, tx, postingID, reason, now); err != nil {
		s.LogError(ctx, err, "Failed to mark posting reversed", slog.Int64("posting_id", postingID))
		return 0, err
	}

	s.LogInfo(ctx, "Posting reversed",
		slog.Int64("posting_id", postingID), slog.Int64("counter_id", counterID), slog.String("actor", actor))
	return counterID, nil
}

func (s *ledgerService) Query(ctx context.Context, filter domain.PostingFilter) ([]domain.Posting, error) {
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
		return nil, fmt.Errorf("%w: from must not be after to", apperrors.ErrValidation)
	}
	if filter.Kind != "" {
		if _, err := domain.ParsePostingKind(string(filter.Kind)); err != nil {
			return nil, err
		}
	}
	postings, err := s.postingRepo.ListPostings(ctx, s.txManager.DB(), filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to query postings")
		return nil, err
	}
	return postings, nil
}

func (s *ledgerService) GetPosting(ctx context.Context, id int64) (*domain.Posting, error) {
	return s.postingRepo.FindPostingByID(ctx, s.txManager.DB(), id)
}

func (s *ledgerService) ListBySource(ctx context.Context, sourceKind string, sourceID int64) ([]domain.Posting, error) {
	postings, err := s.postingRepo.ListPostingsBySource(ctx, s.txManager.DB(), sourceKind, sourceID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list postings by source",
			slog.String("source_kind", sourceKind), slog.Int64("source_id", sourceID))
		return nil, err
	}
	return postings, nil
}

func (s *ledgerService) Statistics(ctx context.Context, from, to *time.Time) (*domain.LedgerStatistics, error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, fmt.Errorf("%w: from must not be after to", apperrors.ErrValidation)
	}
	db := s.txManager.DB()

	count, err := s.postingRepo.CountPostings(ctx, db, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to count postings")
		return nil, err
	}

	numbers := append([]string{domain.AccountCash, domain.AccountBank, domain.AccountReceivables}, revenueAccounts...)
	accounts, err := s.accountRepo.FindAccountsByNumbers(ctx, db, numbers)
	if err != nil {
		return nil, err
	}
	balances := make(map[string]decimal.Decimal, len(numbers))
	for _, number := range numbers {
		acc, ok := accounts[number]
		if !ok {
			balances[number] = decimal.Zero
			continue
		}
		totals, err := s.accountRepo.SumAccount(ctx, db, number, from, to)
		if err != nil {
			s.LogError(ctx, err, "Failed to sum account", slog.String("account", number))
			return nil, err
		}
		balances[number] = accounting.SignedBalance(acc.Kind, totals)
	}

	revenue := decimal.Zero
	for _, number := range revenueAccounts {
		revenue = revenue.Add(balances[number])
	}
	return &domain.LedgerStatistics{
		PostingCount:       count,
		Revenue:            domain.RoundMoney(revenue),
		CashBalance:        balances[domain.AccountCash],
		BankBalance:        balances[domain.AccountBank],
		ReceivablesBalance: balances[domain.AccountReceivables],
	}, nil
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
