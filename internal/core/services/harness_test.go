package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stitchadmin/stitchadmin/internal/core/domain"
	portssvc "github.com/stitchadmin/stitchadmin/internal/core/ports/services"
	"github.com/stitchadmin/stitchadmin/internal/core/services"
	"github.com/stitchadmin/stitchadmin/internal/platform/config"
	"github.com/stretchr/testify/suite"
)

// coreSuite wires the real services over the in-memory store.
type coreSuite struct {
	suite.Suite
	ctx   context.Context
	store *memStore
	clock *testClock
	pub   *recordingPublisher
	cfg   *config.Config
	svc   *portssvc.ServiceContainer
}

func (s *coreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = newMemStore()
	s.clock = newTestClock(time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC))
	s.pub = &recordingPublisher{}
	s.cfg = &config.Config{
		LedgerFutureGrace:         24 * time.Hour,
		MappingCacheTTL:           time.Minute,
		AccountDeactivationWindow: 90 * 24 * time.Hour,
		DATEVOrigin:               "StitchAdmin",
	}

	vat, err := services.LoadVATTable(s.ctx, s.store.provider())
	s.Require().NoError(err)
	s.svc = services.NewServiceContainer(s.cfg, s.store.provider(), vat, s.pub, s.clock)
}

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *coreSuite) balance(account string) string {
	b, err := s.svc.Account.Balance(s.ctx, account, nil, nil)
	s.Require().NoError(err)
	return domain.FormatMoney(b)
}

func (s *coreSuite) post(drafts ...domain.PostingDraft) []int64 {
	ids, err := s.svc.Ledger.Post(s.ctx, drafts)
	s.Require().NoError(err)
	return ids
}

func draft(date time.Time, debit, credit, amount string) domain.PostingDraft {
	return domain.PostingDraft{
		Date:          date,
		DocRef:        "TEST-1",
		DebitAccount:  debit,
		CreditAccount: credit,
		Amount:        dec(amount),
		Text:          "Test posting",
		Kind:          domain.PostingSale,
		SourceKind:    domain.SourceManual,
		CreatedBy:     "anna",
	}
}

type postingLine struct {
	Debit, Credit, Amount string
	Kind                  domain.PostingKind
}

func lines(postings []domain.Posting) []postingLine {
	out := make([]postingLine, 0, len(postings))
	for _, p := range postings {
		out = append(out, postingLine{p.DebitAccount, p.CreditAccount, domain.FormatMoney(p.Amount), p.Kind})
	}
	return out
}
