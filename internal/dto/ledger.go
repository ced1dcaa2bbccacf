package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/stitchadmin/stitchadmin/internal/core/domain"
)

// PostingRequest is a manual posting.
type PostingRequest struct {
	Date          time.Time       `json:"date" binding:"required"`
	DocRef        string          `json:"docRef" binding:"required"`
	DebitAccount  string          `json:"debitAccount" binding:"required"`
	CreditAccount string          `json:"creditAccount" binding:"required,nefield=DebitAccount"`
	Amount        decimal.Decimal `json:"amount"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	Text          string          `json:"text" binding:"required,max=255"`
	Kind          string          `json:"kind" binding:"required,oneof=sale purchase payment tax"`
	CostCenter    *string         `json:"costCenter"`
}

// CreatePostingsRequest posts several lines atomically.
type CreatePostingsRequest struct {
	Postings []PostingRequest `json:"postings" binding:"required,min=1,dive"`
}

// ToDrafts converts manual postings to ledger drafts.
func (r CreatePostingsRequest) ToDrafts(actor string) []domain.PostingDraft {
	drafts := make([]domain.PostingDraft, len(r.Postings))
	for i, p := range r.Postings {
		drafts[i] = domain.PostingDraft{
			Date:          p.Date,
			DocRef:        p.DocRef,
			DebitAccount:  p.DebitAccount,
			CreditAccount: p.CreditAccount,
			Amount:        p.Amount,
			TaxAmount:     p.TaxAmount,
			Text:          p.Text,
			Kind:          domain.PostingKind(p.Kind),
			SourceKind:    domain.SourceManual,
			CostCenter:    p.CostCenter,
			CreatedBy:     actor,
		}
	}
	return drafts
}

// PostingIDsResponse lists the ids of inserted postings.
type PostingIDsResponse struct {
	PostingIDs []int64 `json:"postingIds"`
}

// ReversePostingRequest reverses a posting.
type ReversePostingRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ReversePostingResponse returns the counter-posting.
type ReversePostingResponse struct {
	CounterPostingID int64 `json:"counterPostingId"`
}

// ListPostingsParams are the query parameters of the posting listing.
type ListPostingsParams struct {
	Account         string    `form:"account"`
	From            time.Time `form:"from" time_format:"2006-01-02"`
	To              time.Time `form:"to" time_format:"2006-01-02"`
	Kind            string    `form:"kind" binding:"omitempty,oneof=sale purchase payment tax reversal"`
	Limit           int       `form:"limit,default=50" binding:"min=1,max=500"`
	ExcludeReversed bool      `form:"excludeReversed"`
	NextToken       *string   `form:"nextToken"`
}

// ListPostingsResponse is one page of postings.
type ListPostingsResponse struct {
	Postings  []domain.Posting `json:"postings"`
	NextToken *string          `json:"nextToken,omitempty"`
}

// PeriodParams select an optional date range.
type PeriodParams struct {
	From time.Time `form:"from" time_format:"2006-01-02"`
	To   time.Time `form:"to" time_format:"2006-01-02"`
}

// Range returns the bounds as pointers, nil when unset.
func (p PeriodParams) Range() (*time.Time, *time.Time) {
	return optionalTime(p.From), optionalTime(p.To)
}

// ExportParams select the DATEV export period.
type ExportParams struct {
	From time.Time `form:"from" time_format:"2006-01-02" binding:"required"`
	To   time.Time `form:"to" time_format:"2006-01-02" binding:"required"`
}

// BalanceResponse is the balance of one account.
type BalanceResponse struct {
	Account string          `json:"account"`
	Balance decimal.Decimal `json:"balance"`
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
