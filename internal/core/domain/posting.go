package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stitchadmin/stitchadmin/internal/apperrors"
)

// PostingKind classifies a ledger line.
type PostingKind string

const (
	PostingSale     PostingKind = "sale"
	PostingPurchase PostingKind = "purchase"
	PostingPayment  PostingKind = "payment"
	PostingTax      PostingKind = "tax"
	PostingReversal PostingKind = "reversal"
)

// ParsePostingKind parses the stored representation of a PostingKind.
func ParsePostingKind(s string) (PostingKind, error) {
	return parseEnum("posting kind", s,
		PostingSale, PostingPurchase, PostingPayment, PostingTax, PostingReversal)
}

// Source kinds identify the business document a posting was derived from.
const (
	SourceSaleReceipt     = "kassenbeleg"
	SourceInvoice         = "rechnung"
	SourcePurchaseInvoice = "eingangsrechnung"
	SourceOrder           = "order"
	SourceManual          = "manual"
)

// ReversalTextPrefix starts the text of every counter-posting.
const ReversalTextPrefix = "Reversal: "

// Posting is one double-entry ledger row. It is never deleted and only the
// reversal fields may change, once.
type Posting struct {
	ID             int64           `json:"id"`
	Date           time.Time       `json:"date"`
	DocRef         string          `json:"docRef"`
	DebitAccount   string          `json:"debitAccount"`
	CreditAccount  string          `json:"creditAccount"`
	Amount         decimal.Decimal `json:"amount"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	Text           string          `json:"text"`
	Kind           PostingKind     `json:"kind"`
	SourceKind     string          `json:"sourceKind"`
	SourceID       int64           `json:"sourceId"`
	CostCenter     *string         `json:"costCenter,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	CreatedBy      string          `json:"createdBy"`
	Reversed       bool            `json:"reversed"`
	ReversedAt     *time.Time      `json:"reversedAt,omitempty"`
	ReversalOf     *int64          `json:"reversalOf,omitempty"`
	ReversalReason *string         `json:"reversalReason,omitempty"`
}

// IsCounterPosting reports whether p reverses another posting.
func (p Posting) IsCounterPosting() bool {
	return p.ReversalOf != nil
}

// PostingDraft is a posting that has not been inserted yet.
type PostingDraft struct {
	Date          time.Time
	DocRef        string
	DebitAccount  string
	CreditAccount string
	Amount        decimal.Decimal
	TaxAmount     decimal.Decimal
	Text          string
	Kind          PostingKind
	SourceKind    string
	SourceID      int64
	CostCenter    *string
	CreatedBy     string
	ReversalOf    *int64
}

// Validate checks the invariants that do not need the chart of accounts.
func (d PostingDraft) Validate() error {
	if !d.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero, got %s", apperrors.ErrInvalidPosting, d.Amount)
	}
	if d.TaxAmount.IsNegative() {
		return fmt.Errorf("%w: tax amount must not be negative", apperrors.ErrInvalidPosting)
	}
	if d.DebitAccount == "" || d.CreditAccount == "" {
		return fmt.Errorf("%w: debit and credit account are required", apperrors.ErrInvalidPosting)
	}
	if d.DebitAccount == d.CreditAccount {
		return fmt.Errorf("%w: debit and credit account must differ (%s)", apperrors.ErrInvalidPosting, d.DebitAccount)
	}
	if d.Date.IsZero() {
		return fmt.Errorf("%w: date is required", apperrors.ErrInvalidPosting)
	}
	if _, err := ParsePostingKind(string(d.Kind)); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidPosting, err)
	}
	return nil
}

// PostingFilter narrows a ledger query. Zero values mean "no restriction".
type PostingFilter struct {
	Account         string
	DateFrom        *time.Time
	DateTo          *time.Time
	Kind            PostingKind
	Limit           int
	ExcludeReversed bool
	// Ascending switches the default (date desc, id desc) order.
	Ascending bool
	// After continues a descending listing below the given (date, id) cursor.
	After *PostingCursor
}

// PostingCursor marks a position in a (date, id) ordered listing.
type PostingCursor struct {
	Date time.Time
	ID   int64
}

// BookingFingerprint records that a business event has already been booked.
type BookingFingerprint struct {
	Fingerprint string
	SourceKind  string
	SourceID    int64
	Event       string
	CreatedAt   time.Time
}

// LedgerStatistics summarises the ledger for a period.
type LedgerStatistics struct {
	PostingCount       int             `json:"postingCount"`
	Revenue            decimal.Decimal `json:"revenue"`
	CashBalance        decimal.Decimal `json:"cashBalance"`
	BankBalance        decimal.Decimal `json:"bankBalance"`
	ReceivablesBalance decimal.Decimal `json:"receivablesBalance"`
}

// AccountTotals are the raw debit and credit sums of an account.
type AccountTotals struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}
