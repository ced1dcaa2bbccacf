package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Posting is a row of the append-only postings table.
type Posting struct {
	ID             int64           `db:"id"`
	PostingDate    time.Time       `db:"posting_date"`
	DocRef         string          `db:"doc_ref"`
	DebitAccount   string          `db:"debit_account"`
	CreditAccount  string          `db:"credit_account"`
	Amount         decimal.Decimal `db:"amount"`
	TaxAmount      decimal.Decimal `db:"tax_amount"`
	Text           string          `db:"text"`
	Kind           string          `db:"kind"`
	SourceKind     string          `db:"source_kind"`
	SourceID       int64           `db:"source_id"`
	CostCenter     *string         `db:"cost_center"`
	CreatedAt      time.Time       `db:"created_at"`
	CreatedBy      string          `db:"created_by"`
	Reversed       bool            `db:"reversed"`
	ReversedAt     *time.Time      `db:"reversed_at"`
	ReversalOf     *int64          `db:"reversal_of"`
	ReversalReason *string         `db:"reversal_reason"`
}
