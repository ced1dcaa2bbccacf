package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a row of the invoices table. Snapshot and tax lines are JSONB.
type Invoice struct {
	ID               int64           `db:"id"`
	InvoiceNumber    string          `db:"invoice_number"`
	OrderID          int64           `db:"order_id"`
	CustomerSnapshot []byte          `db:"customer_snapshot"`
	InvoiceDate      time.Time       `db:"invoice_date"`
	Net              decimal.Decimal `db:"net"`
	Tax              decimal.Decimal `db:"tax"`
	Gross            decimal.Decimal `db:"gross"`
	TaxLines         []byte          `db:"tax_lines"`
	PaymentMethod    *string         `db:"payment_method"`
	Status           string          `db:"status"`
	CreatedAt        time.Time       `db:"created_at"`
	CreatedBy        string          `db:"created_by"`
}
