package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a row of the accounts table.
type Account struct {
	Number      string           `db:"number"`
	Name        string           `db:"name"`
	Kind        string           `db:"kind"`
	TaxRelevant bool             `db:"tax_relevant"`
	TaxRate     *decimal.Decimal `db:"tax_rate"` // Nullable
	Active      bool             `db:"active"`
	Chart       string           `db:"chart"`
	CreatedAt   time.Time        `db:"created_at"`
}

// PaymentMethodMapping is a row of payment_method_mappings.
type PaymentMethodMapping struct {
	Method        string    `db:"method"`
	AccountNumber string    `db:"account_number"`
	Description   string    `db:"description"`
	Active        bool      `db:"active"`
	UpdatedAt     time.Time `db:"updated_at"`
	UpdatedBy     string    `db:"updated_by"`
}

// VATAccountRule is a row of vat_account_rules.
type VATAccountRule struct {
	Direction   string          `db:"direction"`
	Rate        decimal.Decimal `db:"rate"`
	BaseAccount string          `db:"base_account"`
	TaxAccount  *string         `db:"tax_account"` // NULL for 0%
}
