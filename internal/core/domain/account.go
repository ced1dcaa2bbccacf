package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountKind defines the fundamental accounting type of an account.
type AccountKind string

const (
	AccountKindAsset     AccountKind = "asset"
	AccountKindLiability AccountKind = "liability"
	AccountKindRevenue   AccountKind = "revenue"
	AccountKindExpense   AccountKind = "expense"
	AccountKindNeutral   AccountKind = "neutral"
)

// ParseAccountKind parses the stored representation of an AccountKind.
func ParseAccountKind(s string) (AccountKind, error) {
	return parseEnum("account kind", s,
		AccountKindAsset, AccountKindLiability, AccountKindRevenue, AccountKindExpense, AccountKindNeutral)
}

// DebitNormal reports whether the balance of this kind grows with debits.
// Neutral accounts follow the liability convention.
func (k AccountKind) DebitNormal() bool {
	return k == AccountKindAsset || k == AccountKindExpense
}

// SKR03 account numbers the core refers to directly.
const (
	AccountCash        = "1000"
	AccountBank        = "1200"
	AccountReceivables = "1400"
	AccountPayables    = "1600"
)

// DefaultChart is the chart of accounts seeded at bootstrap.
const DefaultChart = "SKR03"

// Account is a node of the chart of accounts. Only Active may change once a posting references it.
type Account struct {
	Number      string          `json:"number"`
	Name        string          `json:"name"`
	Kind        AccountKind     `json:"kind"`
	TaxRelevant bool            `json:"taxRelevant"`
	TaxRate     decimal.Decimal `json:"taxRate"`
	Active      bool            `json:"active"`
	Chart       string          `json:"chart"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// PaymentMethod is the closed set of payment labels known to the core.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "CASH"
	PaymentCard     PaymentMethod = "CARD"
	PaymentSumUp    PaymentMethod = "SUMUP"
	PaymentInvoice  PaymentMethod = "INVOICE"
	PaymentTransfer PaymentMethod = "TRANSFER"
)

// ParsePaymentMethod parses a payment method label.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	return parseEnum("payment method", s,
		PaymentCash, PaymentCard, PaymentSumUp, PaymentInvoice, PaymentTransfer)
}

// DefaultPaymentAccounts is used when no mapping row exists for a method.
var DefaultPaymentAccounts = map[PaymentMethod]string{
	PaymentCash:     AccountCash,
	PaymentCard:     AccountBank,
	PaymentSumUp:    AccountBank,
	PaymentTransfer: AccountBank,
	PaymentInvoice:  AccountReceivables,
}

// PaymentMethodMapping maps a payment method onto the account that receives the money.
type PaymentMethodMapping struct {
	Method        PaymentMethod `json:"method"`
	AccountNumber string        `json:"accountNumber"`
	Description   string        `json:"description"`
	Active        bool          `json:"active"`
	UpdatedAt     time.Time     `json:"updatedAt"`
	UpdatedBy     string        `json:"updatedBy"`
}

// VATDirection distinguishes sales (output VAT) from purchases (input VAT).
type VATDirection string

const (
	VATSales     VATDirection = "sales"
	VATPurchases VATDirection = "purchases"
)

// ParseVATDirection parses a VATDirection.
func ParseVATDirection(s string) (VATDirection, error) {
	return parseEnum("vat direction", s, VATSales, VATPurchases)
}

// VATAccountRule selects the base and tax account for one rate. TaxAccount is empty for 0%.
type VATAccountRule struct {
	Direction   VATDirection    `json:"direction"`
	Rate        decimal.Decimal `json:"rate"`
	BaseAccount string          `json:"baseAccount"`
	TaxAccount  string          `json:"taxAccount,omitempty"`
}
