package domain

import "github.com/shopspring/decimal"

// MoneyScale is the number of decimal places kept for every monetary value.
const MoneyScale = 2

// RoundMoney rounds to two places, halves away from zero.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// FormatMoney renders d with exactly two places and a '.' separator.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(MoneyScale)
}

// TaxLine is the per-rate breakdown of a receipt or invoice.
type TaxLine struct {
	Rate decimal.Decimal `json:"rate"`
	Net  decimal.Decimal `json:"net"`
	Tax  decimal.Decimal `json:"tax"`
}

// Gross is net plus tax.
func (l TaxLine) Gross() decimal.Decimal {
	return l.Net.Add(l.Tax)
}
