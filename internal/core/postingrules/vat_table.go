// Package postingrules translates business events into ledger drafts.
// Every function is pure: documents in, drafts out.
package postingrules

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/stitchadmin/stitchadmin/internal/apperrors"
	"github.com/stitchadmin/stitchadmin/internal/core/domain"
)

// VATTable resolves the base and tax accounts for a VAT rate.
type VATTable struct {
	rules map[domain.VATDirection]map[string]domain.VATAccountRule
}

func rateKey(rate decimal.Decimal) string {
	return rate.StringFixed(2)
}

// NewVATTable builds a table from rule rows. Duplicate (direction, rate) pairs are rejected.
func NewVATTable(rules []domain.VATAccountRule) (*VATTable, error) {
	t := &VATTable{rules: map[domain.VATDirection]map[string]domain.VATAccountRule{
		domain.VATSales:     {},
		domain.VATPurchases: {},
	}}
	for _, r := range rules {
		byRate, ok := t.rules[r.Direction]
		if !ok {
			return nil, fmt.Errorf("%w: unknown vat direction %q", apperrors.ErrValidation, r.Direction)
		}
		if r.BaseAccount == "" {
			return nil, fmt.Errorf("%w: vat rule %s %s%% has no base account", apperrors.ErrValidation, r.Direction, r.Rate)
		}
		key := rateKey(r.Rate)
		if _, dup := byRate[key]; dup {
			return nil, fmt.Errorf("%w: duplicate vat rule %s %s%%", apperrors.ErrValidation, r.Direction, key)
		}
		byRate[key] = r
	}
	return t, nil
}

// DefaultSKR03Rules are the rows seeded into vat_account_rules.
func DefaultSKR03Rules() []domain.VATAccountRule {
	return []domain.VATAccountRule{
		{Direction: domain.VATSales, Rate: decimal.NewFromInt(19), BaseAccount: "8400", TaxAccount: "1776"},
		{Direction: domain.VATSales, Rate: decimal.NewFromInt(7), BaseAccount: "8300", TaxAccount: "1771"},
		{Direction: domain.VATSales, Rate: decimal.Zero, BaseAccount: "8125"},
		{Direction: domain.VATPurchases, Rate: decimal.NewFromInt(19), BaseAccount: "3400", TaxAccount: "1576"},
		{Direction: domain.VATPurchases, Rate: decimal.NewFromInt(7), BaseAccount: "3800", TaxAccount: "1571"},
		{Direction: domain.VATPurchases, Rate: decimal.Zero, BaseAccount: "4980"},
	}
}

// DefaultVATTable is the SKR03 table.
func DefaultVATTable() *VATTable {
	t, err := NewVATTable(DefaultSKR03Rules())
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the rule for a rate.
func (t *VATTable) Lookup(dir domain.VATDirection, rate decimal.Decimal) (domain.VATAccountRule, error) {
	r, ok := t.rules[dir][rateKey(rate)]
	if !ok {
		return domain.VATAccountRule{}, fmt.Errorf("%w: no %s account configured for vat rate %s%%", apperrors.ErrValidation, dir, rate.String())
	}
	return r, nil
}

// Rates lists the configured rates of a direction in ascending order.
func (t *VATTable) Rates(dir domain.VATDirection) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(t.rules[dir]))
	for _, r := range t.rules[dir] {
		out = append(out, r.Rate)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LessThan(out[j]) })
	return out
}

// InferRate picks the configured rate closest to tax/net*100.
func (t *VATTable) InferRate(dir domain.VATDirection, net, tax decimal.Decimal) decimal.Decimal {
	if !tax.IsPositive() || !net.IsPositive() {
		return decimal.Zero
	}
	actual := tax.Div(net).Mul(decimal.NewFromInt(100))
	best := decimal.Zero
	bestDiff := decimal.Decimal{}
	for i, r := range t.Rates(dir) {
		diff := r.Sub(actual).Abs()
		if i == 0 || diff.LessThan(bestDiff) {
			best, bestDiff = r, diff
		}
	}
	return best
}
