package mapping

import (
	"github.com/shopspring/decimal"
	"github.com/stitchadmin/stitchadmin/internal/core/domain"
	"github.com/stitchadmin/stitchadmin/internal/models"
)

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) (domain.Account, error) {
	kind, err := domain.ParseAccountKind(m.Kind)
	if err != nil {
		return domain.Account{}, err
	}
	rate := decimal.Zero
	if m.TaxRate != nil {
		rate = *m.TaxRate
	}
	return domain.Account{
		Number:      m.Number,
		Name:        m.Name,
		Kind:        kind,
		TaxRelevant: m.TaxRelevant,
		TaxRate:     rate,
		Active:      m.Active,
		Chart:       m.Chart,
		CreatedAt:   m.CreatedAt,
	}, nil
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) ([]domain.Account, error) {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		d, err := ToDomainAccount(m)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return ds, nil
}

// ToDomainPaymentMapping converts a model mapping row.
func ToDomainPaymentMapping(m models.PaymentMethodMapping) (domain.PaymentMethodMapping, error) {
	method, err := domain.ParsePaymentMethod(m.Method)
	if err != nil {
		return domain.PaymentMethodMapping{}, err
	}
	return domain.PaymentMethodMapping{
		Method:        method,
		AccountNumber: m.AccountNumber,
		Description:   m.Description,
		Active:        m.Active,
		UpdatedAt:     m.UpdatedAt,
		UpdatedBy:     m.UpdatedBy,
	}, nil
}

// ToDomainVATRule converts a model VAT rule row.
func ToDomainVATRule(m models.VATAccountRule) (domain.VATAccountRule, error) {
	dir, err := domain.ParseVATDirection(m.Direction)
	if err != nil {
		return domain.VATAccountRule{}, err
	}
	r := domain.VATAccountRule{Direction: dir, Rate: m.Rate, BaseAccount: m.BaseAccount}
	if m.TaxAccount != nil {
		r.TaxAccount = *m.TaxAccount
	}
	return r, nil
}
