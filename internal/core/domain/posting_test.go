package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stitchadmin/stitchadmin/internal/apperrors"
	"github.com/stitchadmin/stitchadmin/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func validDraft() domain.PostingDraft {
	return domain.PostingDraft{
		Date:          time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC),
		DocRef:        "KAS-20250115-0001",
		DebitAccount:  "1000",
		CreditAccount: "8400",
		Amount:        decimal.RequireFromString("100.00"),
		Text:          "Sale KAS-20250115-0001 (CASH)",
		Kind:          domain.PostingSale,
		SourceKind:    domain.SourceSaleReceipt,
		SourceID:      1,
	}
}

func TestPostingDraft_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(d *domain.PostingDraft)
		wantErr bool
	}{
		{name: "valid", mutate: func(d *domain.PostingDraft) {}},
		{name: "zero amount", mutate: func(d *domain.PostingDraft) { d.Amount = decimal.Zero }, wantErr: true},
		{name: "negative amount", mutate: func(d *domain.PostingDraft) { d.Amount = decimal.NewFromInt(-5) }, wantErr: true},
		{name: "negative tax", mutate: func(d *domain.PostingDraft) { d.TaxAmount = decimal.NewFromInt(-1) }, wantErr: true},
		{name: "same accounts", mutate: func(d *domain.PostingDraft) { d.CreditAccount = d.DebitAccount }, wantErr: true},
		{name: "missing debit", mutate: func(d *domain.PostingDraft) { d.DebitAccount = "" }, wantErr: true},
		{name: "missing date", mutate: func(d *domain.PostingDraft) { d.Date = time.Time{} }, wantErr: true},
		{name: "unknown kind", mutate: func(d *domain.PostingDraft) { d.Kind = "gift" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)
			err := d.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidPosting)
				assert.ErrorIs(t, err, apperrors.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseEnums(t *testing.T) {
	kind, err := domain.ParseAccountKind("neutral")
	assert.NoError(t, err)
	assert.Equal(t, domain.AccountKindNeutral, kind)
	assert.False(t, kind.DebitNormal())
	assert.True(t, domain.AccountKindExpense.DebitNormal())

	_, err = domain.ParseAccountKind("equity")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	method, err := domain.ParsePaymentMethod("SUMUP")
	assert.NoError(t, err)
	assert.Equal(t, "1200", domain.DefaultPaymentAccounts[method])

	_, err = domain.ParsePaymentMethod("cash")
	assert.Error(t, err)

	status, err := domain.ParseWorkflowStatus("ready_to_ship")
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusReadyToShip, status)
	assert.False(t, status.IsTerminal())
	assert.True(t, domain.StatusCancelled.IsTerminal())
}

func TestRoundMoney_HalfUp(t *testing.T) {
	assert.Equal(t, "0.13", domain.FormatMoney(domain.RoundMoney(decimal.RequireFromString("0.125"))))
	assert.Equal(t, "19.00", domain.FormatMoney(domain.RoundMoney(decimal.RequireFromString("18.995"))))
	assert.Equal(t, "100.00", domain.FormatMoney(decimal.NewFromInt(100)))
}
