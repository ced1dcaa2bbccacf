package postingrules

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stitchadmin/stitchadmin/internal/apperrors"
	"github.com/stitchadmin/stitchadmin/internal/core/domain"
)

// Rules holds the account lookup shared by all posting rules.
type Rules struct {
	vat *VATTable
}

// New creates the posting rules over a VAT account table.
func New(vat *VATTable) *Rules {
	return &Rules{vat: vat}
}

// SaleReceipt is R1: a point-of-sale receipt paid with method into paymentAccount.
func (r *Rules) SaleReceipt(rc domain.SaleReceipt, paymentAccount, actor string) ([]domain.PostingDraft, error) {
	if rc.ReceiptNo == "" {
		return nil, fmt.Errorf("%w: receipt number is required", apperrors.ErrValidation)
	}
	lines, err := r.breakdown(domain.VATSales, rc.Lines, rc.Net, rc.Tax)
	if err != nil {
		return nil, err
	}
	date := domain.DateOnly(rc.Date)

	var drafts []domain.PostingDraft
	for _, line := range lines {
		rule := line.rule
		if line.Net.IsPositive() {
			drafts = append(drafts, domain.PostingDraft{
				Date:          date,
				DocRef:        rc.ReceiptNo,
				DebitAccount:  paymentAccount,
				CreditAccount: rule.BaseAccount,
				Amount:        domain.RoundMoney(line.Net),
				TaxAmount:     domain.RoundMoney(line.Tax),
				Text:          fmt.Sprintf("Sale %s (%s)", rc.ReceiptNo, rc.Method),
				Kind:          domain.PostingSale,
				SourceKind:    domain.SourceSaleReceipt,
				SourceID:      rc.ID,
				CreatedBy:     actor,
			})
		}
		if line.Tax.IsPositive() {
			drafts = append(drafts, domain.PostingDraft{
				Date:          date,
				DocRef:        rc.ReceiptNo,
				DebitAccount:  paymentAccount,
				CreditAccount: rule.TaxAccount,
				Amount:        domain.RoundMoney(line.Tax),
				Text:          fmt.Sprintf("VAT %s (%s)", rc.ReceiptNo, rc.Method),
				Kind:          domain.PostingTax,
				SourceKind:    domain.SourceSaleReceipt,
				SourceID:      rc.ID,
				CreatedBy:     actor,
			})
		}
	}
	return drafts, nil
}

// InvoiceIssued is R2: an outgoing invoice books the receivable against revenue and VAT.
func (r *Rules) InvoiceIssued(inv domain.Invoice, actor string) ([]domain.PostingDraft, error) {
	if inv.Number == "" {
		return nil, fmt.Errorf("%w: invoice number is required", apperrors.ErrValidation)
	}
	lines, err := r.breakdown(domain.VATSales, inv.Lines, inv.Net, inv.Tax)
	if err != nil {
		return nil, err
	}
	date := domain.DateOnly(inv.Date)

	var drafts []domain.PostingDraft
	for _, line := range lines {
		rule := line.rule
		if line.Net.IsPositive() {
			drafts = append(drafts, domain.PostingDraft{
				Date:          date,
				DocRef:        inv.Number,
				DebitAccount:  domain.AccountReceivables,
				CreditAccount: rule.BaseAccount,
				Amount:        domain.RoundMoney(line.Net),
				TaxAmount:     domain.RoundMoney(line.Tax),
				Text:          "Invoice " + inv.Number,
				Kind:          domain.PostingSale,
				SourceKind:    domain.SourceInvoice,
				SourceID:      inv.ID,
				CreatedBy:     actor,
			})
		}
		if line.Tax.IsPositive() {
			drafts = append(drafts, domain.PostingDraft{
				Date:          date,
				DocRef:        inv.Number,
				DebitAccount:  domain.AccountReceivables,
				CreditAccount: rule.TaxAccount,
				Amount:        domain.RoundMoney(line.Tax),
				Text:          "VAT " + inv.Number,
				Kind:          domain.PostingTax,
				SourceKind:    domain.SourceInvoice,
				SourceID:      inv.ID,
				CreatedBy:     actor,
			})
		}
	}
	return drafts, nil
}

// PurchaseInvoice is R3: an incoming supplier invoice books expense and input VAT against payables.
func (r *Rules) PurchaseInvoice(pi domain.PurchaseInvoice, actor string) ([]domain.PostingDraft, error) {
	if pi.Number == "" {
		return nil, fmt.Errorf("%w: purchase invoice number is required", apperrors.ErrValidation)
	}
	lines, err := r.breakdown(domain.VATPurchases, pi.Lines, pi.Net, pi.Tax)
	if err != nil {
		return nil, err
	}
	date := domain.DateOnly(pi.Date)
	text := "Purchase invoice " + pi.SupplierName

	var drafts []domain.PostingDraft
	for _, line := range lines {
		rule := line.rule
		if line.Net.IsPositive() {
			drafts = append(drafts, domain.PostingDraft{
				Date:          date,
				DocRef:        pi.Number,
				DebitAccount:  rule.BaseAccount,
				CreditAccount: domain.AccountPayables,
				Amount:        domain.RoundMoney(line.Net),
				TaxAmount:     domain.RoundMoney(line.Tax),
				Text:          text,
				Kind:          domain.PostingPurchase,
				SourceKind:    domain.SourcePurchaseInvoice,
				SourceID:      pi.ID,
				CreatedBy:     actor,
			})
		}
		if line.Tax.IsPositive() {
			drafts = append(drafts, domain.PostingDraft{
				Date:          date,
				DocRef:        pi.Number,
				DebitAccount:  rule.TaxAccount,
				CreditAccount: domain.AccountPayables,
				Amount:        domain.RoundMoney(line.Tax),
				Text:          "Input VAT " + text,
				Kind:          domain.PostingTax,
				SourceKind:    domain.SourcePurchaseInvoice,
				SourceID:      pi.ID,
				CreatedBy:     actor,
			})
		}
	}
	return drafts, nil
}

// InvoicePayment is R4: money received on an outgoing invoice settles the receivable.
func (r *Rules) InvoicePayment(inv domain.Invoice, amount decimal.Decimal, paymentAccount string, date time.Time, actor string) ([]domain.PostingDraft, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be greater than zero", apperrors.ErrValidation)
	}
	return []domain.PostingDraft{{
		Date:          domain.DateOnly(date),
		DocRef:        "ZE-" + inv.Number,
		DebitAccount:  paymentAccount,
		CreditAccount: domain.AccountReceivables,
		Amount:        domain.RoundMoney(amount),
		Text:          "Payment received " + inv.Number,
		Kind:          domain.PostingPayment,
		SourceKind:    domain.SourceInvoice,
		SourceID:      inv.ID,
		CreatedBy:     actor,
	}}, nil
}

type bookedLine struct {
	domain.TaxLine
	rule domain.VATAccountRule
}

// breakdown returns the document's own tax lines, or a single line derived from its totals,
// each paired with its VAT rule. Tax that has no account to land on is rejected.
func (r *Rules) breakdown(dir domain.VATDirection, lines []domain.TaxLine, net, tax decimal.Decimal) ([]bookedLine, error) {
	if len(lines) == 0 {
		if !net.IsPositive() && tax.IsPositive() {
			return nil, fmt.Errorf("%w: tax without a net amount cannot be booked", apperrors.ErrValidation)
		}
		lines = []domain.TaxLine{{Rate: r.vat.InferRate(dir, net, tax), Net: net, Tax: tax}}
	}
	total := decimal.Zero
	out := make([]bookedLine, 0, len(lines))
	for _, l := range lines {
		if l.Net.IsNegative() || l.Tax.IsNegative() {
			return nil, fmt.Errorf("%w: negative amounts cannot be booked", apperrors.ErrValidation)
		}
		if !l.Net.IsPositive() && l.Tax.IsPositive() {
			return nil, fmt.Errorf("%w: tax without a net amount cannot be booked", apperrors.ErrValidation)
		}
		rule, err := r.vat.Lookup(dir, l.Rate)
		if err != nil {
			return nil, err
		}
		if l.Tax.IsPositive() && rule.TaxAccount == "" {
			return nil, fmt.Errorf("%w: vat rate %s%% has no tax account, tax %s cannot be booked", apperrors.ErrValidation, l.Rate.String(), l.Tax.StringFixed(2))
		}
		total = total.Add(l.Gross())
		out = append(out, bookedLine{TaxLine: l, rule: rule})
	}
	if !total.IsPositive() {
		return nil, fmt.Errorf("%w: document has nothing to book", apperrors.ErrValidation)
	}
	return out, nil
}
