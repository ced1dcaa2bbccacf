package accounting

import (
	"github.com/shopspring/decimal"
	"github.com/stitchadmin/stitchadmin/internal/core/domain"
)

// SignedBalance applies the balance convention of the account kind to raw totals.
// DEBIT-normal (asset, expense)           -> debit - credit
// CREDIT-normal (liability, revenue, neutral) -> credit - debit
func SignedBalance(kind domain.AccountKind, totals domain.AccountTotals) decimal.Decimal {
	debit, credit := zeroIfUnset(totals.Debit), zeroIfUnset(totals.Credit)
	if kind.DebitNormal() {
		return domain.RoundMoney(debit.Sub(credit))
	}
	return domain.RoundMoney(credit.Sub(debit))
}

// CheckedPostingAccounts reports whether both accounts of a draft exist and are
// active. When not, it returns the first offending account number.
func CheckedPostingAccounts(draft domain.PostingDraft, accounts map[string]domain.Account) (string, bool) {
	for _, number := range []string{draft.DebitAccount, draft.CreditAccount} {
		acc, ok := accounts[number]
		if !ok || !acc.Active {
			return number, false
		}
	}
	return "", true
}

func zeroIfUnset(d decimal.Decimal) decimal.Decimal {
	if d.Equal(decimal.Decimal{}) {
		return decimal.Zero
	}
	return d
}
