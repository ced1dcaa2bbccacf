package repositories

import (
	"context"
	"time"

	"github.com/stitchadmin/stitchadmin/internal/core/domain"
)

// AccountReader defines read operations for the chart of accounts
type AccountReader interface {
	// FindAccountByNumber retrieves one account. Returns apperrors.ErrNotFound when missing.
	FindAccountByNumber(ctx context.Context, db DBTX, number string) (*domain.Account, error)

	// FindAccountsByNumbers retrieves several accounts keyed by number. Missing numbers are absent from the map.
	FindAccountsByNumbers(ctx context.Context, db DBTX, numbers []string) (map[string]domain.Account, error)

	// ListAccounts lists the chart ordered by number.
	ListAccounts(ctx context.Context, db DBTX, activeOnly bool) ([]domain.Account, error)
}

// AccountWriter defines write operations for the chart of accounts
type AccountWriter interface {
	// SetAccountActive flips the only mutable field of an account.
	SetAccountActive(ctx context.Context, db DBTX, number string, active bool) error
}

// AccountBalanceReader aggregates postings per account.
type AccountBalanceReader interface {
	// SumAccount returns debit and credit totals of live postings, excluding
	// reversed postings and counter-postings.
	SumAccount(ctx context.Context, db DBTX, number string, from, to *time.Time) (domain.AccountTotals, error)

	// HasPostingsSince reports whether any posting touching the account is dated on or after since.
	HasPostingsSince(ctx context.Context, db DBTX, number string, since time.Time) (bool, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountBalanceReader
}

// PaymentMappingRepository stores payment method to account mappings.
type PaymentMappingRepository interface {
	FindMappingByMethod(ctx context.Context, db DBTX, method domain.PaymentMethod) (*domain.PaymentMethodMapping, error)
	ListMappings(ctx context.Context, db DBTX) ([]domain.PaymentMethodMapping, error)
	UpsertMapping(ctx context.Context, db DBTX, mapping domain.PaymentMethodMapping) error
}

// VATRuleRepository reads the VAT account lookup table.
type VATRuleRepository interface {
	ListVATRules(ctx context.Context, db DBTX) ([]domain.VATAccountRule, error)
}
