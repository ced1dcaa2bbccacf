package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stitchadmin/stitchadmin/internal/core/domain"
)

// AccountReaderSvc defines read operations on the chart of accounts
type AccountReaderSvc interface {
	// GetAccount retrieves an account by its number.
	GetAccount(ctx context.Context, number string) (*domain.Account, error)

	// ListAccounts lists the chart of accounts.
	ListAccounts(ctx context.Context, activeOnly bool) ([]domain.Account, error)

	// Balance computes the signed balance of an account over an optional date range.
	Balance(ctx context.Context, number string, from, to *time.Time) (decimal.Decimal, error)
}

// PaymentMappingSvc resolves and maintains payment method mappings
type PaymentMappingSvc interface {
	// AccountForPaymentMethod returns the account that receives money paid with method.
	AccountForPaymentMethod(ctx context.Context, method domain.PaymentMethod) (string, error)

	// ListPaymentMappings lists the stored mappings merged with the defaults.
	ListPaymentMappings(ctx context.Context) ([]domain.PaymentMethodMapping, error)

	// SetPaymentMapping points a method at another account.
	SetPaymentMapping(ctx context.Context, method domain.PaymentMethod, accountNumber, description, actor string) error
}

// AccountWriterSvc defines the account lifecycle operations
type AccountWriterSvc interface {
	// DeactivateAccount deactivates an account whose balance is zero and which has no recent postings.
	DeactivateAccount(ctx context.Context, number, actor string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	PaymentMappingSvc
	AccountWriterSvc
}
