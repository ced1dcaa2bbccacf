package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stitchadmin/stitchadmin/internal/apperrors"
	"github.com/stitchadmin/stitchadmin/internal/core/domain"
	portsrepo "github.com/stitchadmin/stitchadmin/internal/core/ports/repositories"
	portssvc "github.com/stitchadmin/stitchadmin/internal/core/ports/services"
	"github.com/stitchadmin/stitchadmin/internal/utils/accounting"
)

const (
	defaultMappingCacheTTL           = time.Minute
	defaultAccountDeactivationWindow = 90 * 24 * time.Hour
)

// paymentMethodOrder is the display order of ListPaymentMappings.
var paymentMethodOrder = []domain.PaymentMethod{
	domain.PaymentCash, domain.PaymentCard, domain.PaymentSumUp, domain.PaymentTransfer, domain.PaymentInvoice,
}

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	txManager          portsrepo.TransactionManager
	accountRepo        portsrepo.AccountRepositoryFacade
	mappingRepo        portsrepo.PaymentMappingRepository
	cacheTTL           time.Duration
	deactivationWindow time.Duration

	mu            sync.RWMutex
	mappings      map[domain.PaymentMethod]domain.PaymentMethodMapping
	mappingsUntil time.Time
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithMappingCacheTTL sets how long payment mappings are served from memory.
func WithMappingCacheTTL(ttl time.Duration) AccountServiceOption {
	return func(s *accountService) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithDeactivationWindow sets how far back a posting blocks deactivation.
func WithDeactivationWindow(window time.Duration) AccountServiceOption {
	return func(s *accountService) {
		if window > 0 {
			s.deactivationWindow = window
		}
	}
}

// WithAccountClock replaces the wall clock.
func WithAccountClock(clock domain.Clock) AccountServiceOption {
	return func(s *accountService) {
		s.Clock = clock
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(
	txManager portsrepo.TransactionManager,
	accountRepo portsrepo.AccountRepositoryFacade,
	mappingRepo portsrepo.PaymentMappingRepository,
	options ...AccountServiceOption,
) portssvc.AccountSvcFacade {
	svc := &accountService{
		txManager:          txManager,
		accountRepo:        accountRepo,
		mappingRepo:        mappingRepo,
		cacheTTL:           defaultMappingCacheTTL,
		deactivationWindow: defaultAccountDeactivationWindow,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) GetAccount(ctx context.Context, number string) (*domain.Account, error) {
	acc, err := s.accountRepo.FindAccountByNumber(ctx, s.txManager.DB(), number)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get account", slog.String("account", number))
		}
		return nil, err
	}
	return acc, nil
}

func (s *accountService) ListAccounts(ctx context.Context, activeOnly bool) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, s.txManager.DB(), activeOnly)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, err
	}
	return accounts, nil
}

func (s *accountService) Balance(ctx context.Context, number string, from, to *time.Time) (decimal.Decimal, error) {
	if from != nil && to != nil && from.After(*to) {
		return decimal.Zero, fmt.Errorf("%w: from must not be after to", apperrors.ErrValidation)
	}
	return s.balance(ctx, s.txManager.DB(), number, from, to)
}

func (s *accountService) balance(ctx context.Context, db portsrepo.DBTX, number string, from, to *time.Time) (decimal.Decimal, error) {
	acc, err := s.accountRepo.FindAccountByNumber(ctx, db, number)
	if err != nil {
		return decimal.Zero, err
	}
	totals, err := s.accountRepo.SumAccount(ctx, db, number, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum account", slog.String("account", number))
		return decimal.Zero, err
	}
	return accounting.SignedBalance(acc.Kind, totals), nil
}

func (s *accountService) AccountForPaymentMethod(ctx context.Context, method domain.PaymentMethod) (string, error) {
	if _, err := domain.ParsePaymentMethod(string(method)); err != nil {
		return "", err
	}
	mappings, err := s.cachedMappings(ctx)
	if err != nil {
		return "", err
	}
	if m, ok := mappings[method]; ok && m.Active {
		return m.AccountNumber, nil
	}
	return domain.DefaultPaymentAccounts[method], nil
}

// cachedMappings returns the mapping table, reloading it once the TTL has passed.
func (s *accountService) cachedMappings(ctx context.Context) (map[domain.PaymentMethod]domain.PaymentMethodMapping, error) {
	now := s.Now()

	s.mu.RLock()
	if s.mappings != nil && now.Before(s.mappingsUntil) {
		m := s.mappings
		s.mu.RUnlock()
		return m, nil
	}
	s.mu.RUnlock()

	rows, err := s.mappingRepo.ListMappings(ctx, s.txManager.DB())
	if err != nil {
		s.LogError(ctx, err, "Failed to load payment method mappings")
		return nil, err
	}
	m := make(map[domain.PaymentMethod]domain.PaymentMethodMapping, len(rows))
	for _, row := range rows {
		m[row.Method] = row
	}

	s.mu.Lock()
	s.mappings = m
	s.mappingsUntil = now.Add(s.cacheTTL)
	s.mu.Unlock()

	s.LogDebug(ctx, "Payment method mappings loaded", slog.Int("count", len(rows)))
	return m, nil
}

func (s *accountService) invalidateMappings() {
	s.mu.Lock()
	s.mappings = nil
	s.mu.Unlock()
}

func (s *accountService) ListPaymentMappings(ctx context.Context) ([]domain.PaymentMethodMapping, error) {
	rows, err := s.mappingRepo.ListMappings(ctx, s.txManager.DB())
	if err != nil {
		s.LogError(ctx, err, "Failed to list payment method mappings")
		return nil, err
	}
	stored := make(map[domain.PaymentMethod]domain.PaymentMethodMapping, len(rows))
	for _, row := range rows {
		stored[row.Method] = row
	}

	out := make([]domain.PaymentMethodMapping, 0, len(paymentMethodOrder))
	for _, method := range paymentMethodOrder {
		if m, ok := stored[method]; ok && m.Active {
			out = append(out, m)
			continue
		}
		out = append(out, domain.PaymentMethodMapping{
			Method:        method,
			AccountNumber: domain.DefaultPaymentAccounts[method],
			Description:   "default",
			Active:        true,
		})
	}
	return out, nil
}

func (s *accountService) SetPaymentMapping(ctx context.Context, method domain.PaymentMethod, accountNumber, description, actor string) error {
	if _, err := domain.ParsePaymentMethod(string(method)); err != nil {
		return err
	}

	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.DBTX) error {
		acc, err := s.accountRepo.FindAccountByNumber(ctx, tx, accountNumber)
		if err != nil {
			return err
		}
		if !acc.Active {
			return fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, accountNumber)
		}
		return s.mappingRepo.UpsertMapping(ctx, tx, domain.PaymentMethodMapping{
			Method:        method,
			AccountNumber: accountNumber,
			Description:   description,
			Active:        true,
			UpdatedAt:     s.Now(),
			UpdatedBy:     actor,
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to set payment method mapping",
			slog.String("method", string(method)), slog.String("account", accountNumber))
		return err
	}

	s.invalidateMappings()
	s.LogInfo(ctx, "Payment method mapping updated",
		slog.String("method", string(method)), slog.String("account", accountNumber), slog.String("actor", actor))
	return nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, number, actor string) error {
	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.DBTX) error {
		acc, err := s.accountRepo.FindAccountByNumber(ctx, tx, number)
		if err != nil {
			return err
		}
		if !acc.Active {
			return nil
		}

		balance, err := s.balance(ctx, tx, number, nil, nil)
		if err != nil {
			return err
		}
		if !balance.IsZero() {
			return apperrors.NewPreconditionError("deactivate account",
				fmt.Sprintf("account %s has balance %s", number, domain.FormatMoney(balance)))
		}

		since := domain.DateOnly(s.Now().Add(-s.deactivationWindow))
		recent, err := s.accountRepo.HasPostingsSince(ctx, tx, number, since)
		if err != nil {
			return err
		}
		if recent {
			return apperrors.NewPreconditionError("deactivate account",
				fmt.Sprintf("account %s has postings since %s", number, since.Format(time.DateOnly)))
		}

		return s.accountRepo.SetAccountActive(ctx, tx, number, false)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to deactivate account", slog.String("account", number))
		return err
	}

	s.invalidateMappings()
	s.LogInfo(ctx, "Account deactivated", slog.String("account", number), slog.String("actor", actor))
	return nil
}
