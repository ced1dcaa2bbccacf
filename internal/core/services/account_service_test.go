package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stitchadmin/stitchadmin/internal/apperrors"
	"github.com/stitchadmin/stitchadmin/internal/core/domain"
	portsrepo "github.com/stitchadmin/stitchadmin/internal/core/ports/repositories"
	"github.com/stitchadmin/stitchadmin/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type AccountServiceTestSuite struct {
	coreSuite
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func (s *AccountServiceTestSuite) TestAccountForPaymentMethod_FallsBackToDefaults() {
	delete(s.store.mappings, domain.PaymentSumUp)
	inactive := s.store.mappings[domain.PaymentCard]
	inactive.AccountNumber = "1360"
	inactive.Active = false
	s.store.mappings[domain.PaymentCard] = inactive

	account, err := s.svc.Account.AccountForPaymentMethod(s.ctx, domain.PaymentSumUp)
	s.Require().NoError(err)
	s.Equal("1200", account)

	account, err = s.svc.Account.AccountForPaymentMethod(s.ctx, domain.PaymentCard)
	s.Require().NoError(err)
	s.Equal("1200", account)

	_, err = s.svc.Account.AccountForPaymentMethod(s.ctx, "PAYPAL")
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *AccountServiceTestSuite) TestSetPaymentMapping_TakesEffectImmediately() {
	account, err := s.svc.Account.AccountForPaymentMethod(s.ctx, domain.PaymentSumUp)
	s.Require().NoError(err)
	s.Equal("1200", account)

	s.Require().NoError(s.svc.Account.SetPaymentMapping(s.ctx, domain.PaymentSumUp, "1360", "SumUp clearing", "anna"))

	account, err = s.svc.Account.AccountForPaymentMethod(s.ctx, domain.PaymentSumUp)
	s.Require().NoError(err)
	s.Equal("1360", account)
	s.Equal("anna", s.store.mappings[domain.PaymentSumUp].UpdatedBy)
}

func (s *AccountServiceTestSuite) TestSetPaymentMapping_RejectsUnusableAccounts() {
	inactive := s.store.accounts["1590"]
	inactive.Active = false
	s.store.accounts["1590"] = inactive

	err := s.svc.Account.SetPaymentMapping(s.ctx, domain.PaymentCard, "1590", "", "anna")
	s.ErrorIs(err, apperrors.ErrValidation)

	err = s.svc.Account.SetPaymentMapping(s.ctx, domain.PaymentCard, "9999", "", "anna")
	s.ErrorIs(err, apperrors.ErrNotFound)

	err = s.svc.Account.SetPaymentMapping(s.ctx, "PAYPAL", "1200", "", "anna")
	s.ErrorIs(err, apperrors.ErrValidation)

	s.Equal("1200", s.store.mappings[domain.PaymentCard].AccountNumber)
}

func (s *AccountServiceTestSuite) TestMappingCache_ExpiresAfterTTL() {
	account, err := s.svc.Account.AccountForPaymentMethod(s.ctx, domain.PaymentCard)
	s.Require().NoError(err)
	s.Equal("1200", account)

	changed := s.store.mappings[domain.PaymentCard]
	changed.AccountNumber = "1360"
	s.store.mappings[domain.PaymentCard] = changed

	account, err = s.svc.Account.AccountForPaymentMethod(s.ctx, domain.PaymentCard)
	s.Require().NoError(err)
	s.Equal("1200", account, "cached value is served until the TTL passes")

	s.clock.Advance(61 * time.Second)

	account, err = s.svc.Account.AccountForPaymentMethod(s.ctx, domain.PaymentCard)
	s.Require().NoError(err)
	s.Equal("1360", account)
}

func (s *AccountServiceTestSuite) TestListPaymentMappings_MergesDefaultsInFixedOrder() {
	delete(s.store.mappings, domain.PaymentTransfer)

	mappings, err := s.svc.Account.ListPaymentMappings(s.ctx)
	s.Require().NoError(err)

	s.Require().Len(mappings, 5)
	methods := make([]domain.PaymentMethod, 0, len(mappings))
	for _, m := range mappings {
		methods = append(methods, m.Method)
	}
	s.Equal([]domain.PaymentMethod{
		domain.PaymentCash, domain.PaymentCard, domain.PaymentSumUp, domain.PaymentTransfer, domain.PaymentInvoice,
	}, methods)
	s.Equal("default", mappings[3].Description)
	s.Equal("1200", mappings[3].AccountNumber)
}

func (s *AccountServiceTestSuite) TestBalance_FollowsAccountKind() {
	today := day(2025, time.January, 15)
	s.post(
		draft(today, "1000", "8400", "100"),
		draft(today, "1000", "1776", "19"),
		draft(today, "1590", "1000", "50"),
		draft(today, "3400", "1600", "40"),
	)

	s.Equal("69.00", s.balance("1000"))
	s.Equal("100.00", s.balance("8400"))
	s.Equal("19.00", s.balance("1776"))
	s.Equal("-50.00", s.balance("1590"))
	s.Equal("40.00", s.balance("3400"))
	s.Equal("40.00", s.balance("1600"))

	_, err := s.svc.Account.Balance(s.ctx, "9999", nil, nil)
	s.ErrorIs(err, apperrors.ErrNotFound)

	from, to := day(2025, time.February, 1), day(2025, time.January, 1)
	_, err = s.svc.Account.Balance(s.ctx, "1000", &from, &to)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *AccountServiceTestSuite) TestBalance_RespectsDateRange() {
	s.post(
		draft(day(2025, time.January, 2), "1000", "8400", "10"),
		draft(day(2025, time.January, 12), "1000", "8400", "20"),
	)

	from, to := day(2025, time.January, 10), day(2025, time.January, 31)
	b, err := s.svc.Account.Balance(s.ctx, "1000", &from, &to)
	s.Require().NoError(err)
	s.Equal("20.00", domain.FormatMoney(b))
}

func (s *AccountServiceTestSuite) TestDeactivateAccount() {
	today := day(2025, time.January, 15)

	s.Run("non-zero balance", func() {
		s.post(draft(today, "1590", "1000", "5"))
		err := s.svc.Account.DeactivateAccount(s.ctx, "1590", "anna")
		s.ErrorIs(err, apperrors.ErrPreconditionNotMet)
		s.True(s.store.accounts["1590"].Active)
	})

	s.Run("recent postings", func() {
		s.post(draft(today, "1000", "1360", "10"), draft(today, "1360", "1000", "10"))
		err := s.svc.Account.DeactivateAccount(s.ctx, "1360", "anna")
		s.ErrorIs(err, apperrors.ErrPreconditionNotMet)

		s.clock.Advance(91 * 24 * time.Hour)
		s.Require().NoError(s.svc.Account.DeactivateAccount(s.ctx, "1360", "anna"))
		s.False(s.store.accounts["1360"].Active)
	})

	s.Run("already inactive is a no-op", func() {
		s.NoError(s.svc.Account.DeactivateAccount(s.ctx, "1360", "anna"))
	})

	s.Run("unused account", func() {
		s.Require().NoError(s.svc.Account.DeactivateAccount(s.ctx, "1571", "anna"))
		active, err := s.svc.Account.ListAccounts(s.ctx, true)
		s.Require().NoError(err)
		for _, a := range active {
			s.NotEqual("1571", a.Number)
			s.NotEqual("1360", a.Number)
		}
	})

	s.Run("unknown account", func() {
		err := s.svc.Account.DeactivateAccount(s.ctx, "9999", "anna")
		s.ErrorIs(err, apperrors.ErrNotFound)
	})
}

func (s *AccountServiceTestSuite) TestPostingToDeactivatedAccountIsRejected() {
	s.Require().NoError(s.svc.Account.DeactivateAccount(s.ctx, "1571", "anna"))

	_, err := s.svc.Ledger.Post(s.ctx, []domain.PostingDraft{draft(day(2025, time.January, 15), "1571", "1000", "1")})
	s.ErrorIs(err, apperrors.ErrInvalidPosting)
}

// MockAccountRepository is a mock implementation of AccountRepositoryFacade
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByNumber(ctx context.Context, db portsrepo.DBTX, number string) (*domain.Account, error) {
	args := m.Called(ctx, db, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByNumbers(ctx context.Context, db portsrepo.DBTX, numbers []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, db, numbers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, db portsrepo.DBTX, activeOnly bool) ([]domain.Account, error) {
	args := m.Called(ctx, db, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SetAccountActive(ctx context.Context, db portsrepo.DBTX, number string, active bool) error {
	args := m.Called(ctx, db, number, active)
	return args.Error(0)
}

func (m *MockAccountRepository) SumAccount(ctx context.Context, db portsrepo.DBTX, number string, from, to *time.Time) (domain.AccountTotals, error) {
	args := m.Called(ctx, db, number, from, to)
	return args.Get(0).(domain.AccountTotals), args.Error(1)
}

func (m *MockAccountRepository) HasPostingsSince(ctx context.Context, db portsrepo.DBTX, number string, since time.Time) (bool, error) {
	args := m.Called(ctx, db, number, since)
	return args.Bool(0), args.Error(1)
}

// MockPaymentMappingRepository is a mock implementation of PaymentMappingRepository
type MockPaymentMappingRepository struct {
	mock.Mock
}

func (m *MockPaymentMappingRepository) FindMappingByMethod(ctx context.Context, db portsrepo.DBTX, method domain.PaymentMethod) (*domain.PaymentMethodMapping, error) {
	args := m.Called(ctx, db, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentMethodMapping), args.Error(1)
}

func (m *MockPaymentMappingRepository) ListMappings(ctx context.Context, db portsrepo.DBTX) ([]domain.PaymentMethodMapping, error) {
	args := m.Called(ctx, db)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentMethodMapping), args.Error(1)
}

func (m *MockPaymentMappingRepository) UpsertMapping(ctx context.Context, db portsrepo.DBTX, mapping domain.PaymentMethodMapping) error {
	args := m.Called(ctx, db, mapping)
	return args.Error(0)
}

func TestAccountService_WithMockRepositories(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock(time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC))

	t.Run("GetAccount passes repository errors through", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		mappingRepo := new(MockPaymentMappingRepository)
		svc := services.NewAccountService(newMemStore(), accountRepo, mappingRepo, services.WithAccountClock(clock))

		accountRepo.On("FindAccountByNumber", mock.Anything, mock.Anything, "1000").Return(nil, apperrors.ErrDatabase).Once()

		acc, err := svc.GetAccount(ctx, "1000")

		assert.Nil(t, acc)
		assert.ErrorIs(t, err, apperrors.ErrDatabase)
		accountRepo.AssertExpectations(t)
	})

	t.Run("ListAccounts forwards the active filter", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		mappingRepo := new(MockPaymentMappingRepository)
		svc := services.NewAccountService(newMemStore(), accountRepo, mappingRepo, services.WithAccountClock(clock))

		expected := []domain.Account{{Number: "1000", Name: "Kasse", Kind: domain.AccountKindAsset, Active: true}}
		accountRepo.On("ListAccounts", mock.Anything, mock.Anything, true).Return(expected, nil).Once()

		accounts, err := svc.ListAccounts(ctx, true)

		require.NoError(t, err)
		assert.Equal(t, expected, accounts)
		accountRepo.AssertExpectations(t)
	})

	t.Run("mappings are loaded once per TTL", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		mappingRepo := new(MockPaymentMappingRepository)
		svc := services.NewAccountService(newMemStore(), accountRepo, mappingRepo,
			services.WithAccountClock(clock), services.WithMappingCacheTTL(time.Minute))

		mappingRepo.On("ListMappings", mock.Anything, mock.Anything).Return([]domain.PaymentMethodMapping{
			{Method: domain.PaymentSumUp, AccountNumber: "1360", Active: true},
		}, nil)

		for i := 0; i < 3; i++ {
			account, err := svc.AccountForPaymentMethod(ctx, domain.PaymentSumUp)
			require.NoError(t, err)
			assert.Equal(t, "1360", account)
		}
		account, err := svc.AccountForPaymentMethod(ctx, domain.PaymentCash)
		require.NoError(t, err)
		assert.Equal(t, "1000", account)

		mappingRepo.AssertNumberOfCalls(t, "ListMappings", 1)
	})

	t.Run("DeactivateAccount does not touch accounts with a balance", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		mappingRepo := new(MockPaymentMappingRepository)
		svc := services.NewAccountService(newMemStore(), accountRepo, mappingRepo, services.WithAccountClock(clock))

		acc := &domain.Account{Number: "1000", Kind: domain.AccountKindAsset, Active: true}
		accountRepo.On("FindAccountByNumber", mock.Anything, mock.Anything, "1000").Return(acc, nil)
		accountRepo.On("SumAccount", mock.Anything, mock.Anything, "1000", (*time.Time)(nil), (*time.Time)(nil)).
			Return(domain.AccountTotals{Debit: dec("10"), Credit: dec("2.5")}, nil)

		err := svc.DeactivateAccount(ctx, "1000", "anna")

		assert.ErrorIs(t, err, apperrors.ErrPreconditionNotMet)
		accountRepo.AssertNotCalled(t, "SetAccountActive", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
