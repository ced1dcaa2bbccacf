package handlers_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stitchadmin/stitchadmin/internal/core/domain"
	"github.com/stitchadmin/stitchadmin/internal/core/ports/repositories"
	portssvc "github.com/stitchadmin/stitchadmin/internal/core/ports/services"
	"github.com/stitchadmin/stitchadmin/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock OrderService ---
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, req dto.CreateOrderRequest, actor string) (int64, error) {
	args := m.Called(ctx, req, actor)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockOrderService) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}
func (m *MockOrderService) GetHistory(ctx context.Context, orderID int64) ([]domain.OrderStatusHistory, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrderStatusHistory), args.Error(1)
}
func (m *MockOrderService) GetNextActions(ctx context.Context, orderID int64) ([]domain.NextAction, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NextAction), args.Error(1)
}
func (m *MockOrderService) AcceptOffer(ctx context.Context, orderID int64, actor string) error {
	return m.Called(ctx, orderID, actor).Error(0)
}
func (m *MockOrderService) RejectOffer(ctx context.Context, orderID int64, reason, actor string) error {
	return m.Called(ctx, orderID, reason, actor).Error(0)
}
func (m *MockOrderService) ExpireOffers(ctx context.Context, today time.Time) (int, error) {
	args := m.Called(ctx, today)
	return args.Int(0), args.Error(1)
}
func (m *MockOrderService) RequestDesignApproval(ctx context.Context, orderID int64, actor string) (string, error) {
	args := m.Called(ctx, orderID, actor)
	return args.String(0), args.Error(1)
}
func (m *MockOrderService) ApproveDesign(ctx context.Context, token string, approval dto.DesignApprovalRequest) error {
	return m.Called(ctx, token, approval).Error(0)
}
func (m *MockOrderService) RejectDesign(ctx context.Context, token string, rejection dto.DesignRejectionRequest) error {
	return m.Called(ctx, token, rejection).Error(0)
}
func (m *MockOrderService) RecordDeposit(ctx context.Context, orderID int64, amount decimal.Decimal, method domain.PaymentMethod, txnID, actor string) error {
	return m.Called(ctx, orderID, amount, method, txnID, actor).Error(0)
}
func (m *MockOrderService) RecordFinalPayment(ctx context.Context, orderID int64, method domain.PaymentMethod, txnID, actor string) error {
	return m.Called(ctx, orderID, method, txnID, actor).Error(0)
}
func (m *MockOrderService) StartProduction(ctx context.Context, orderID int64, actor string) error {
	return m.Called(ctx, orderID, actor).Error(0)
}
func (m *MockOrderService) StartPacking(ctx context.Context, orderID int64, actor string) error {
	return m.Called(ctx, orderID, actor).Error(0)
}
func (m *MockOrderService) MarkReadyToShip(ctx context.Context, orderID int64, actor string) error {
	return m.Called(ctx, orderID, actor).Error(0)
}
func (m *MockOrderService) ConfirmPickup(ctx context.Context, orderID int64, signature, name, actor string) error {
	return m.Called(ctx, orderID, signature, name, actor).Error(0)
}
func (m *MockOrderService) MarkShipped(ctx context.Context, orderID int64, trackingNumber, actor string) error {
	return m.Called(ctx, orderID, trackingNumber, actor).Error(0)
}
func (m *MockOrderService) Complete(ctx context.Context, orderID int64, actor string) error {
	return m.Called(ctx, orderID, actor).Error(0)
}
func (m *MockOrderService) Cancel(ctx context.Context, orderID int64, reason, actor string) error {
	return m.Called(ctx, orderID, reason, actor).Error(0)
}
func (m *MockOrderService) IssueInvoice(ctx context.Context, orderID int64, actor string) (int64, error) {
	args := m.Called(ctx, orderID, actor)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockOrderService) Archive(ctx context.Context, orderID int64, reason, actor string) error {
	return m.Called(ctx, orderID, reason, actor).Error(0)
}
func (m *MockOrderService) Unarchive(ctx context.Context, orderID int64, actor string) error {
	return m.Called(ctx, orderID, actor).Error(0)
}

var _ portssvc.OrderSvcFacade = (*MockOrderService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Post(ctx context.Context, drafts []domain.PostingDraft) ([]int64, error) {
	args := m.Called(ctx, drafts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}
func (m *MockLedgerService) PostInTx(ctx context.Context, tx repositories.DBTX, drafts []domain.PostingDraft) ([]int64, error) {
	args := m.Called(ctx, tx, drafts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}
func (m *MockLedgerService) Reverse(ctx context.Context, postingID int64, reason, actor string) (int64, error) {
	args := m.Called(ctx, postingID, reason, actor)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockLedgerService) ReverseInTx(ctx context.Context, tx repositories.DBTX, postingID int64, reason, actor string) (int64, error) {
	args := m.Called(ctx, tx, postingID, reason, actor)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockLedgerService) Query(ctx context.Context, filter domain.PostingFilter) ([]domain.Posting, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Posting), args.Error(1)
}
func (m *MockLedgerService) GetPosting(ctx context.Context, id int64) (*domain.Posting, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Posting), args.Error(1)
}
func (m *MockLedgerService) ListBySource(ctx context.Context, sourceKind string, sourceID int64) ([]domain.Posting, error) {
	args := m.Called(ctx, sourceKind, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Posting), args.Error(1)
}
func (m *MockLedgerService) ExportDATEV(ctx context.Context, from, to time.Time) ([]byte, string, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}
func (m *MockLedgerService) Statistics(ctx context.Context, from, to *time.Time) (*domain.LedgerStatistics, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerStatistics), args.Error(1)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccount(ctx context.Context, number string) (*domain.Account, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context, activeOnly bool) ([]domain.Account, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) Balance(ctx context.Context, number string, from, to *time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, number, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockAccountService) AccountForPaymentMethod(ctx context.Context, method domain.PaymentMethod) (string, error) {
	args := m.Called(ctx, method)
	return args.String(0), args.Error(1)
}
func (m *MockAccountService) ListPaymentMappings(ctx context.Context) ([]domain.PaymentMethodMapping, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentMethodMapping), args.Error(1)
}
func (m *MockAccountService) SetPaymentMapping(ctx context.Context, method domain.PaymentMethod, accountNumber, description, actor string) error {
	return m.Called(ctx, method, accountNumber, description, actor).Error(0)
}
func (m *MockAccountService) DeactivateAccount(ctx context.Context, number, actor string) error {
	return m.Called(ctx, number, actor).Error(0)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock BookingService ---
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) BookSaleReceipt(ctx context.Context, receipt domain.SaleReceipt, actor string) ([]int64, error) {
	args := m.Called(ctx, receipt, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}
func (m *MockBookingService) BookPurchaseInvoice(ctx context.Context, invoice domain.PurchaseInvoice, actor string) ([]int64, error) {
	args := m.Called(ctx, invoice, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

var _ portssvc.BookingSvc = (*MockBookingService)(nil)

// --- Mock NumberingService ---
type MockNumberingService struct {
	mock.Mock
}

func (m *MockNumberingService) Next(ctx context.Context, docType domain.DocumentType, actor string) (string, error) {
	args := m.Called(ctx, docType, actor)
	return args.String(0), args.Error(1)
}
func (m *MockNumberingService) NextInTx(ctx context.Context, tx repositories.DBTX, docType domain.DocumentType, actor string) (string, error) {
	args := m.Called(ctx, tx, docType, actor)
	return args.String(0), args.Error(1)
}
func (m *MockNumberingService) CancelNumber(ctx context.Context, number, reason, actor string) error {
	return m.Called(ctx, number, reason, actor).Error(0)
}
func (m *MockNumberingService) ListSequences(ctx context.Context) ([]domain.DocumentNumberSequence, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DocumentNumberSequence), args.Error(1)
}

var _ portssvc.NumberingSvc = (*MockNumberingService)(nil)
