package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stitchadmin/stitchadmin/internal/core/domain"
	"github.com/stitchadmin/stitchadmin/internal/dto"
)

// OrderReaderSvc defines read operations for orders
type OrderReaderSvc interface {
	GetOrder(ctx context.Context, orderID int64) (*domain.Order, error)
	GetHistory(ctx context.Context, orderID int64) ([]domain.OrderStatusHistory, error)
	GetNextActions(ctx context.Context, orderID int64) ([]domain.NextAction, error)
}

// OfferSvc handles quotes
type OfferSvc interface {
	AcceptOffer(ctx context.Context, orderID int64, actor string) error
	RejectOffer(ctx context.Context, orderID int64, reason, actor string) error
	// ExpireOffers cancels every offer past its validity date and returns how many expired.
	ExpireOffers(ctx context.Context, today time.Time) (int, error)
}

// DesignApprovalSvc handles the customer's design sign-off
type DesignApprovalSvc interface {
	// RequestDesignApproval issues a new approval token and returns it. Only its hash is stored.
	RequestDesignApproval(ctx context.Context, orderID int64, actor string) (string, error)
	ApproveDesign(ctx context.Context, token string, approval dto.DesignApprovalRequest) error
	RejectDesign(ctx context.Context, token string, rejection dto.DesignRejectionRequest) error
}

// PaymentEventSvc records money received for an order
type PaymentEventSvc interface {
	RecordDeposit(ctx context.Context, orderID int64, amount decimal.Decimal, method domain.PaymentMethod, txnID, actor string) error
	RecordFinalPayment(ctx context.Context, orderID int64, method domain.PaymentMethod, txnID, actor string) error
}

// FulfilmentSvc moves an order through production and delivery
type FulfilmentSvc interface {
	StartProduction(ctx context.Context, orderID int64, actor string) error
	StartPacking(ctx context.Context, orderID int64, actor string) error
	MarkReadyToShip(ctx context.Context, orderID int64, actor string) error
	ConfirmPickup(ctx context.Context, orderID int64, signature, name, actor string) error
	MarkShipped(ctx context.Context, orderID int64, trackingNumber, actor string) error
	Complete(ctx context.Context, orderID int64, actor string) error
	Cancel(ctx context.Context, orderID int64, reason, actor string) error
	// IssueInvoice creates and links the invoice and returns its id.
	IssueInvoice(ctx context.Context, orderID int64, actor string) (int64, error)
}

// ArchiveSvc handles the archive flag
type ArchiveSvc interface {
	Archive(ctx context.Context, orderID int64, reason, actor string) error
	Unarchive(ctx context.Context, orderID int64, actor string) error
}

// OrderSvcFacade combines all order-related service interfaces
type OrderSvcFacade interface {
	// CreateOrder validates the payload and stores a new order or offer.
	CreateOrder(ctx context.Context, req dto.CreateOrderRequest, actor string) (int64, error)
	OrderReaderSvc
	OfferSvc
	DesignApprovalSvc
	PaymentEventSvc
	FulfilmentSvc
	ArchiveSvc
}
