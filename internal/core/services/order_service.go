package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stitchadmin/stitchadmin/internal/apperrors"
	"github.com/stitchadmin/stitchadmin/internal/core/domain"
	portsrepo "github.com/stitchadmin/stitchadmin/internal/core/ports/repositories"
	portssvc "github.com/stitchadmin/stitchadmin/internal/core/ports/services"
	"github.com/stitchadmin/stitchadmin/internal/core/workflow"
	"github.com/stitchadmin/stitchadmin/internal/dto"
	"github.com/stitchadmin/stitchadmin/internal/middleware"
	"github.com/stitchadmin/stitchadmin/internal/utils"
)

const (
	// SystemActor is recorded for transitions fired by background jobs.
	SystemActor = "system"

	approvalTokenBytes = 32
)

// orderService implements the OrderSvcFacade interface
type orderService struct {
	BaseService
	txManager    portsrepo.TransactionManager
	orderRepo    portsrepo.OrderRepositoryFacade
	numbering    portssvc.NumberingSvc
	transitioner *Transitioner
	publisher    portssvc.EventPublisher
	validate     *validator.Validate
}

// OrderServiceOption is a functional option for configuring the order service
type OrderServiceOption func(*orderService)

// WithEventPublisher sets the receiver of committed transition events.
func WithEventPublisher(p portssvc.EventPublisher) OrderServiceOption {
	return func(s *orderService) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithOrderClock replaces the wall clock.
func WithOrderClock(clock domain.Clock) OrderServiceOption {
	return func(s *orderService) {
		s.Clock = clock
	}
}

// NewOrderService creates a new order service with the provided options
func NewOrderService(
	txManager portsrepo.TransactionManager,
	orderRepo portsrepo.OrderRepositoryFacade,
	numbering portssvc.NumberingSvc,
	transitioner *Transitioner,
	options ...OrderServiceOption,
) portssvc.OrderSvcFacade {
	v := validator.New()
	v.SetTagName("binding")
	svc := &orderService{
		txManager:    txManager,
		orderRepo:    orderRepo,
		numbering:    numbering,
		transitioner: transitioner,
		publisher:    noopPublisher{},
		validate:     v,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure orderService implements the OrderSvcFacade interface
var _ portssvc.OrderSvcFacade = (*orderService)(nil)

type noopPublisher struct{}

func (noopPublisher) Publish(domain.TransitionEvent) {}

func (s *orderService) CreateOrder(ctx context.Context, req dto.CreateOrderRequest, actor string) (int64, error) {
	if err := s.validate.Struct(req); err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	order, err := s.newOrder(req, actor)
	if err != nil {
		return 0, err
	}

	docType := domain.DocOrder
	if order.IsOffer {
		docType = domain.DocOffer
	}

	var evt *domain.TransitionEvent
	err = s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.DBTX) error {
		number, err := s.numbering.NextInTx(ctx, tx, docType, actor)
		if err != nil {
			return err
		}
		order.OrderNumber = number

		id, err := s.orderRepo.InsertOrder(ctx, tx, order)
		if err != nil {
			return err
		}
		order.ID = id

		evt = &domain.TransitionEvent{
			OrderID: id,
			Event:   domain.EventCreated,
			To:      order.WorkflowStatus,
			At:      order.CreatedAt,
			Actor:   actor,
			Order:   &order,
		}
		return s.transitioner.Dispatch(ctx, tx, evt)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create order", slog.String("customer_id", req.CustomerID))
		return 0, err
	}

	s.publisher.Publish(*evt)
	s.LogInfo(ctx, "Order created",
		slog.Int64("order_id", order.ID), slog.String("order_number", order.OrderNumber), slog.Bool("is_offer", order.IsOffer))
	return order.ID, nil
}

// newOrder checks the business rules of a create request and builds the initial record.
func (s *orderService) newOrder(req dto.CreateOrderRequest, actor string) (domain.Order, error) {
	deliveryType, err := domain.ParseDeliveryType(req.DeliveryType)
	if err != nil {
		return domain.Order{}, err
	}
	designStatus := domain.DesignNone
	if req.DesignStatus != "" {
		if designStatus, err = domain.ParseDesignStatus(req.DesignStatus); err != nil {
			return domain.Order{}, err
		}
	}
	if req.TotalPrice.IsNegative() {
		return domain.Order{}, fmt.Errorf("%w: total price must not be negative", apperrors.ErrValidation)
	}
	if req.OfferValidUntil != nil && !req.IsOffer {
		return domain.Order{}, fmt.Errorf("%w: offerValidUntil is only allowed on offers", apperrors.ErrValidation)
	}

	items := dto.ToOrderItems(req.Items)
	for _, it := range items {
		if !it.Quantity.IsPositive() {
			return domain.Order{}, fmt.Errorf("%w: item %d quantity must be greater than zero", apperrors.ErrValidation, it.Position)
		}
		if it.UnitPrice.IsNegative() || it.TaxRate.IsNegative() {
			return domain.Order{}, fmt.Errorf("%w: item %d has a negative price or tax rate", apperrors.ErrValidation, it.Position)
		}
	}

	total := domain.RoundMoney(req.TotalPrice)
	if len(items) > 0 {
		_, _, _, itemsGross := BuildInvoiceLines(domain.Order{Items: items})
		if total.IsZero() {
			total = itemsGross
		} else if !total.Equal(itemsGross) {
			return domain.Order{}, fmt.Errorf("%w: total price %s does not match the item total %s",
				apperrors.ErrValidation, domain.FormatMoney(total), domain.FormatMoney(itemsGross))
		}
	}

	approval := domain.ApprovalNotRequired
	if req.DesignApprovalRequired {
		approval = domain.ApprovalPending
	}
	autoPacking := true
	if req.AutoCreatePackingList != nil {
		autoPacking = *req.AutoCreatePackingList
	}

	var validUntil *time.Time
	if req.OfferValidUntil != nil {
		d := domain.DateOnly(*req.OfferValidUntil)
		validUntil = &d
	}

	now := s.Now()
	return domain.Order{
		CustomerID:            req.CustomerID,
		Description:           req.Description,
		TotalPrice:            total,
		DepositAmount:         decimal.Zero,
		PaymentStatus:         domain.PaymentStatusPending,
		IsOffer:               req.IsOffer,
		OfferValidUntil:       validUntil,
		HasDesignFile:         req.HasDesignFile,
		DesignStatus:          designStatus,
		DesignApprovalStatus:  approval,
		WorkflowStatus:        domain.InitialStatus(req.IsOffer),
		DeliveryType:          deliveryType,
		AutoCreatePackingList: autoPacking,
		Items:                 items,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			CreatedBy: actor,
			UpdatedAt: now,
			UpdatedBy: actor,
		},
	}, nil
}

// fire locks the order, applies one event and publishes it after commit.
func (s *orderService) fire(ctx context.Context, orderID int64, event domain.WorkflowEvent, actor string, evCtx domain.EventContext) (*domain.TransitionEvent, error) {
	return s.fireLocked(ctx, event, func(ctx context.Context, tx portsrepo.DBTX) (*domain.Order, error) {
		return s.orderRepo.FindOrderByIDForUpdate(ctx, tx, orderID)
	}, actor, evCtx)
}

func (s *orderService) fireLocked(
	ctx context.Context,
	event domain.WorkflowEvent,
	lock func(ctx context.Context, tx portsrepo.DBTX) (*domain.Order, error),
	actor string,
	evCtx domain.EventContext,
) (*domain.TransitionEvent, error) {
	var evt *domain.TransitionEvent
	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.DBTX) error {
		order, err := lock(ctx, tx)
		if err != nil {
			return err
		}
		evt, err = s.transitioner.Fire(ctx, tx, *order, workflow.Input{
			Event:   event,
			At:      s.Now(),
			Actor:   actor,
			Context: evCtx,
		})
		return err
	})
	if err != nil {
		if isBusinessError(err) {
			s.LogDebug(ctx, "Order event rejected", slog.String("event", string(event)), slog.String("error", err.Error()))
		} else {
			s.LogError(ctx, err, "Order event failed", slog.String("event", string(event)))
		}
		return nil, err
	}
	s.publisher.Publish(*evt)
	return evt, nil
}

// isBusinessError reports whether err is an expected rejection rather than a failure.
func isBusinessError(err error) bool {
	for _, kind := range []error{
		apperrors.ErrValidation, apperrors.ErrIllegalTransition, apperrors.ErrPreconditionNotMet,
		apperrors.ErrNotFound, apperrors.ErrAlreadyArchived, apperrors.ErrTokenInvalid, apperrors.ErrConflict,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

func (s *orderService) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	return s.orderRepo.FindOrderByID(ctx, s.txManager.DB(), orderID)
}

func (s *orderService) GetHistory(ctx context.Context, orderID int64) ([]domain.OrderStatusHistory, error) {
	db := s.txManager.DB()
	if _, err := s.orderRepo.FindOrderByID(ctx, db, orderID); err != nil {
		return nil, err
	}
	return s.orderRepo.ListStatusHistory(ctx, db, orderID)
}

func (s *orderService) GetNextActions(ctx context.Context, orderID int64) ([]domain.NextAction, error) {
	order, err := s.orderRepo.FindOrderByID(ctx, s.txManager.DB(), orderID)
	if err != nil {
		return nil, err
	}
	return workflow.NextActions(*order, s.Now()), nil
}

func (s *orderService) AcceptOffer(ctx context.Context, orderID int64, actor string) error {
	_, err := s.fire(ctx, orderID, domain.EventAcceptOffer, actor, domain.EventContext{})
	return err
}

func (s *orderService) RejectOffer(ctx context.Context, orderID int64, reason, actor string) error {
	_, err := s.fire(ctx, orderID, domain.EventRejectOffer, actor, domain.EventContext{Reason: reason})
	return err
}

func (s *orderService) ExpireOffers(ctx context.Context, today time.Time) (int, error) {
	ids, err := s.orderRepo.ListExpiredOfferIDs(ctx, s.txManager.DB(), domain.DateOnly(today))
	if err != nil {
		s.LogError(ctx, err, "Failed to list expired offers")
		return 0, err
	}

	expired := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return expired, err
		}
		if _, err := s.fire(ctx, id, domain.EventOfferExpire, SystemActor, domain.EventContext{}); err != nil {
			s.LogInfo(ctx, "Offer not expired", slog.Int64("order_id", id), slog.String("reason", err.Error()))
			continue
		}
		expired++
	}
	if expired > 0 {
		s.LogInfo(ctx, "Expired offers cancelled", slog.Int("count", expired))
	}
	return expired, nil
}

func (s *orderService) RequestDesignApproval(ctx context.Context, orderID int64, actor string) (string, error) {
	token, err := utils.GenerateURLSafeToken(approvalTokenBytes)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate design approval token", slog.Int64("order_id", orderID))
		return "", apperrors.NewAppError(500, "could not generate approval token", err)
	}
	_, err = s.fire(ctx, orderID, domain.EventRequestDesignApproval, actor, domain.EventContext{TokenHash: utils.HashToken(token)})
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *orderService) ApproveDesign(ctx context.Context, token string, approval dto.DesignApprovalRequest) error {
	_, err := s.fireByToken(ctx, token, domain.EventApproveDesign, domain.EventContext{
		Signature: approval.Signature,
		Notes:     approval.Notes,
		IP:        approval.IP,
		UserAgent: approval.UserAgent,
	})
	return err
}

func (s *orderService) RejectDesign(ctx context.Context, token string, rejection dto.DesignRejectionRequest) error {
	_, err := s.fireByToken(ctx, token, domain.EventRejectDesign, domain.EventContext{
		Notes: rejection.Notes,
		IP:    rejection.IP,
	})
	return err
}

// fireByToken resolves the order from the approval token. Unknown tokens are TokenInvalid.
func (s *orderService) fireByToken(ctx context.Context, token string, event domain.WorkflowEvent, evCtx domain.EventContext) (*domain.TransitionEvent, error) {
	if token == "" {
		return nil, apperrors.ErrTokenInvalid
	}
	evCtx.TokenHash = utils.HashToken(token)
	return s.fireLocked(ctx, event, func(ctx context.Context, tx portsrepo.DBTX) (*domain.Order, error) {
		order, err := s.orderRepo.FindOrderByApprovalTokenForUpdate(ctx, tx, evCtx.TokenHash)
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrTokenInvalid
		}
		return order, err
	}, middleware.PublicActor, evCtx)
}

func (s *orderService) RecordDeposit(ctx context.Context, orderID int64, amount decimal.Decimal, method domain.PaymentMethod, txnID, actor string) error {
	_, err := s.fire(ctx, orderID, domain.EventRecordDeposit, actor, domain.EventContext{
		Amount: &amount,
		Method: method,
		TxnID:  txnID,
	})
	return err
}

func (s *orderService) RecordFinalPayment(ctx context.Context, orderID int64, method domain.PaymentMethod, txnID, actor string) error {
	_, err := s.fire(ctx, orderID, domain.EventRecordFinalPayment, actor, domain.EventContext{
		Method: method,
		TxnID:  txnID,
	})
	return err
}

func (s *orderService) StartProduction(ctx context.Context, orderID int64, actor string) error {
	_, err := s.fire(ctx, orderID, domain.EventStartProduction, actor, domain.EventContext{})
	return err
}

func (s *orderService) StartPacking(ctx context.Context, orderID int64, actor string) error {
	_, err := s.fire(ctx, orderID, domain.EventStartPacking, actor, domain.EventContext{})
	return err
}

func (s *orderService) MarkReadyToShip(ctx context.Context, orderID int64, actor string) error {
	_, err := s.fire(ctx, orderID, domain.EventReadyToShip, actor, domain.EventContext{})
	return err
}

func (s *orderService) ConfirmPickup(ctx context.Context, orderID int64, signature, name, actor string) error {
	_, err := s.fire(ctx, orderID, domain.EventConfirmPickup, actor, domain.EventContext{Signature: signature, Name: name})
	return err
}

func (s *orderService) MarkShipped(ctx context.Context, orderID int64, trackingNumber, actor string) error {
	_, err := s.fire(ctx, orderID, domain.EventMarkShipped, actor, domain.EventContext{TrackingNumber: trackingNumber})
	return err
}

func (s *orderService) Complete(ctx context.Context, orderID int64, actor string) error {
	_, err := s.fire(ctx, orderID, domain.EventComplete, actor, domain.EventContext{})
	return err
}

func (s *orderService) Cancel(ctx context.Context, orderID int64, reason, actor string) error {
	if reason == "" {
		return fmt.Errorf("%w: cancel reason is required", apperrors.ErrValidation)
	}
	_, err := s.fire(ctx, orderID, domain.EventCancel, actor, domain.EventContext{Reason: reason})
	return err
}

func (s *orderService) IssueInvoice(ctx context.Context, orderID int64, actor string) (int64, error) {
	evt, err := s.fire(ctx, orderID, domain.EventIssueInvoice, actor, domain.EventContext{})
	if err != nil {
		return 0, err
	}
	if evt.Order.InvoiceID == nil {
		return 0, fmt.Errorf("%w: invoice was not linked to order %d", apperrors.ErrInternal, orderID)
	}
	return *evt.Order.InvoiceID, nil
}

func (s *orderService) Archive(ctx context.Context, orderID int64, reason, actor string) error {
	_, err := s.fire(ctx, orderID, domain.EventArchive, actor, domain.EventContext{Reason: reason})
	return err
}

func (s *orderService) Unarchive(ctx context.Context, orderID int64, actor string) error {
	_, err := s.fire(ctx, orderID, domain.EventUnarchive, actor, domain.EventContext{})
	return err
}
