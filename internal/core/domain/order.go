package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkflowStatus is the coarse lifecycle state of an order.
type WorkflowStatus string

const (
	StatusOffer          WorkflowStatus = "offer"
	StatusConfirmed      WorkflowStatus = "confirmed"
	StatusDesignPending  WorkflowStatus = "design_pending"
	StatusDesignApproved WorkflowStatus = "design_approved"
	StatusInProduction   WorkflowStatus = "in_production"
	StatusPacking        WorkflowStatus = "packing"
	StatusReadyToShip    WorkflowStatus = "ready_to_ship"
	StatusShipped        WorkflowStatus = "shipped"
	StatusInvoiced       WorkflowStatus = "invoiced"
	StatusCompleted      WorkflowStatus = "completed"
	StatusCancelled      WorkflowStatus = "cancelled"
)

// AllWorkflowStatuses lists every state in lifecycle order.
var AllWorkflowStatuses = []WorkflowStatus{
	StatusOffer, StatusConfirmed, StatusDesignPending, StatusDesignApproved, StatusInProduction,
	StatusPacking, StatusReadyToShip, StatusShipped, StatusInvoiced, StatusCompleted, StatusCancelled,
}

// ParseWorkflowStatus parses a stored workflow status.
func ParseWorkflowStatus(s string) (WorkflowStatus, error) {
	return parseEnum("workflow status", s, AllWorkflowStatuses...)
}

// IsTerminal reports whether no further workflow transition leaves s.
func (s WorkflowStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// PaymentStatus tracks money received for an order.
type PaymentStatus string

const (
	PaymentStatusPending     PaymentStatus = "pending"
	PaymentStatusDepositPaid PaymentStatus = "deposit_paid"
	PaymentStatusPaid        PaymentStatus = "paid"
	PaymentStatusRefunded    PaymentStatus = "refunded"
)

// ParsePaymentStatus parses a stored payment status.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	return parseEnum("payment status", s,
		PaymentStatusPending, PaymentStatusDepositPaid, PaymentStatusPaid, PaymentStatusRefunded)
}

// DesignStatus describes where the embroidery or print design stands.
type DesignStatus string

const (
	DesignNone             DesignStatus = "none"
	DesignCustomerProvided DesignStatus = "customer_provided"
	DesignNeedsOrder       DesignStatus = "needs_order"
	DesignOrdered          DesignStatus = "ordered"
	DesignReceived         DesignStatus = "received"
	DesignReady            DesignStatus = "ready"
)

// ParseDesignStatus parses a stored design status.
func ParseDesignStatus(s string) (DesignStatus, error) {
	return parseEnum("design status", s,
		DesignNone, DesignCustomerProvided, DesignNeedsOrder, DesignOrdered, DesignReceived, DesignReady)
}

// DesignApprovalStatus tracks the customer's sign-off on the design.
type DesignApprovalStatus string

const (
	ApprovalNotRequired       DesignApprovalStatus = "not_required"
	ApprovalPending           DesignApprovalStatus = "pending"
	ApprovalSent              DesignApprovalStatus = "sent"
	ApprovalApproved          DesignApprovalStatus = "approved"
	ApprovalRevisionRequested DesignApprovalStatus = "revision_requested"
)

// ParseDesignApprovalStatus parses a stored design approval status.
func ParseDesignApprovalStatus(s string) (DesignApprovalStatus, error) {
	return parseEnum("design approval status", s,
		ApprovalNotRequired, ApprovalPending, ApprovalSent, ApprovalApproved, ApprovalRevisionRequested)
}

// DeliveryType selects how finished goods leave the shop.
type DeliveryType string

const (
	DeliveryPickup   DeliveryType = "pickup"
	DeliveryShipping DeliveryType = "shipping"
)

// ParseDeliveryType parses a stored delivery type.
func ParseDeliveryType(s string) (DeliveryType, error) {
	return parseEnum("delivery type", s, DeliveryPickup, DeliveryShipping)
}

// OrderItem is an order line. The core only reads it to build invoice tax lines.
type OrderItem struct {
	ID          int64           `json:"id"`
	Position    int             `json:"position"`
	ArticleID   string          `json:"articleId,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TaxRate     decimal.Decimal `json:"taxRate"`
}

// NetTotal is quantity times unit price, rounded to cents.
func (i OrderItem) NetTotal() decimal.Decimal {
	return RoundMoney(i.Quantity.Mul(i.UnitPrice))
}

// Order is the central workflow record. It is plain data: transitions live in the workflow package.
type Order struct {
	ID          int64  `json:"id"`
	OrderNumber string `json:"orderNumber"`
	CustomerID  string `json:"customerId"`
	Description string `json:"description,omitempty"`

	TotalPrice    decimal.Decimal `json:"totalPrice"`
	DepositAmount decimal.Decimal `json:"depositAmount"`
	DepositPaidAt *time.Time      `json:"depositPaidAt,omitempty"`
	DepositMethod *PaymentMethod  `json:"depositMethod,omitempty"`
	DepositTxnID  *string         `json:"depositTxnId,omitempty"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	PaymentMethod *PaymentMethod  `json:"paymentMethod,omitempty"`
	PaymentTxnID  *string         `json:"paymentTxnId,omitempty"`
	PaidAt        *time.Time      `json:"paidAt,omitempty"`

	IsOffer              bool       `json:"isOffer"`
	OfferValidUntil      *time.Time `json:"offerValidUntil,omitempty"`
	OfferSentAt          *time.Time `json:"offerSentAt,omitempty"`
	OfferAcceptedAt      *time.Time `json:"offerAcceptedAt,omitempty"`
	OfferRejectedAt      *time.Time `json:"offerRejectedAt,omitempty"`
	OfferRejectionReason *string    `json:"offerRejectionReason,omitempty"`

	HasDesignFile           bool                 `json:"hasDesignFile"`
	DesignStatus            DesignStatus         `json:"designStatus"`
	DesignApprovalStatus    DesignApprovalStatus `json:"designApprovalStatus"`
	DesignApprovalTokenHash *string              `json:"-"`
	DesignApprovalSentAt    *time.Time           `json:"designApprovalSentAt,omitempty"`
	DesignApprovalDate      *time.Time           `json:"designApprovalDate,omitempty"`
	DesignApprovalSignature *string              `json:"designApprovalSignature,omitempty"`
	DesignApprovalIP        *string              `json:"designApprovalIp,omitempty"`
	DesignApprovalUserAgent *string              `json:"designApprovalUserAgent,omitempty"`
	DesignApprovalNotes     *string              `json:"designApprovalNotes,omitempty"`

	WorkflowStatus    WorkflowStatus `json:"workflowStatus"`
	DeliveryType      DeliveryType   `json:"deliveryType"`
	PickupConfirmedAt *time.Time     `json:"pickupConfirmedAt,omitempty"`
	PickupSignature   *string        `json:"pickupSignature,omitempty"`
	PickupName        *string        `json:"pickupName,omitempty"`
	CancelledAt       *time.Time     `json:"cancelledAt,omitempty"`
	CancelReason      *string        `json:"cancelReason,omitempty"`

	ArchivedAt    *time.Time `json:"archivedAt,omitempty"`
	ArchivedBy    *string    `json:"archivedBy,omitempty"`
	ArchiveReason *string    `json:"archiveReason,omitempty"`

	AutoCreatePackingList bool   `json:"autoCreatePackingList"`
	InvoiceID             *int64 `json:"invoiceId,omitempty"`
	PackingListID         *int64 `json:"packingListId,omitempty"`
	DeliveryNoteID        *int64 `json:"deliveryNoteId,omitempty"`

	Items []OrderItem `json:"items,omitempty"`

	AuditFields
}

// IsArchived reports whether the archive flag is set.
func (o Order) IsArchived() bool {
	return o.ArchivedAt != nil
}

// InitialStatus is Offer for quotes, Confirmed otherwise.
func InitialStatus(isOffer bool) WorkflowStatus {
	if isOffer {
		return StatusOffer
	}
	return StatusConfirmed
}

// OrderStatusHistory is an append-only record of one accepted transition.
type OrderStatusHistory struct {
	ID         int64          `json:"id"`
	OrderID    int64          `json:"orderId"`
	FromStatus WorkflowStatus `json:"fromStatus"`
	ToStatus   WorkflowStatus `json:"toStatus"`
	Event      WorkflowEvent  `json:"event"`
	Comment    string         `json:"comment,omitempty"`
	ChangedAt  time.Time      `json:"changedAt"`
	ChangedBy  string         `json:"changedBy"`
}
