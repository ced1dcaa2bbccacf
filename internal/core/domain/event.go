package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkflowEvent names something that happens to an order.
type WorkflowEvent string

const (
	EventCreated               WorkflowEvent = "created"
	EventAcceptOffer           WorkflowEvent = "accept_offer"
	EventRejectOffer           WorkflowEvent = "reject_offer"
	EventOfferExpire           WorkflowEvent = "offer_expire"
	EventRequestDesignApproval WorkflowEvent = "request_design_approval"
	EventApproveDesign         WorkflowEvent = "approve_design"
	EventRejectDesign          WorkflowEvent = "reject_design"
	EventStartProduction       WorkflowEvent = "start_production"
	EventStartPacking          WorkflowEvent = "start_packing"
	EventReadyToShip           WorkflowEvent = "ready_to_ship"
	EventConfirmPickup         WorkflowEvent = "confirm_pickup"
	EventMarkShipped           WorkflowEvent = "mark_shipped"
	EventComplete              WorkflowEvent = "complete"
	EventIssueInvoice          WorkflowEvent = "issue_invoice"
	EventCancel                WorkflowEvent = "cancel"
	EventArchive               WorkflowEvent = "archive"
	EventUnarchive             WorkflowEvent = "unarchive"
	EventRecordDeposit         WorkflowEvent = "record_deposit"
	EventRecordFinalPayment    WorkflowEvent = "record_final_payment"
)

// ParseWorkflowEvent parses an event name.
func ParseWorkflowEvent(s string) (WorkflowEvent, error) {
	return parseEnum("workflow event", s,
		EventCreated, EventAcceptOffer, EventRejectOffer, EventOfferExpire, EventRequestDesignApproval,
		EventApproveDesign, EventRejectDesign, EventStartProduction, EventStartPacking, EventReadyToShip,
		EventConfirmPickup, EventMarkShipped, EventComplete, EventIssueInvoice, EventCancel, EventArchive,
		EventUnarchive, EventRecordDeposit, EventRecordFinalPayment)
}

// EventContext carries the event-specific arguments. Unused fields stay zero.
type EventContext struct {
	Reason         string           `json:"reason,omitempty"`
	Amount         *decimal.Decimal `json:"amount,omitempty"`
	Method         PaymentMethod    `json:"method,omitempty"`
	TxnID          string           `json:"txnId,omitempty"`
	TokenHash      string           `json:"-"`
	Signature      string           `json:"-"`
	Name           string           `json:"name,omitempty"`
	IP             string           `json:"ip,omitempty"`
	UserAgent      string           `json:"userAgent,omitempty"`
	Notes          string           `json:"notes,omitempty"`
	TrackingNumber string           `json:"trackingNumber,omitempty"`
}

// TransitionEvent is dispatched to listeners inside the transaction that applied it.
// Listeners may update the link fields of Order and persist it.
type TransitionEvent struct {
	OrderID int64          `json:"orderId"`
	Event   WorkflowEvent  `json:"event"`
	From    WorkflowStatus `json:"fromState"`
	To      WorkflowStatus `json:"toState"`
	At      time.Time      `json:"at"`
	Actor   string         `json:"actor"`
	Context EventContext   `json:"context"`
	Order   *Order         `json:"-"`
}

// NextAction is an event a user can trigger right now, with a display label.
type NextAction struct {
	Event WorkflowEvent `json:"event"`
	Label string        `json:"label"`
}

// WorkflowProgress summarises how far an order has come.
type WorkflowProgress struct {
	Percent      int    `json:"percent"`
	Phase        string `json:"phase"`
	PhaseLabel   string `json:"phaseLabel"`
	PhasePercent int    `json:"phasePercent"`
}
