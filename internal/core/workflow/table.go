// Package workflow is the order state machine: a transition table plus a pure
// Apply function from (order, event) to the next order.
package workflow

import (
	"fmt"

	"github.com/stitchadmin/stitchadmin/internal/apperrors"
	"github.com/stitchadmin/stitchadmin/internal/core/domain"
)

// Transition describes one event of the table.
type Transition struct {
	Event domain.WorkflowEvent
	Label string
	From  []domain.WorkflowStatus
	// To is the target state. Empty means the order keeps its state.
	To domain.WorkflowStatus
	// RecordsHistory is false for payment events, which do not move the workflow.
	RecordsHistory bool
	// TokenGated events require the design approval token in the input.
	TokenGated bool
	// Guard checks the order. It must not look at the input payload so that
	// NextActions can evaluate it.
	Guard func(o domain.Order) error
	// Validate checks the event payload.
	Validate func(o domain.Order, in Input) error
	Effect   func(o *domain.Order, in Input)
}

var (
	allOpen = []domain.WorkflowStatus{
		domain.StatusOffer, domain.StatusConfirmed, domain.StatusDesignPending, domain.StatusDesignApproved,
		domain.StatusInProduction, domain.StatusPacking, domain.StatusReadyToShip, domain.StatusShipped,
		domain.StatusInvoiced,
	}
	afterOffer = []domain.WorkflowStatus{
		domain.StatusConfirmed, domain.StatusDesignPending, domain.StatusDesignApproved,
		domain.StatusInProduction, domain.StatusPacking, domain.StatusReadyToShip, domain.StatusShipped,
		domain.StatusInvoiced, domain.StatusCompleted,
	}
	terminal = []domain.WorkflowStatus{domain.StatusCompleted, domain.StatusCancelled}
)

// table is ordered by lifecycle so NextActions returns a stable, readable list.
var table = []Transition{
	{
		Event:          domain.EventAcceptOffer,
		Label:          "Accept offer",
		From:           []domain.WorkflowStatus{domain.StatusOffer},
		To:             domain.StatusConfirmed,
		RecordsHistory: true,
		Guard:          offerUndecided,
		Effect: func(o *domain.Order, in Input) {
			o.IsOffer = false
			o.OfferAcceptedAt = timePtr(in.At)
		},
	},
	{
		Event:          domain.EventRejectOffer,
		Label:          "Reject offer",
		From:           []domain.WorkflowStatus{domain.StatusOffer},
		To:             domain.StatusCancelled,
		RecordsHistory: true,
		Guard:          offerUndecided,
		Effect:         rejectOffer,
	},
	{
		Event:          domain.EventOfferExpire,
		Label:          "Expire offer",
		From:           []domain.WorkflowStatus{domain.StatusOffer},
		To:             domain.StatusCancelled,
		RecordsHistory: true,
		Effect:         rejectOffer,
	},
	{
		Event:          domain.EventRequestDesignApproval,
		Label:          "Request design approval",
		From:           []domain.WorkflowStatus{domain.StatusConfirmed},
		To:             domain.StatusDesignPending,
		RecordsHistory: true,
		Guard: func(o domain.Order) error {
			if !o.HasDesignFile {
				return precondition(domain.EventRequestDesignApproval, "order has no design file")
			}
			if o.DesignApprovalStatus == domain.ApprovalApproved {
				return precondition(domain.EventRequestDesignApproval, "design is already approved")
			}
			return nil
		},
		Validate: func(_ domain.Order, in Input) error {
			if in.Context.TokenHash == "" {
				return fmt.Errorf("%w: approval token hash is required", apperrors.ErrValidation)
			}
			return nil
		},
		Effect: func(o *domain.Order, in Input) {
			o.DesignApprovalTokenHash = stringPtr(in.Context.TokenHash)
			o.DesignApprovalStatus = domain.ApprovalSent
			o.DesignApprovalSentAt = timePtr(in.At)
		},
	},
	{
		Event:          domain.EventApproveDesign,
		Label:          "Approve design",
		From:           []domain.WorkflowStatus{domain.StatusDesignPending},
		To:             domain.StatusDesignApproved,
		RecordsHistory: true,
		TokenGated:     true,
		Effect: func(o *domain.Order, in Input) {
			o.DesignApprovalStatus = domain.ApprovalApproved
			o.DesignApprovalDate = timePtr(in.At)
			o.DesignApprovalSignature = optional(in.Context.Signature)
			o.DesignApprovalIP = optional(in.Context.IP)
			o.DesignApprovalUserAgent = optional(in.Context.UserAgent)
			o.DesignApprovalNotes = optional(in.Context.Notes)
		},
	},
	{
		Event:          domain.EventRejectDesign,
		Label:          "Request design revision",
		From:           []domain.WorkflowStatus{domain.StatusDesignPending},
		To:             domain.StatusConfirmed,
		RecordsHistory: true,
		TokenGated:     true,
		Effect: func(o *domain.Order, in Input) {
			o.DesignApprovalStatus = domain.ApprovalRevisionRequested
			o.DesignApprovalIP = optional(in.Context.IP)
			o.DesignApprovalNotes = optional(in.Context.Notes)
		},
	},
	{
		Event:          domain.EventStartProduction,
		Label:          "Start production",
		From:           []domain.WorkflowStatus{domain.StatusConfirmed, domain.StatusDesignApproved},
		To:             domain.StatusInProduction,
		RecordsHistory: true,
		Guard: func(o domain.Order) error {
			if reason := productionBlocker(o); reason != "" {
				return precondition(domain.EventStartProduction, reason)
			}
			return nil
		},
	},
	{
		Event:          domain.EventStartPacking,
		Label:          "Start packing",
		From:           []domain.WorkflowStatus{domain.StatusInProduction},
		To:             domain.StatusPacking,
		RecordsHistory: true,
	},
	{
		Event:          domain.EventReadyToShip,
		Label:          "Mark ready to ship",
		From:           []domain.WorkflowStatus{domain.StatusPacking},
		To:             domain.StatusReadyToShip,
		RecordsHistory: true,
	},
	{
		Event:          domain.EventConfirmPickup,
		Label:          "Confirm pickup",
		From:           []domain.WorkflowStatus{domain.StatusReadyToShip},
		To:             domain.StatusCompleted,
		RecordsHistory: true,
		Guard: func(o domain.Order) error {
			if o.DeliveryType != domain.DeliveryPickup {
				return precondition(domain.EventConfirmPickup, "order is not set up for pickup")
			}
			return nil
		},
		Effect: func(o *domain.Order, in Input) {
			o.PickupConfirmedAt = timePtr(in.At)
			o.PickupSignature = optional(in.Context.Signature)
			o.PickupName = optional(in.Context.Name)
		},
	},
	{
		Event:          domain.EventMarkShipped,
		Label:          "Mark shipped",
		From:           []domain.WorkflowStatus{domain.StatusReadyToShip},
		To:             domain.StatusShipped,
		RecordsHistory: true,
		Guard: func(o domain.Order) error {
			if o.DeliveryType != domain.DeliveryShipping {
				return precondition(domain.EventMarkShipped, "order is not set up for shipping")
			}
			return nil
		},
	},
	{
		Event: domain.EventIssueInvoice,
		Label: "Issue invoice",
		From: []domain.WorkflowStatus{
			domain.StatusDesignApproved, domain.StatusInProduction, domain.StatusPacking,
			domain.StatusReadyToShip, domain.StatusShipped, domain.StatusCompleted,
		},
		RecordsHistory: true,
		Guard: func(o domain.Order) error {
			if o.IsOffer {
				return precondition(domain.EventIssueInvoice, "an offer cannot be invoiced")
			}
			if o.InvoiceID != nil {
				return fmt.Errorf("%w: order already has invoice %d", apperrors.ErrConflict, *o.InvoiceID)
			}
			return nil
		},
	},
	{
		Event:          domain.EventComplete,
		Label:          "Complete",
		From:           []domain.WorkflowStatus{domain.StatusShipped, domain.StatusInvoiced},
		To:             domain.StatusCompleted,
		RecordsHistory: true,
	},
	{
		Event:          domain.EventRecordDeposit,
		Label:          "Record deposit",
		From:           afterOffer,
		RecordsHistory: false,
		Guard: func(o domain.Order) error {
			if o.PaymentStatus != domain.PaymentStatusPending {
				return precondition(domain.EventRecordDeposit, fmt.Sprintf("payment status is %s", o.PaymentStatus))
			}
			return nil
		},
		Validate: func(o domain.Order, in Input) error {
			if err := validMethod(in.Context.Method); err != nil {
				return err
			}
			amount := in.Context.Amount
			if amount == nil || !amount.IsPositive() {
				return fmt.Errorf("%w: deposit amount must be greater than zero", apperrors.ErrValidation)
			}
			if amount.GreaterThan(o.TotalPrice) {
				return fmt.Errorf("%w: deposit %s exceeds total price %s",
					apperrors.ErrValidation, domain.FormatMoney(*amount), domain.FormatMoney(o.TotalPrice))
			}
			return nil
		},
		Effect: func(o *domain.Order, in Input) {
			o.DepositAmount = domain.RoundMoney(*in.Context.Amount)
			o.DepositPaidAt = timePtr(in.At)
			method := in.Context.Method
			o.DepositMethod = &method
			o.DepositTxnID = optional(in.Context.TxnID)
			o.PaymentStatus = domain.PaymentStatusDepositPaid
		},
	},
	{
		Event:          domain.EventRecordFinalPayment,
		Label:          "Record final payment",
		From:           afterOffer,
		RecordsHistory: false,
		Guard: func(o domain.Order) error {
			if o.PaymentStatus != domain.PaymentStatusPending && o.PaymentStatus != domain.PaymentStatusDepositPaid {
				return precondition(domain.EventRecordFinalPayment, fmt.Sprintf("payment status is %s", o.PaymentStatus))
			}
			return nil
		},
		Validate: func(_ domain.Order, in Input) error {
			return validMethod(in.Context.Method)
		},
		Effect: func(o *domain.Order, in Input) {
			o.PaidAt = timePtr(in.At)
			method := in.Context.Method
			o.PaymentMethod = &method
			o.PaymentTxnID = optional(in.Context.TxnID)
			o.PaymentStatus = domain.PaymentStatusPaid
		},
	},
	{
		Event:          domain.EventCancel,
		Label:          "Cancel order",
		From:           allOpen,
		To:             domain.StatusCancelled,
		RecordsHistory: true,
		Effect: func(o *domain.Order, in Input) {
			o.CancelledAt = timePtr(in.At)
			o.CancelReason = optional(in.Context.Reason)
		},
	},
	{
		Event:          domain.EventArchive,
		Label:          "Archive",
		From:           terminal,
		RecordsHistory: true,
		Guard: func(o domain.Order) error {
			if o.WorkflowStatus == domain.StatusCompleted && o.PaymentStatus != domain.PaymentStatusPaid {
				return precondition(domain.EventArchive, "completed orders can only be archived once fully paid")
			}
			return nil
		},
		Effect: func(o *domain.Order, in Input) {
			o.ArchivedAt = timePtr(in.At)
			o.ArchivedBy = stringPtr(in.Actor)
			o.ArchiveReason = optional(in.Context.Reason)
		},
	},
	{
		Event:          domain.EventUnarchive,
		Label:          "Unarchive",
		From:           terminal,
		RecordsHistory: true,
		Effect: func(o *domain.Order, _ Input) {
			o.ArchivedAt = nil
			o.ArchivedBy = nil
			o.ArchiveReason = nil
		},
	},
}

var byEvent = func() map[domain.WorkflowEvent]*Transition {
	m := make(map[domain.WorkflowEvent]*Transition, len(table))
	for i := range table {
		m[table[i].Event] = &table[i]
	}
	return m
}()

// Lookup returns the table row for an event.
func Lookup(event domain.WorkflowEvent) (Transition, bool) {
	t, ok := byEvent[event]
	if !ok {
		return Transition{}, false
	}
	return *t, true
}

// Transitions returns a copy of the whole table.
func Transitions() []Transition {
	out := make([]Transition, len(table))
	copy(out, table)
	return out
}

// Allows reports whether the table defines event for state from, and the resulting state.
func Allows(from domain.WorkflowStatus, event domain.WorkflowEvent) (domain.WorkflowStatus, bool) {
	t, ok := byEvent[event]
	if !ok || !t.allowedFrom(from) {
		return "", false
	}
	return t.target(from), true
}

func (t *Transition) allowedFrom(s domain.WorkflowStatus) bool {
	for _, f := range t.From {
		if f == s {
			return true
		}
	}
	return false
}

func (t *Transition) target(from domain.WorkflowStatus) domain.WorkflowStatus {
	if t.Event == domain.EventIssueInvoice {
		if from == domain.StatusShipped || from == domain.StatusCompleted {
			return domain.StatusInvoiced
		}
		return from
	}
	if t.To == "" {
		return from
	}
	return t.To
}

func offerUndecided(o domain.Order) error {
	if o.OfferAcceptedAt != nil || o.OfferRejectedAt != nil {
		return apperrors.NewPreconditionError("offer decision", "offer has already been accepted or rejected")
	}
	return nil
}

func rejectOffer(o *domain.Order, in Input) {
	o.OfferRejectedAt = timePtr(in.At)
	reason := in.Context.Reason
	if reason == "" && in.Event == domain.EventOfferExpire {
		reason = "offer expired"
	}
	o.OfferRejectionReason = optional(reason)
	o.CancelledAt = timePtr(in.At)
}

// productionBlocker returns why production cannot start, or "" when it can.
func productionBlocker(o domain.Order) string {
	switch o.DesignStatus {
	case domain.DesignCustomerProvided, domain.DesignReady:
	case domain.DesignNone:
		if o.HasDesignFile {
			return "design file is not marked ready"
		}
	default:
		return fmt.Sprintf("design is not ready (status %s)", o.DesignStatus)
	}
	switch o.DesignApprovalStatus {
	case domain.ApprovalNotRequired, domain.ApprovalApproved:
		return ""
	default:
		return fmt.Sprintf("design approval is %s", o.DesignApprovalStatus)
	}
}

func validMethod(m domain.PaymentMethod) error {
	_, err := domain.ParsePaymentMethod(string(m))
	return err
}

func precondition(event domain.WorkflowEvent, reason string) error {
	return apperrors.NewPreconditionError(string(event), reason)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func stringPtr(s string) *string { return &s }
