package workflow

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/stitchadmin/stitchadmin/internal/apperrors"
	"github.com/stitchadmin/stitchadmin/internal/core/domain"
)

// Input is one event applied to an order.
type Input struct {
	Event   domain.WorkflowEvent
	At      time.Time
	Actor   string
	Context domain.EventContext
}

// Result describes an accepted transition.
type Result struct {
	Event          domain.WorkflowEvent
	From           domain.WorkflowStatus
	To             domain.WorkflowStatus
	RecordsHistory bool
}

// Apply validates the event against the order and returns the updated copy.
// The input order is not modified.
func Apply(o domain.Order, in Input) (domain.Order, Result, error) {
	t, ok := byEvent[in.Event]
	if !ok {
		return o, Result{}, &apperrors.TransitionError{From: string(o.WorkflowStatus), Event: string(in.Event)}
	}

	if err := checkArchive(o, in.Event); err != nil {
		return o, Result{}, err
	}

	from := o.WorkflowStatus
	if !t.allowedFrom(from) {
		return o, Result{}, &apperrors.TransitionError{From: string(from), Event: string(in.Event)}
	}

	if from == domain.StatusOffer && in.Event != domain.EventOfferExpire && offerExpired(o, in.At) {
		return o, Result{}, precondition(in.Event, fmt.Sprintf("offer expired on %s", o.OfferValidUntil.Format(time.DateOnly)))
	}
	if in.Event == domain.EventOfferExpire && !offerExpired(o, in.At) {
		return o, Result{}, precondition(in.Event, "offer is still valid")
	}

	if t.TokenGated && !tokenMatches(o, in.Context.TokenHash) {
		return o, Result{}, apperrors.ErrTokenInvalid
	}
	if t.Guard != nil {
		if err := t.Guard(o); err != nil {
			return o, Result{}, err
		}
	}
	if t.Validate != nil {
		if err := t.Validate(o, in); err != nil {
			return o, Result{}, err
		}
	}

	next := o
	next.Items = append([]domain.OrderItem(nil), o.Items...)
	if t.Effect != nil {
		t.Effect(&next, in)
	}
	to := t.target(from)
	next.WorkflowStatus = to
	next.UpdatedAt = in.At
	next.UpdatedBy = in.Actor

	return next, Result{Event: in.Event, From: from, To: to, RecordsHistory: t.RecordsHistory}, nil
}

// NextActions lists the events that would currently be accepted, ignoring
// payload validation and token checks.
func NextActions(o domain.Order, now time.Time) []domain.NextAction {
	actions := make([]domain.NextAction, 0, 4)
	for i := range table {
		t := &table[i]
		if checkArchive(o, t.Event) != nil || !t.allowedFrom(o.WorkflowStatus) {
			continue
		}
		expired := offerExpired(o, now)
		if o.WorkflowStatus == domain.StatusOffer && (expired != (t.Event == domain.EventOfferExpire)) {
			continue
		}
		if t.Guard != nil && t.Guard(o) != nil {
			continue
		}
		actions = append(actions, domain.NextAction{Event: t.Event, Label: t.Label})
	}
	return actions
}

func checkArchive(o domain.Order, event domain.WorkflowEvent) error {
	switch {
	case event == domain.EventUnarchive && !o.IsArchived():
		return &apperrors.TransitionError{From: string(o.WorkflowStatus), Event: string(event)}
	case event == domain.EventArchive && o.IsArchived():
		return apperrors.ErrAlreadyArchived
	case event != domain.EventUnarchive && o.IsArchived():
		return precondition(event, "order is archived")
	}
	return nil
}

// offerExpired is true once the calendar day of now is after offer_valid_until.
func offerExpired(o domain.Order, now time.Time) bool {
	if o.OfferValidUntil == nil {
		return false
	}
	vy, vm, vd := o.OfferValidUntil.Date()
	ny, nm, nd := now.Date()
	valid := time.Date(vy, vm, vd, 0, 0, 0, 0, time.UTC)
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return valid.Before(today)
}

func tokenMatches(o domain.Order, presented string) bool {
	if o.DesignApprovalTokenHash == nil || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(*o.DesignApprovalTokenHash), []byte(presented)) == 1
}

func timePtr(t time.Time) *time.Time { return &t }
