package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stitchadmin/stitchadmin/internal/core/domain"
	portsrepo "github.com/stitchadmin/stitchadmin/internal/core/ports/repositories"
	portssvc "github.com/stitchadmin/stitchadmin/internal/core/ports/services"
	"github.com/stitchadmin/stitchadmin/internal/core/workflow"
)

// Transitioner applies workflow events to locked orders and notifies listeners
// inside the same transaction.
type Transitioner struct {
	BaseService
	orderRepo portsrepo.OrderRepositoryFacade
	listeners []portssvc.TransitionListener
}

// NewTransitioner creates a Transitioner. Listeners run in the given order.
func NewTransitioner(orderRepo portsrepo.OrderRepositoryFacade, listeners ...portssvc.TransitionListener) *Transitioner {
	return &Transitioner{orderRepo: orderRepo, listeners: listeners}
}

// Register appends a listener.
func (t *Transitioner) Register(l portssvc.TransitionListener) {
	t.listeners = append(t.listeners, l)
}

// Fire applies in to order, lets the listeners react and persists the result.
// The caller must hold the order lock in tx.
func (t *Transitioner) Fire(ctx context.Context, tx portsrepo.DBTX, order domain.Order, in workflow.Input) (*domain.TransitionEvent, error) {
	next, res, err := workflow.Apply(order, in)
	if err != nil {
		t.LogDebug(ctx, "Transition rejected",
			slog.Int64("order_id", order.ID), slog.String("event", string(in.Event)), slog.String("error", err.Error()))
		return nil, err
	}

	evt := &domain.TransitionEvent{
		OrderID: order.ID,
		Event:   res.Event,
		From:    res.From,
		To:      res.To,
		At:      in.At,
		Actor:   in.Actor,
		Context: in.Context,
		Order:   &next,
	}
	if err := t.Dispatch(ctx, tx, evt); err != nil {
		return nil, err
	}

	if err := t.orderRepo.UpdateOrder(ctx, tx, *evt.Order); err != nil {
		t.LogError(ctx, err, "Failed to store order", slog.Int64("order_id", order.ID))
		return nil, err
	}
	if res.RecordsHistory {
		if err := t.orderRepo.AppendStatusHistory(ctx, tx, domain.OrderStatusHistory{
			OrderID:    order.ID,
			FromStatus: res.From,
			ToStatus:   res.To,
			Event:      res.Event,
			Comment:    historyComment(in.Context),
			ChangedAt:  in.At,
			ChangedBy:  in.Actor,
		}); err != nil {
			t.LogError(ctx, err, "Failed to append status history", slog.Int64("order_id", order.ID))
			return nil, err
		}
	}

	t.LogInfo(ctx, "Order transitioned",
		slog.Int64("order_id", order.ID),
		slog.String("event", string(res.Event)),
		slog.String("from", string(res.From)),
		slog.String("to", string(res.To)),
		slog.String("actor", in.Actor))
	return evt, nil
}

// Dispatch hands evt to every listener in order and stops at the first error.
func (t *Transitioner) Dispatch(ctx context.Context, tx portsrepo.DBTX, evt *domain.TransitionEvent) error {
	for i, l := range t.listeners {
		if err := l.OnTransition(ctx, tx, evt); err != nil {
			t.LogError(ctx, err, "Transition listener failed",
				slog.Int("listener", i), slog.Int64("order_id", evt.OrderID), slog.String("event", string(evt.Event)))
			return fmt.Errorf("listener for %s: %w", evt.Event, err)
		}
	}
	return nil
}

func historyComment(c domain.EventContext) string {
	switch {
	case c.Reason != "":
		return c.Reason
	case c.Notes != "":
		return c.Notes
	case c.TrackingNumber != "":
		return "tracking " + c.TrackingNumber
	}
	return ""
}
