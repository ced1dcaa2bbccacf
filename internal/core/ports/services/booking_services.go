package services

import (
	"context"

	"github.com/stitchadmin/stitchadmin/internal/core/domain"
	"github.com/stitchadmin/stitchadmin/internal/core/ports/repositories"
)

// BookingSvc books business documents that do not pass through the order workflow.
type BookingSvc interface {
	// BookSaleReceipt posts a point-of-sale receipt. Booking the same receipt twice posts nothing.
	BookSaleReceipt(ctx context.Context, receipt domain.SaleReceipt, actor string) ([]int64, error)

	// BookPurchaseInvoice posts a supplier invoice. Booking the same invoice twice posts nothing.
	BookPurchaseInvoice(ctx context.Context, invoice domain.PurchaseInvoice, actor string) ([]int64, error)
}

// TransitionListener is notified synchronously, inside the transaction, of every
// accepted order transition. Returning an error aborts the whole operation.
type TransitionListener interface {
	OnTransition(ctx context.Context, tx repositories.DBTX, evt *domain.TransitionEvent) error
}

// EventPublisher receives transition events after their transaction committed.
type EventPublisher interface {
	Publish(evt domain.TransitionEvent)
}
