package repositories

import (
	"context"

	"github.com/stitchadmin/stitchadmin/internal/core/domain"
)

// CustomerDirectory reads customer master data owned outside the core.
type CustomerDirectory interface {
	FindCustomerSnapshot(ctx context.Context, db DBTX, customerID string) (*domain.CustomerSnapshot, error)
}

// DocumentStore creates and reads the documents linked to orders.
// Implementations return at least the id and number of what they create.
type DocumentStore interface {
	CreateInvoice(ctx context.Context, db DBTX, inv domain.Invoice) (domain.DocumentRef, error)
	FindInvoiceByID(ctx context.Context, db DBTX, id int64) (*domain.Invoice, error)
	SetInvoiceStatus(ctx context.Context, db DBTX, id int64, status string) error

	CreatePackingList(ctx context.Context, db DBTX, pl domain.PackingList) (domain.DocumentRef, error)
	CreateDeliveryNote(ctx context.Context, db DBTX, dn domain.DeliveryNote) (domain.DocumentRef, error)
	CreatePostEntry(ctx context.Context, db DBTX, pe domain.PostEntry) (domain.DocumentRef, error)
}
