package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stitchadmin/stitchadmin/internal/apperrors"
	"github.com/stitchadmin/stitchadmin/internal/core/domain"
	portsrepo "github.com/stitchadmin/stitchadmin/internal/core/ports/repositories"
	"github.com/stitchadmin/stitchadmin/internal/models"
	"github.com/stitchadmin/stitchadmin/internal/utils/mapping"
)

// PgxDocumentRepository is the default store for customers and order documents.
type PgxDocumentRepository struct {
	pool *pgxpool.Pool
}

func newPgxDocumentRepository(pool *pgxpool.Pool) *PgxDocumentRepository {
	return &PgxDocumentRepository{pool: pool}
}

var (
	_ portsrepo.DocumentStore     = (*PgxDocumentRepository)(nil)
	_ portsrepo.CustomerDirectory = (*PgxDocumentRepository)(nil)
)

// FindCustomerSnapshot reads the customer master data frozen onto invoices.
func (r *PgxDocumentRepository) FindCustomerSnapshot(ctx context.Context, db portsrepo.DBTX, customerID string) (*domain.CustomerSnapshot, error) {
	query := `
		SELECT id, name, COALESCE(company, ''), COALESCE(street, ''), COALESCE(zip, ''),
		       COALESCE(city, ''), COALESCE(country, ''), COALESCE(email, '')
		FROM customers
		WHERE id = $1;
	`
	var c domain.CustomerSnapshot
	err := db.QueryRow(ctx, query, customerID).Scan(&c.CustomerID, &c.Name, &c.Company, &c.Street, &c.Zip, &c.City, &c.Country, &c.Email)
	if err != nil {
		return nil, translateError(err, "customer %s", customerID)
	}
	return &c, nil
}

// CreateInvoice stores an invoice. Only one invoice may exist per order.
func (r *PgxDocumentRepository) CreateInvoice(ctx context.Context, db portsrepo.DBTX, inv domain.Invoice) (domain.DocumentRef, error) {
	m, err := mapping.ToModelInvoice(inv)
	if err != nil {
		return domain.DocumentRef{}, err
	}
	query := `
		INSERT INTO invoices (invoice_number, order_id, customer_snapshot, invoice_date, net, tax, gross, tax_lines,
			payment_method, status, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id;
	`
	var id int64
	err = db.QueryRow(ctx, query, m.InvoiceNumber, m.OrderID, string(m.CustomerSnapshot), m.InvoiceDate, m.Net, m.Tax, m.Gross,
		string(m.TaxLines), m.PaymentMethod, m.Status, m.CreatedAt, m.CreatedBy).Scan(&id)
	if err != nil {
		err = translateError(err, "failed to create invoice %s", m.InvoiceNumber)
		if errorsIsDuplicate(err) {
			return domain.DocumentRef{}, fmt.Errorf("%w: order %d already has an invoice", apperrors.ErrConflict, m.OrderID)
		}
		return domain.DocumentRef{}, err
	}
	return domain.DocumentRef{ID: id, Number: m.InvoiceNumber}, nil
}

// FindInvoiceByID retrieves an invoice.
func (r *PgxDocumentRepository) FindInvoiceByID(ctx context.Context, db portsrepo.DBTX, id int64) (*domain.Invoice, error) {
	query := `
		SELECT id, invoice_number, order_id, customer_snapshot, invoice_date, net, tax, gross, tax_lines,
		       payment_method, status, created_at, created_by
		FROM invoices
		WHERE id = $1;
	`
	var m models.Invoice
	err := db.QueryRow(ctx, query, id).Scan(&m.ID, &m.InvoiceNumber, &m.OrderID, &m.CustomerSnapshot, &m.InvoiceDate,
		&m.Net, &m.Tax, &m.Gross, &m.TaxLines, &m.PaymentMethod, &m.Status, &m.CreatedAt, &m.CreatedBy)
	if err != nil {
		return nil, translateError(err, "invoice %d", id)
	}
	inv, err := mapping.ToDomainInvoice(m)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// SetInvoiceStatus updates the status of an invoice.
func (r *PgxDocumentRepository) SetInvoiceStatus(ctx context.Context, db portsrepo.DBTX, id int64, status string) error {
	tag, err := db.Exec(ctx, `UPDATE invoices SET status = $2 WHERE id = $1;`, id, status)
	if err != nil {
		return translateError(err, "failed to update invoice %d", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: invoice %d", apperrors.ErrNotFound, id)
	}
	return nil
}

// CreatePackingList stores a packing list.
func (r *PgxDocumentRepository) CreatePackingList(ctx context.Context, db portsrepo.DBTX, pl domain.PackingList) (domain.DocumentRef, error) {
	query := `
		INSERT INTO packing_lists (number, order_id, status, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id;
	`
	var id int64
	if err := db.QueryRow(ctx, query, pl.Number, pl.OrderID, pl.Status, pl.CreatedAt, pl.CreatedBy).Scan(&id); err != nil {
		return domain.DocumentRef{}, translateError(err, "failed to create packing list %s", pl.Number)
	}
	return domain.DocumentRef{ID: id, Number: pl.Number}, nil
}

// CreateDeliveryNote stores a delivery note.
func (r *PgxDocumentRepository) CreateDeliveryNote(ctx context.Context, db portsrepo.DBTX, dn domain.DeliveryNote) (domain.DocumentRef, error) {
	query := `
		INSERT INTO delivery_notes (number, order_id, packing_list_id, delivery_date, status, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id;
	`
	var id int64
	err := db.QueryRow(ctx, query, dn.Number, dn.OrderID, dn.PackingListID, dn.Date, dn.Status, dn.CreatedAt, dn.CreatedBy).Scan(&id)
	if err != nil {
		return domain.DocumentRef{}, translateError(err, "failed to create delivery note %s", dn.Number)
	}
	return domain.DocumentRef{ID: id, Number: dn.Number}, nil
}

// CreatePostEntry stores a parcel register entry.
func (r *PgxDocumentRepository) CreatePostEntry(ctx context.Context, db portsrepo.DBTX, pe domain.PostEntry) (domain.DocumentRef, error) {
	query := `
		INSERT INTO post_entries (number, order_id, delivery_note_id, direction, tracking_number, status, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id;
	`
	var tracking *string
	if pe.TrackingNumber != "" {
		tracking = &pe.TrackingNumber
	}
	var id int64
	err := db.QueryRow(ctx, query, pe.Number, pe.OrderID, pe.DeliveryNoteID, string(pe.Direction), tracking, pe.Status, pe.CreatedAt, pe.CreatedBy).Scan(&id)
	if err != nil {
		return domain.DocumentRef{}, translateError(err, "failed to create post entry %s", pe.Number)
	}
	return domain.DocumentRef{ID: id, Number: pe.Number}, nil
}
