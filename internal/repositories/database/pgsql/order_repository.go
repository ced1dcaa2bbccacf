package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stitchadmin/stitchadmin/internal/apperrors"
	"github.com/stitchadmin/stitchadmin/internal/core/domain"
	portsrepo "github.com/stitchadmin/stitchadmin/internal/core/ports/repositories"
	"github.com/stitchadmin/stitchadmin/internal/models"
	"github.com/stitchadmin/stitchadmin/internal/utils/mapping"
)

type PgxOrderRepository struct {
	pool *pgxpool.Pool
}

// newPgxOrderRepository creates a new repository for orders, their items and history.
func newPgxOrderRepository(pool *pgxpool.Pool) portsrepo.OrderRepositoryFacade {
	return &PgxOrderRepository{pool: pool}
}

var _ portsrepo.OrderRepositoryFacade = (*PgxOrderRepository)(nil)

const orderColumns = `id, order_number, customer_id, description,
	total_price, deposit_amount, deposit_paid_at, deposit_method, deposit_txn_id,
	payment_status, payment_method, payment_txn_id, paid_at,
	is_offer, offer_valid_until, offer_sent_at, offer_accepted_at, offer_rejected_at, offer_rejection_reason,
	has_design_file, design_status, design_approval_status, design_approval_token_hash, design_approval_sent_at,
	design_approval_date, design_approval_signature, design_approval_ip, design_approval_user_agent, design_approval_notes,
	workflow_status, delivery_type, pickup_confirmed_at, pickup_signature, pickup_name, cancelled_at, cancel_reason,
	archived_at, archived_by, archive_reason,
	auto_create_packing_list, invoice_id, packing_list_id, delivery_note_id,
	created_at, created_by, updated_at, updated_by`

func scanOrderRow(row pgx.Row) (models.Order, error) {
	var m models.Order
	err := row.Scan(
		&m.ID, &m.OrderNumber, &m.CustomerID, &m.Description,
		&m.TotalPrice, &m.DepositAmount, &m.DepositPaidAt, &m.DepositMethod, &m.DepositTxnID,
		&m.PaymentStatus, &m.PaymentMethod, &m.PaymentTxnID, &m.PaidAt,
		&m.IsOffer, &m.OfferValidUntil, &m.OfferSentAt, &m.OfferAcceptedAt, &m.OfferRejectedAt, &m.OfferRejectionReason,
		&m.HasDesignFile, &m.DesignStatus, &m.DesignApprovalStatus, &m.DesignApprovalTokenHash, &m.DesignApprovalSentAt,
		&m.DesignApprovalDate, &m.DesignApprovalSignature, &m.DesignApprovalIP, &m.DesignApprovalUserAgent, &m.DesignApprovalNotes,
		&m.WorkflowStatus, &m.DeliveryType, &m.PickupConfirmedAt, &m.PickupSignature, &m.PickupName, &m.CancelledAt, &m.CancelReason,
		&m.ArchivedAt, &m.ArchivedBy, &m.ArchiveReason,
		&m.AutoCreatePackingList, &m.InvoiceID, &m.PackingListID, &m.DeliveryNoteID,
		&m.CreatedAt, &m.CreatedBy, &m.UpdatedAt, &m.UpdatedBy,
	)
	return m, err
}

func (r *PgxOrderRepository) findOrder(ctx context.Context, db portsrepo.DBTX, where string, arg any, lock bool) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE ` + where
	if lock {
		query += ` FOR UPDATE`
	}
	m, err := scanOrderRow(db.QueryRow(ctx, query, arg))
	if err != nil {
		err = translateError(err, "order")
		if isNotFound(err) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, err
	}

	items, err := r.listItems(ctx, db, m.ID)
	if err != nil {
		return nil, err
	}
	order, err := mapping.ToDomainOrder(m, items)
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", m.ID, err)
	}
	return &order, nil
}

func (r *PgxOrderRepository) listItems(ctx context.Context, db portsrepo.DBTX, orderID int64) ([]models.OrderItem, error) {
	query := `
		SELECT id, order_id, position, article_id, description, quantity, unit_price, tax_rate
		FROM order_items
		WHERE order_id = $1
		ORDER BY position;
	`
	rows, err := db.Query(ctx, query, orderID)
	if err != nil {
		return nil, translateError(err, "failed to query items of order %d", orderID)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.Position, &it.ArticleID, &it.Description, &it.Quantity, &it.UnitPrice, &it.TaxRate); err != nil {
			return nil, translateError(err, "failed to scan order item")
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "error iterating order items")
	}
	return items, nil
}

// FindOrderByID retrieves an order with its items.
func (r *PgxOrderRepository) FindOrderByID(ctx context.Context, db portsrepo.DBTX, id int64) (*domain.Order, error) {
	return r.findOrder(ctx, db, "id = $1", id, false)
}

// FindOrderByIDForUpdate retrieves and locks an order. Must be called within a transaction.
func (r *PgxOrderRepository) FindOrderByIDForUpdate(ctx context.Context, db portsrepo.DBTX, id int64) (*domain.Order, error) {
	return r.findOrder(ctx, db, "id = $1", id, true)
}

// FindOrderByApprovalTokenForUpdate locks the order carrying tokenHash.
func (r *PgxOrderRepository) FindOrderByApprovalTokenForUpdate(ctx context.Context, db portsrepo.DBTX, tokenHash string) (*domain.Order, error) {
	return r.findOrder(ctx, db, "design_approval_token_hash = $1", tokenHash, true)
}

// ListExpiredOfferIDs returns open offers whose validity ended before today.
func (r *PgxOrderRepository) ListExpiredOfferIDs(ctx context.Context, db portsrepo.DBTX, today time.Time) ([]int64, error) {
	query := `
		SELECT id FROM orders
		WHERE workflow_status = 'offer' AND archived_at IS NULL
		  AND offer_valid_until IS NOT NULL AND offer_valid_until < $1::date
		ORDER BY id;
	`
	rows, err := db.Query(ctx, query, today)
	if err != nil {
		return nil, translateError(err, "failed to list expired offers")
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, translateError(err, "failed to scan expired offers")
	}
	return ids, nil
}

// InsertOrder stores a new order and its items.
func (r *PgxOrderRepository) InsertOrder(ctx context.Context, db portsrepo.DBTX, order domain.Order) (int64, error) {
	m := mapping.ToModelOrder(order)
	query := `
		INSERT INTO orders (order_number, customer_id, description, total_price, deposit_amount, payment_status,
			is_offer, offer_valid_until, offer_sent_at, has_design_file, design_status, design_approval_status,
			workflow_status, delivery_type, auto_create_packing_list, created_at, created_by, updated_at, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING id;
	`
	var id int64
	err := db.QueryRow(ctx, query,
		m.OrderNumber, m.CustomerID, m.Description, m.TotalPrice, m.DepositAmount, m.PaymentStatus,
		m.IsOffer, m.OfferValidUntil, m.OfferSentAt, m.HasDesignFile, m.DesignStatus, m.DesignApprovalStatus,
		m.WorkflowStatus, m.DeliveryType, m.AutoCreatePackingList, m.CreatedAt, m.CreatedBy, m.UpdatedAt, m.UpdatedBy,
	).Scan(&id)
	if err != nil {
		return 0, translateError(err, "failed to insert order %s", m.OrderNumber)
	}

	if len(order.Items) == 0 {
		return id, nil
	}

	itemQuery := `
		INSERT INTO order_items (order_id, position, article_id, description, quantity, unit_price, tax_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	batch := &pgx.Batch{}
	for _, it := range order.Items {
		var articleID *string
		if it.ArticleID != "" {
			articleID = &it.ArticleID
		}
		batch.Queue(itemQuery, id, it.Position, articleID, it.Description, it.Quantity, it.UnitPrice, it.TaxRate)
	}
	br := db.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = translateError(err, "failed to insert item %d of order %d", i+1, id)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = translateError(err, "failed to close order item batch")
	}
	if batchErr != nil {
		return 0, batchErr
	}
	return id, nil
}

// UpdateOrder stores every mutable column of the order.
func (r *PgxOrderRepository) UpdateOrder(ctx context.Context, db portsrepo.DBTX, order domain.Order) error {
	m := mapping.ToModelOrder(order)
	query := `
		UPDATE orders SET
			deposit_amount = $2, deposit_paid_at = $3, deposit_method = $4, deposit_txn_id = $5,
			payment_status = $6, payment_method = $7, payment_txn_id = $8, paid_at = $9,
			offer_accepted_at = $10, offer_rejected_at = $11, offer_rejection_reason = $12,
			design_status = $13, design_approval_status = $14, design_approval_token_hash = $15,
			design_approval_sent_at = $16, design_approval_date = $17, design_approval_signature = $18,
			design_approval_ip = $19, design_approval_user_agent = $20, design_approval_notes = $21,
			workflow_status = $22, pickup_confirmed_at = $23, pickup_signature = $24, pickup_name = $25,
			cancelled_at = $26, cancel_reason = $27, archived_at = $28, archived_by = $29, archive_reason = $30,
			invoice_id = $31, packing_list_id = $32, delivery_note_id = $33,
			updated_at = $34, updated_by = $35
		WHERE id = $1;
	`
	tag, err := db.Exec(ctx, query, m.ID,
		m.DepositAmount, m.DepositPaidAt, m.DepositMethod, m.DepositTxnID,
		m.PaymentStatus, m.PaymentMethod, m.PaymentTxnID, m.PaidAt,
		m.OfferAcceptedAt, m.OfferRejectedAt, m.OfferRejectionReason,
		m.DesignStatus, m.DesignApprovalStatus, m.DesignApprovalTokenHash,
		m.DesignApprovalSentAt, m.DesignApprovalDate, m.DesignApprovalSignature,
		m.DesignApprovalIP, m.DesignApprovalUserAgent, m.DesignApprovalNotes,
		m.WorkflowStatus, m.PickupConfirmedAt, m.PickupSignature, m.PickupName,
		m.CancelledAt, m.CancelReason, m.ArchivedAt, m.ArchivedBy, m.ArchiveReason,
		m.InvoiceID, m.PackingListID, m.DeliveryNoteID,
		m.UpdatedAt, m.UpdatedBy,
	)
	if err != nil {
		return translateError(err, "failed to update order %d", m.ID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrOrderNotFound
	}
	return nil
}

// AppendStatusHistory writes one history row.
func (r *PgxOrderRepository) AppendStatusHistory(ctx context.Context, db portsrepo.DBTX, h domain.OrderStatusHistory) error {
	query := `
		INSERT INTO order_status_history (order_id, from_status, to_status, event, comment, changed_at, changed_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	var comment *string
	if h.Comment != "" {
		comment = &h.Comment
	}
	_, err := db.Exec(ctx, query, h.OrderID, string(h.FromStatus), string(h.ToStatus), string(h.Event), comment, h.ChangedAt, h.ChangedBy)
	return translateError(err, "failed to append history of order %d", h.OrderID)
}

// ListStatusHistory returns the history of an order, oldest first.
func (r *PgxOrderRepository) ListStatusHistory(ctx context.Context, db portsrepo.DBTX, orderID int64) ([]domain.OrderStatusHistory, error) {
	query := `
		SELECT id, order_id, from_status, to_status, event, comment, changed_at, changed_by
		FROM order_status_history
		WHERE order_id = $1
		ORDER BY id;
	`
	rows, err := db.Query(ctx, query, orderID)
	if err != nil {
		return nil, translateError(err, "failed to query history of order %d", orderID)
	}
	defer rows.Close()

	history := []domain.OrderStatusHistory{}
	for rows.Next() {
		var m models.OrderStatusHistory
		if err := rows.Scan(&m.ID, &m.OrderID, &m.FromStatus, &m.ToStatus, &m.Event, &m.Comment, &m.ChangedAt, &m.ChangedBy); err != nil {
			return nil, translateError(err, "failed to scan history row")
		}
		h, err := mapping.ToDomainStatusHistory(m)
		if err != nil {
			return nil, err
		}
		history = append(history, h)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "error iterating history rows")
	}
	return history, nil
}
