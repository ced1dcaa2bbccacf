package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a row of the orders table. Enum columns are stored as text.
type Order struct {
	ID          int64   `db:"id"`
	OrderNumber string  `db:"order_number"`
	CustomerID  string  `db:"customer_id"`
	Description *string `db:"description"`

	TotalPrice    decimal.Decimal `db:"total_price"`
	DepositAmount decimal.Decimal `db:"deposit_amount"`
	DepositPaidAt *time.Time      `db:"deposit_paid_at"`
	DepositMethod *string         `db:"deposit_method"`
	DepositTxnID  *string         `db:"deposit_txn_id"`
	PaymentStatus string          `db:"payment_status"`
	PaymentMethod *string         `db:"payment_method"`
	PaymentTxnID  *string         `db:"payment_txn_id"`
	PaidAt        *time.Time      `db:"paid_at"`

	IsOffer              bool       `db:"is_offer"`
	OfferValidUntil      *time.Time `db:"offer_valid_until"`
	OfferSentAt          *time.Time `db:"offer_sent_at"`
	OfferAcceptedAt      *time.Time `db:"offer_accepted_at"`
	OfferRejectedAt      *time.Time `db:"offer_rejected_at"`
	OfferRejectionReason *string    `db:"offer_rejection_reason"`

	HasDesignFile           bool       `db:"has_design_file"`
	DesignStatus            string     `db:"design_status"`
	DesignApprovalStatus    string     `db:"design_approval_status"`
	DesignApprovalTokenHash *string    `db:"design_approval_token_hash"`
	DesignApprovalSentAt    *time.Time `db:"design_approval_sent_at"`
	DesignApprovalDate      *time.Time `db:"design_approval_date"`
	DesignApprovalSignature *string    `db:"design_approval_signature"`
	DesignApprovalIP        *string    `db:"design_approval_ip"`
	DesignApprovalUserAgent *string    `db:"design_approval_user_agent"`
	DesignApprovalNotes     *string    `db:"design_approval_notes"`

	WorkflowStatus    string     `db:"workflow_status"`
	DeliveryType      string     `db:"delivery_type"`
	PickupConfirmedAt *time.Time `db:"pickup_confirmed_at"`
	PickupSignature   *string    `db:"pickup_signature"`
	PickupName        *string    `db:"pickup_name"`
	CancelledAt       *time.Time `db:"cancelled_at"`
	CancelReason      *string    `db:"cancel_reason"`

	ArchivedAt    *time.Time `db:"archived_at"`
	ArchivedBy    *string    `db:"archived_by"`
	ArchiveReason *string    `db:"archive_reason"`

	AutoCreatePackingList bool   `db:"auto_create_packing_list"`
	InvoiceID             *int64 `db:"invoice_id"`
	PackingListID         *int64 `db:"packing_list_id"`
	DeliveryNoteID        *int64 `db:"delivery_note_id"`

	AuditFields
}

// OrderItem is a row of order_items.
type OrderItem struct {
	ID          int64           `db:"id"`
	OrderID     int64           `db:"order_id"`
	Position    int             `db:"position"`
	ArticleID   *string         `db:"article_id"`
	Description string          `db:"description"`
	Quantity    decimal.Decimal `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	TaxRate     decimal.Decimal `db:"tax_rate"`
}

// OrderStatusHistory is a row of order_status_history.
type OrderStatusHistory struct {
	ID         int64     `db:"id"`
	OrderID    int64     `db:"order_id"`
	FromStatus string    `db:"from_status"`
	ToStatus   string    `db:"to_status"`
	Event      string    `db:"event"`
	Comment    *string   `db:"comment"`
	ChangedAt  time.Time `db:"changed_at"`
	ChangedBy  string    `db:"changed_by"`
}
