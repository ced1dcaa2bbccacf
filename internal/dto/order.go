package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/stitchadmin/stitchadmin/internal/core/domain"
)

// OrderItemRequest is one order line in a create request.
type OrderItemRequest struct {
	ArticleID   string          `json:"articleId"`
	Description string          `json:"description" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TaxRate     decimal.Decimal `json:"taxRate"`
}

// CreateOrderRequest creates an order, or an offer when IsOffer is set.
type CreateOrderRequest struct {
	CustomerID             string             `json:"customerId" binding:"required"`
	Description            string             `json:"description"`
	IsOffer                bool               `json:"isOffer"`
	OfferValidUntil        *time.Time         `json:"offerValidUntil"`
	TotalPrice             decimal.Decimal    `json:"totalPrice"`
	HasDesignFile          bool               `json:"hasDesignFile"`
	DesignStatus           string             `json:"designStatus" binding:"omitempty,oneof=none customer_provided needs_order ordered received ready"`
	DesignApprovalRequired bool               `json:"designApprovalRequired"`
	DeliveryType           string             `json:"deliveryType" binding:"required,oneof=pickup shipping"`
	AutoCreatePackingList  *bool              `json:"autoCreatePackingList"`
	Items                  []OrderItemRequest `json:"items" binding:"omitempty,dive"`
}

// CreateOrderResponse is returned after an order was created.
type CreateOrderResponse struct {
	OrderID int64 `json:"orderId"`
}

// ReasonRequest carries an optional free-text reason.
type ReasonRequest struct {
	Reason string `json:"reason"`
}

// ArchiveRequest archives a terminal order.
type ArchiveRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// DepositRequest records a deposit.
type DepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method" binding:"required,oneof=CASH CARD SUMUP INVOICE TRANSFER"`
	TxnID  string          `json:"txnId"`
}

// FinalPaymentRequest records the final payment.
type FinalPaymentRequest struct {
	Method string `json:"method" binding:"required,oneof=CASH CARD SUMUP INVOICE TRANSFER"`
	TxnID  string `json:"txnId"`
}

// ConfirmPickupRequest confirms a pickup at the counter.
type ConfirmPickupRequest struct {
	Signature string `json:"signature" binding:"required"`
	Name      string `json:"name" binding:"required"`
}

// MarkShippedRequest marks an order as shipped.
type MarkShippedRequest struct {
	TrackingNumber string `json:"trackingNumber"`
}

// DesignApprovalRequest is submitted by the customer from the approval link.
type DesignApprovalRequest struct {
	Signature string `json:"signature" binding:"required"`
	Notes     string `json:"notes"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// DesignRejectionRequest asks for a design revision.
type DesignRejectionRequest struct {
	Notes string `json:"notes" binding:"required"`
	IP    string `json:"-"`
}

// DesignApprovalTokenResponse hands the raw token to the caller exactly once.
type DesignApprovalTokenResponse struct {
	Token       string `json:"token"`
	ApprovePath string `json:"approvePath"`
}

// IssueInvoiceResponse returns the id of the created invoice.
type IssueInvoiceResponse struct {
	InvoiceID int64 `json:"invoiceId"`
}

// OrderResponse wraps an order for API output.
type OrderResponse struct {
	domain.Order
	NextActions []domain.NextAction      `json:"nextActions,omitempty"`
	Progress    *domain.WorkflowProgress `json:"progress,omitempty"`
}

// ToOrderItems converts request lines to domain items, numbering positions from 1.
func ToOrderItems(items []OrderItemRequest) []domain.OrderItem {
	out := make([]domain.OrderItem, len(items))
	for i, it := range items {
		out[i] = domain.OrderItem{
			Position:    i + 1,
			ArticleID:   it.ArticleID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   domain.RoundMoney(it.UnitPrice),
			TaxRate:     it.TaxRate,
		}
	}
	return out
}
