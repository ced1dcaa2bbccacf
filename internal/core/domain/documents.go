package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerSnapshot is the customer data frozen onto an invoice.
type CustomerSnapshot struct {
	CustomerID string `json:"customerId"`
	Name       string `json:"name"`
	Company    string `json:"company,omitempty"`
	Street     string `json:"street,omitempty"`
	Zip        string `json:"zip,omitempty"`
	City       string `json:"city,omitempty"`
	Country    string `json:"country,omitempty"`
	Email      string `json:"email,omitempty"`
}

// DocumentRef is what a document collaborator hands back after creating a document.
type DocumentRef struct {
	ID     int64  `json:"id"`
	Number string `json:"number"`
}

// InvoiceStatus values used by the core.
const (
	InvoiceStatusOpen      = "open"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusCancelled = "cancelled"
)

// Invoice is the outgoing invoice surface the core reads and writes.
type Invoice struct {
	ID            int64            `json:"id"`
	Number        string           `json:"number"`
	OrderID       int64            `json:"orderId"`
	Customer      CustomerSnapshot `json:"customer"`
	Date          time.Time        `json:"date"`
	Net           decimal.Decimal  `json:"net"`
	Tax           decimal.Decimal  `json:"tax"`
	Gross         decimal.Decimal  `json:"gross"`
	Lines         []TaxLine        `json:"lines"`
	PaymentMethod *PaymentMethod   `json:"paymentMethod,omitempty"`
	Status        string           `json:"status"`
	CreatedAt     time.Time        `json:"createdAt"`
	CreatedBy     string           `json:"createdBy"`
}

// PackingList is created when packing starts.
type PackingList struct {
	ID        int64     `json:"id"`
	Number    string    `json:"number"`
	OrderID   int64     `json:"orderId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"`
}

// DeliveryNote accompanies a shipment.
type DeliveryNote struct {
	ID            int64     `json:"id"`
	Number        string    `json:"number"`
	OrderID       int64     `json:"orderId"`
	PackingListID *int64    `json:"packingListId,omitempty"`
	Date          time.Time `json:"date"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
}

// PostDirection is the direction of a mail/parcel register entry.
type PostDirection string

const (
	PostOutbound PostDirection = "outbound"
	PostInbound  PostDirection = "inbound"
)

// PostEntry is a line of the parcel register.
type PostEntry struct {
	ID             int64         `json:"id"`
	Number         string        `json:"number"`
	OrderID        int64         `json:"orderId"`
	DeliveryNoteID *int64        `json:"deliveryNoteId,omitempty"`
	Direction      PostDirection `json:"direction"`
	TrackingNumber string        `json:"trackingNumber,omitempty"`
	Status         string        `json:"status"`
	CreatedAt      time.Time     `json:"createdAt"`
	CreatedBy      string        `json:"createdBy"`
}

// SaleReceipt is a point-of-sale receipt handed to the booking engine.
type SaleReceipt struct {
	ID        int64           `json:"id"`
	ReceiptNo string          `json:"receiptNo"`
	Date      time.Time       `json:"date"`
	Net       decimal.Decimal `json:"net"`
	Tax       decimal.Decimal `json:"tax"`
	Method    PaymentMethod   `json:"method"`
	Lines     []TaxLine       `json:"lines,omitempty"`
}

// PurchaseInvoice is an incoming supplier invoice handed to the booking engine.
type PurchaseInvoice struct {
	ID           int64           `json:"id"`
	Number       string          `json:"number"`
	SupplierName string          `json:"supplierName"`
	Date         time.Time       `json:"date"`
	Net          decimal.Decimal `json:"net"`
	Tax          decimal.Decimal `json:"tax"`
	Lines        []TaxLine       `json:"lines,omitempty"`
}
