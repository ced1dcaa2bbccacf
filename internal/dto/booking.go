package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/stitchadmin/stitchadmin/internal/core/domain"
)

// TaxLineRequest is a per-rate breakdown line.
type TaxLineRequest struct {
	Rate decimal.Decimal `json:"rate"`
	Net  decimal.Decimal `json:"net"`
	Tax  decimal.Decimal `json:"tax"`
}

// SaleReceiptRequest books a point-of-sale receipt.
type SaleReceiptRequest struct {
	ID        int64            `json:"id" binding:"required,min=1"`
	ReceiptNo string           `json:"receiptNo" binding:"required"`
	Date      time.Time        `json:"date" binding:"required"`
	Net       decimal.Decimal  `json:"net"`
	Tax       decimal.Decimal  `json:"tax"`
	Method    string           `json:"method" binding:"required,oneof=CASH CARD SUMUP INVOICE TRANSFER"`
	Lines     []TaxLineRequest `json:"lines" binding:"omitempty,dive"`
}

// ToDomain converts the request.
func (r SaleReceiptRequest) ToDomain() domain.SaleReceipt {
	return domain.SaleReceipt{
		ID:        r.ID,
		ReceiptNo: r.ReceiptNo,
		Date:      r.Date,
		Net:       r.Net,
		Tax:       r.Tax,
		Method:    domain.PaymentMethod(r.Method),
		Lines:     toTaxLines(r.Lines),
	}
}

// PurchaseInvoiceRequest books a supplier invoice.
type PurchaseInvoiceRequest struct {
	ID           int64            `json:"id" binding:"required,min=1"`
	Number       string           `json:"number" binding:"required"`
	SupplierName string           `json:"supplierName" binding:"required"`
	Date         time.Time        `json:"date" binding:"required"`
	Net          decimal.Decimal  `json:"net"`
	Tax          decimal.Decimal  `json:"tax"`
	Lines        []TaxLineRequest `json:"lines" binding:"omitempty,dive"`
}

// ToDomain converts the request.
func (r PurchaseInvoiceRequest) ToDomain() domain.PurchaseInvoice {
	return domain.PurchaseInvoice{
		ID:           r.ID,
		Number:       r.Number,
		SupplierName: r.SupplierName,
		Date:         r.Date,
		Net:          r.Net,
		Tax:          r.Tax,
		Lines:        toTaxLines(r.Lines),
	}
}

func toTaxLines(lines []TaxLineRequest) []domain.TaxLine {
	if len(lines) == 0 {
		return nil
	}
	out := make([]domain.TaxLine, len(lines))
	for i, l := range lines {
		out[i] = domain.TaxLine{Rate: l.Rate, Net: l.Net, Tax: l.Tax}
	}
	return out
}
