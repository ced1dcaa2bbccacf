package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/stitchadmin/stitchadmin/internal/core/domain"
	"github.com/stitchadmin/stitchadmin/internal/models"
)

// ToModelInvoice converts a domain Invoice, encoding snapshot and tax lines as JSON.
func ToModelInvoice(d domain.Invoice) (models.Invoice, error) {
	snapshot, err := json.Marshal(d.Customer)
	if err != nil {
		return models.Invoice{}, fmt.Errorf("failed to encode customer snapshot: %w", err)
	}
	lines := d.Lines
	if lines == nil {
		lines = []domain.TaxLine{}
	}
	taxLines, err := json.Marshal(lines)
	if err != nil {
		return models.Invoice{}, fmt.Errorf("failed to encode tax lines: %w", err)
	}
	return models.Invoice{
		ID:               d.ID,
		InvoiceNumber:    d.Number,
		OrderID:          d.OrderID,
		CustomerSnapshot: snapshot,
		InvoiceDate:      d.Date,
		Net:              d.Net,
		Tax:              d.Tax,
		Gross:            d.Gross,
		TaxLines:         taxLines,
		PaymentMethod:    methodString(d.PaymentMethod),
		Status:           d.Status,
		CreatedAt:        d.CreatedAt,
		CreatedBy:        d.CreatedBy,
	}, nil
}

// ToDomainInvoice converts a model Invoice.
func ToDomainInvoice(m models.Invoice) (domain.Invoice, error) {
	d := domain.Invoice{
		ID:        m.ID,
		Number:    m.InvoiceNumber,
		OrderID:   m.OrderID,
		Date:      m.InvoiceDate,
		Net:       m.Net,
		Tax:       m.Tax,
		Gross:     m.Gross,
		Status:    m.Status,
		CreatedAt: m.CreatedAt,
		CreatedBy: m.CreatedBy,
	}
	if len(m.CustomerSnapshot) > 0 {
		if err := json.Unmarshal(m.CustomerSnapshot, &d.Customer); err != nil {
			return domain.Invoice{}, fmt.Errorf("failed to decode customer snapshot of invoice %d: %w", m.ID, err)
		}
	}
	if len(m.TaxLines) > 0 {
		if err := json.Unmarshal(m.TaxLines, &d.Lines); err != nil {
			return domain.Invoice{}, fmt.Errorf("failed to decode tax lines of invoice %d: %w", m.ID, err)
		}
	}
	method, err := parseMethodPtr(m.PaymentMethod)
	if err != nil {
		return domain.Invoice{}, err
	}
	d.PaymentMethod = method
	return d, nil
}
