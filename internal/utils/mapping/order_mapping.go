package mapping

import (
	"github.com/stitchadmin/stitchadmin/internal/core/domain"
	"github.com/stitchadmin/stitchadmin/internal/models"
)

// ToModelOrder converts a domain Order to a model Order. Items are mapped separately.
func ToModelOrder(d domain.Order) models.Order {
	return models.Order{
		ID:                      d.ID,
		OrderNumber:             d.OrderNumber,
		CustomerID:              d.CustomerID,
		Description:             nonEmpty(d.Description),
		TotalPrice:              d.TotalPrice,
		DepositAmount:           d.DepositAmount,
		DepositPaidAt:           d.DepositPaidAt,
		DepositMethod:           methodString(d.DepositMethod),
		DepositTxnID:            d.DepositTxnID,
		PaymentStatus:           string(d.PaymentStatus),
		PaymentMethod:           methodString(d.PaymentMethod),
		PaymentTxnID:            d.PaymentTxnID,
		PaidAt:                  d.PaidAt,
		IsOffer:                 d.IsOffer,
		OfferValidUntil:         d.OfferValidUntil,
		OfferSentAt:             d.OfferSentAt,
		OfferAcceptedAt:         d.OfferAcceptedAt,
		OfferRejectedAt:         d.OfferRejectedAt,
		OfferRejectionReason:    d.OfferRejectionReason,
		HasDesignFile:           d.HasDesignFile,
		DesignStatus:            string(d.DesignStatus),
		DesignApprovalStatus:    string(d.DesignApprovalStatus),
		DesignApprovalTokenHash: d.DesignApprovalTokenHash,
		DesignApprovalSentAt:    d.DesignApprovalSentAt,
		DesignApprovalDate:      d.DesignApprovalDate,
		DesignApprovalSignature: d.DesignApprovalSignature,
		DesignApprovalIP:        d.DesignApprovalIP,
		DesignApprovalUserAgent: d.DesignApprovalUserAgent,
		DesignApprovalNotes:     d.DesignApprovalNotes,
		WorkflowStatus:          string(d.WorkflowStatus),
		DeliveryType:            string(d.DeliveryType),
		PickupConfirmedAt:       d.PickupConfirmedAt,
		PickupSignature:         d.PickupSignature,
		PickupName:              d.PickupName,
		CancelledAt:             d.CancelledAt,
		CancelReason:            d.CancelReason,
		ArchivedAt:              d.ArchivedAt,
		ArchivedBy:              d.ArchivedBy,
		ArchiveReason:           d.ArchiveReason,
		AutoCreatePackingList:   d.AutoCreatePackingList,
		InvoiceID:               d.InvoiceID,
		PackingListID:           d.PackingListID,
		DeliveryNoteID:          d.DeliveryNoteID,
		AuditFields:             ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainOrder converts a model Order and its item rows to a domain Order.
// Unknown enum values in the row are reported as errors.
func ToDomainOrder(m models.Order, items []models.OrderItem) (domain.Order, error) {
	status, err := domain.ParseWorkflowStatus(m.WorkflowStatus)
	if err != nil {
		return domain.Order{}, err
	}
	payment, err := domain.ParsePaymentStatus(m.PaymentStatus)
	if err != nil {
		return domain.Order{}, err
	}
	design, err := domain.ParseDesignStatus(m.DesignStatus)
	if err != nil {
		return domain.Order{}, err
	}
	approval, err := domain.ParseDesignApprovalStatus(m.DesignApprovalStatus)
	if err != nil {
		return domain.Order{}, err
	}
	delivery, err := domain.ParseDeliveryType(m.DeliveryType)
	if err != nil {
		return domain.Order{}, err
	}
	depositMethod, err := parseMethodPtr(m.DepositMethod)
	if err != nil {
		return domain.Order{}, err
	}
	paymentMethod, err := parseMethodPtr(m.PaymentMethod)
	if err != nil {
		return domain.Order{}, err
	}

	o := domain.Order{
		ID:                      m.ID,
		OrderNumber:             m.OrderNumber,
		CustomerID:              m.CustomerID,
		TotalPrice:              m.TotalPrice,
		DepositAmount:           m.DepositAmount,
		DepositPaidAt:           m.DepositPaidAt,
		DepositMethod:           depositMethod,
		DepositTxnID:            m.DepositTxnID,
		PaymentStatus:           payment,
		PaymentMethod:           paymentMethod,
		PaymentTxnID:            m.PaymentTxnID,
		PaidAt:                  m.PaidAt,
		IsOffer:                 m.IsOffer,
		OfferValidUntil:         m.OfferValidUntil,
		OfferSentAt:             m.OfferSentAt,
		OfferAcceptedAt:         m.OfferAcceptedAt,
		OfferRejectedAt:         m.OfferRejectedAt,
		OfferRejectionReason:    m.OfferRejectionReason,
		HasDesignFile:           m.HasDesignFile,
		DesignStatus:            design,
		DesignApprovalStatus:    approval,
		DesignApprovalTokenHash: m.DesignApprovalTokenHash,
		DesignApprovalSentAt:    m.DesignApprovalSentAt,
		DesignApprovalDate:      m.DesignApprovalDate,
		DesignApprovalSignature: m.DesignApprovalSignature,
		DesignApprovalIP:        m.DesignApprovalIP,
		DesignApprovalUserAgent: m.DesignApprovalUserAgent,
		DesignApprovalNotes:     m.DesignApprovalNotes,
		WorkflowStatus:          status,
		DeliveryType:            delivery,
		PickupConfirmedAt:       m.PickupConfirmedAt,
		PickupSignature:         m.PickupSignature,
		PickupName:              m.PickupName,
		CancelledAt:             m.CancelledAt,
		CancelReason:            m.CancelReason,
		ArchivedAt:              m.ArchivedAt,
		ArchivedBy:              m.ArchivedBy,
		ArchiveReason:           m.ArchiveReason,
		AutoCreatePackingList:   m.AutoCreatePackingList,
		InvoiceID:               m.InvoiceID,
		PackingListID:           m.PackingListID,
		DeliveryNoteID:          m.DeliveryNoteID,
		AuditFields:             ToDomainAuditFields(m.AuditFields),
	}
	if m.Description != nil {
		o.Description = *m.Description
	}
	if len(items) > 0 {
		o.Items = make([]domain.OrderItem, len(items))
		for i, it := range items {
			o.Items[i] = ToDomainOrderItem(it)
		}
	}
	return o, nil
}

// ToDomainOrderItem converts an order item row.
func ToDomainOrderItem(m models.OrderItem) domain.OrderItem {
	it := domain.OrderItem{
		ID:          m.ID,
		Position:    m.Position,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		TaxRate:     m.TaxRate,
	}
	if m.ArticleID != nil {
		it.ArticleID = *m.ArticleID
	}
	return it
}

// ToDomainStatusHistory converts a history row.
func ToDomainStatusHistory(m models.OrderStatusHistory) (domain.OrderStatusHistory, error) {
	from, err := domain.ParseWorkflowStatus(m.FromStatus)
	if err != nil {
		return domain.OrderStatusHistory{}, err
	}
	to, err := domain.ParseWorkflowStatus(m.ToStatus)
	if err != nil {
		return domain.OrderStatusHistory{}, err
	}
	h := domain.OrderStatusHistory{
		ID:         m.ID,
		OrderID:    m.OrderID,
		FromStatus: from,
		ToStatus:   to,
		Event:      domain.WorkflowEvent(m.Event),
		ChangedAt:  m.ChangedAt,
		ChangedBy:  m.ChangedBy,
	}
	if m.Comment != nil {
		h.Comment = *m.Comment
	}
	return h, nil
}

func methodString(m *domain.PaymentMethod) *string {
	if m == nil {
		return nil
	}
	s := string(*m)
	return &s
}

func parseMethodPtr(s *string) (*domain.PaymentMethod, error) {
	if s == nil {
		return nil, nil
	}
	m, err := domain.ParsePaymentMethod(*s)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
