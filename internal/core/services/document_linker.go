package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/stitchadmin/stitchadmin/internal/apperrors"
	"github.com/stitchadmin/stitchadmin/internal/core/domain"
	portsrepo "github.com/stitchadmin/stitchadmin/internal/core/ports/repositories"
	portssvc "github.com/stitchadmin/stitchadmin/internal/core/ports/services"
)

// defaultInvoiceRate applies to orders without items, whose total is taken as gross.
var defaultInvoiceRate = decimal.NewFromInt(19)

const documentStatusOpen = "open"

// DocumentLinker creates the packing list, delivery note, post entry and invoice
// of an order as it moves through the workflow.
type DocumentLinker struct {
	BaseService
	numbering portssvc.NumberingSvc
	documents portsrepo.DocumentStore
	customers portsrepo.CustomerDirectory
}

// NewDocumentLinker creates a DocumentLinker.
func NewDocumentLinker(numbering portssvc.NumberingSvc, documents portsrepo.DocumentStore, customers portsrepo.CustomerDirectory) *DocumentLinker {
	return &DocumentLinker{numbering: numbering, documents: documents, customers: customers}
}

var _ portssvc.TransitionListener = (*DocumentLinker)(nil)

// OnTransition implements TransitionListener.
func (l *DocumentLinker) OnTransition(ctx context.Context, tx portsrepo.DBTX, evt *domain.TransitionEvent) error {
	switch evt.Event {
	case domain.EventStartPacking:
		return l.linkPackingList(ctx, tx, evt)
	case domain.EventMarkShipped:
		return l.linkDeliveryNote(ctx, tx, evt)
	case domain.EventIssueInvoice:
		return l.linkInvoice(ctx, tx, evt)
	}
	return nil
}

func (l *DocumentLinker) linkPackingList(ctx context.Context, tx portsrepo.DBTX, evt *domain.TransitionEvent) error {
	order := evt.Order
	if !order.AutoCreatePackingList || order.PackingListID != nil {
		return nil
	}
	number, err := l.numbering.NextInTx(ctx, tx, domain.DocPackingList, evt.Actor)
	if err != nil {
		return err
	}
	ref, err := l.documents.CreatePackingList(ctx, tx, domain.PackingList{
		Number:    number,
		OrderID:   order.ID,
		Status:    documentStatusOpen,
		CreatedAt: evt.At,
		CreatedBy: evt.Actor,
	})
	if err != nil {
		return err
	}
	order.PackingListID = &ref.ID
	l.LogInfo(ctx, "Packing list created", slog.Int64("order_id", order.ID), slog.String("number", ref.Number))
	return nil
}

func (l *DocumentLinker) linkDeliveryNote(ctx context.Context, tx portsrepo.DBTX, evt *domain.TransitionEvent) error {
	order := evt.Order
	if order.DeliveryNoteID != nil {
		return nil
	}

	dnNumber, err := l.numbering.NextInTx(ctx, tx, domain.DocDeliveryNote, evt.Actor)
	if err != nil {
		return err
	}
	dn, err := l.documents.CreateDeliveryNote(ctx, tx, domain.DeliveryNote{
		Number:        dnNumber,
		OrderID:       order.ID,
		PackingListID: order.PackingListID,
		Date:          domain.DateOnly(evt.At),
		Status:        documentStatusOpen,
		CreatedAt:     evt.At,
		CreatedBy:     evt.Actor,
	})
	if err != nil {
		return err
	}

	peNumber, err := l.numbering.NextInTx(ctx, tx, domain.DocPostEntry, evt.Actor)
	if err != nil {
		return err
	}
	if _, err := l.documents.CreatePostEntry(ctx, tx, domain.PostEntry{
		Number:         peNumber,
		OrderID:        order.ID,
		DeliveryNoteID: &dn.ID,
		Direction:      domain.PostOutbound,
		TrackingNumber: evt.Context.TrackingNumber,
		Status:         documentStatusOpen,
		CreatedAt:      evt.At,
		CreatedBy:      evt.Actor,
	}); err != nil {
		return err
	}

	order.DeliveryNoteID = &dn.ID
	l.LogInfo(ctx, "Delivery note created",
		slog.Int64("order_id", order.ID), slog.String("number", dn.Number), slog.String("post_entry", peNumber))
	return nil
}

func (l *DocumentLinker) linkInvoice(ctx context.Context, tx portsrepo.DBTX, evt *domain.TransitionEvent) error {
	order := evt.Order
	if order.InvoiceID != nil {
		return nil
	}

	snapshot, err := l.customers.FindCustomerSnapshot(ctx, tx, order.CustomerID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		l.LogInfo(ctx, "Customer not found, invoicing with id only", slog.String("customer_id", order.CustomerID))
		snapshot = &domain.CustomerSnapshot{CustomerID: order.CustomerID}
	}

	lines, net, tax, gross := BuildInvoiceLines(*order)
	if !gross.IsPositive() {
		return apperrors.NewPreconditionError(string(domain.EventIssueInvoice), "order has nothing to invoice")
	}

	number, err := l.numbering.NextInTx(ctx, tx, domain.DocInvoice, evt.Actor)
	if err != nil {
		return err
	}
	method := order.PaymentMethod
	if method == nil {
		method = order.DepositMethod
	}
	ref, err := l.documents.CreateInvoice(ctx, tx, domain.Invoice{
		Number:        number,
		OrderID:       order.ID,
		Customer:      *snapshot,
		Date:          domain.DateOnly(evt.At),
		Net:           net,
		Tax:           tax,
		Gross:         gross,
		Lines:         lines,
		PaymentMethod: method,
		Status:        domain.InvoiceStatusOpen,
		CreatedAt:     evt.At,
		CreatedBy:     evt.Actor,
	})
	if err != nil {
		return err
	}

	order.InvoiceID = &ref.ID
	l.LogInfo(ctx, "Invoice created",
		slog.Int64("order_id", order.ID), slog.String("number", ref.Number), slog.String("gross", domain.FormatMoney(gross)))
	return nil
}

// BuildInvoiceLines groups the order items by tax rate, highest rate first.
// Tax is rounded per rate. Without items the total price is split as gross at 19%.
func BuildInvoiceLines(o domain.Order) (lines []domain.TaxLine, net, tax, gross decimal.Decimal) {
	if len(o.Items) == 0 {
		gross = domain.RoundMoney(o.TotalPrice)
		if !gross.IsPositive() {
			return nil, decimal.Zero, decimal.Zero, decimal.Zero
		}
		net = domain.RoundMoney(gross.Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(100).Add(defaultInvoiceRate)))
		tax = gross.Sub(net)
		return []domain.TaxLine{{Rate: defaultInvoiceRate, Net: net, Tax: tax}}, net, tax, gross
	}

	byRate := make(map[string]*domain.TaxLine)
	for _, it := range o.Items {
		key := it.TaxRate.StringFixed(2)
		line, ok := byRate[key]
		if !ok {
			line = &domain.TaxLine{Rate: it.TaxRate, Net: decimal.Zero}
			byRate[key] = line
		}
		line.Net = line.Net.Add(it.NetTotal())
	}

	net, tax = decimal.Zero, decimal.Zero
	for _, line := range byRate {
		line.Tax = domain.RoundMoney(line.Net.Mul(line.Rate).Div(decimal.NewFromInt(100)))
		lines = append(lines, *line)
		net = net.Add(line.Net)
		tax = tax.Add(line.Tax)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Rate.GreaterThan(lines[j].Rate) })
	return lines, net, tax, net.Add(tax)
}

// invoiceFor loads the invoice linked to the order of evt.
func invoiceFor(ctx context.Context, tx portsrepo.DBTX, documents portsrepo.DocumentStore, evt *domain.TransitionEvent) (*domain.Invoice, error) {
	if evt.Order.InvoiceID == nil {
		return nil, fmt.Errorf("%w: order %d has no invoice", apperrors.ErrInternal, evt.OrderID)
	}
	return documents.FindInvoiceByID(ctx, tx, *evt.Order.InvoiceID)
}
