package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stitchadmin/stitchadmin/internal/apperrors"
	"github.com/stitchadmin/stitchadmin/internal/core/domain"
	"github.com/stitchadmin/stitchadmin/internal/core/postingrules"
	portsrepo "github.com/stitchadmin/stitchadmin/internal/core/ports/repositories"
	portssvc "github.com/stitchadmin/stitchadmin/internal/core/ports/services"
)

// Fingerprint events.
const (
	bookingEventInvoiceIssued = "invoice_issued"
	bookingEventDeposit       = "deposit"
	bookingEventFullPayment   = "full_payment"
	bookingEventFinalPayment  = "final_payment"
	bookingEventSaleReceipt   = "sale_receipt"
	bookingEventPurchase      = "purchase_invoice"
)

// BookingFingerprint is the hex SHA-256 of source_kind|source_id|event|amount|date.
func BookingFingerprint(sourceKind string, sourceID int64, event string, amount decimal.Decimal, date time.Time) string {
	key := strings.Join([]string{
		sourceKind,
		strconv.FormatInt(sourceID, 10),
		event,
		domain.FormatMoney(amount),
		date.Format(time.DateOnly),
	}, "|")
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// booker posts drafts at most once per fingerprint.
type booker struct {
	BaseService
	ledger       portssvc.LedgerWriterSvc
	fingerprints portsrepo.BookingFingerprintRepository
}

// book claims the fingerprint and posts the drafts. It reports false when the
// event had already been booked.
func (b *booker) book(ctx context.Context, tx portsrepo.DBTX, sourceKind string, sourceID int64, event string,
	amount decimal.Decimal, date time.Time, drafts []domain.PostingDraft) ([]int64, bool, error) {
	fp := BookingFingerprint(sourceKind, sourceID, event, amount, date)
	claimed, err := b.fingerprints.ClaimFingerprint(ctx, tx, domain.BookingFingerprint{
		Fingerprint: fp,
		SourceKind:  sourceKind,
		SourceID:    sourceID,
		Event:       event,
		CreatedAt:   b.Now(),
	})
	if err != nil {
		return nil, false, err
	}
	if !claimed {
		b.LogInfo(ctx, "Business event already booked",
			slog.String("source_kind", sourceKind), slog.Int64("source_id", sourceID), slog.String("event", event))
		return nil, false, nil
	}
	ids, err := b.ledger.PostInTx(ctx, tx, drafts)
	if err != nil {
		return nil, false, err
	}
	return ids, true, nil
}

// BookingBridge turns order transitions into ledger postings.
type BookingBridge struct {
	booker
	accounts  portssvc.PaymentMappingSvc
	postings  portsrepo.PostingReader
	documents portsrepo.DocumentStore
	rules     *postingrules.Rules
}

// NewBookingBridge creates a BookingBridge.
func NewBookingBridge(
	ledger portssvc.LedgerWriterSvc,
	accounts portssvc.PaymentMappingSvc,
	postings portsrepo.PostingReader,
	fingerprints portsrepo.BookingFingerprintRepository,
	documents portsrepo.DocumentStore,
	rules *postingrules.Rules,
	clock domain.Clock,
) *BookingBridge {
	return &BookingBridge{
		booker: booker{
			BaseService:  BaseService{Clock: clock},
			ledger:       ledger,
			fingerprints: fingerprints,
		},
		accounts:  accounts,
		postings:  postings,
		documents: documents,
		rules:     rules,
	}
}

var _ portssvc.TransitionListener = (*BookingBridge)(nil)

// OnTransition implements TransitionListener.
func (b *BookingBridge) OnTransition(ctx context.Context, tx portsrepo.DBTX, evt *domain.TransitionEvent) error {
	switch evt.Event {
	case domain.EventIssueInvoice:
		return b.onInvoiceIssued(ctx, tx, evt)
	case domain.EventRecordDeposit:
		if evt.Order.InvoiceID == nil {
			return nil
		}
		return b.onDeposit(ctx, tx, evt)
	case domain.EventRecordFinalPayment:
		if evt.Order.InvoiceID == nil {
			return nil
		}
		return b.onFinalPayment(ctx, tx, evt)
	case domain.EventCancel:
		if evt.Order.InvoiceID == nil {
			return nil
		}
		return b.onCancel(ctx, tx, evt)
	}
	return nil
}

func (b *BookingBridge) onInvoiceIssued(ctx context.Context, tx portsrepo.DBTX, evt *domain.TransitionEvent) error {
	inv, err := invoiceFor(ctx, tx, b.documents, evt)
	if err != nil {
		return err
	}
	drafts, err := b.rules.InvoiceIssued(*inv, evt.Actor)
	if err != nil {
		return err
	}
	if _, _, err := b.book(ctx, tx, domain.SourceInvoice, inv.ID, bookingEventInvoiceIssued, inv.Gross, inv.Date, drafts); err != nil {
		return err
	}

	order := evt.Order
	switch {
	case order.PaymentStatus == domain.PaymentStatusPaid && order.PaidAt != nil:
		if err := b.bookPayment(ctx, tx, inv, bookingEventFullPayment, inv.Gross, paymentMethodOf(order.PaymentMethod), *order.PaidAt, evt.Actor); err != nil {
			return err
		}
		return b.documents.SetInvoiceStatus(ctx, tx, inv.ID, domain.InvoiceStatusPaid)
	case order.PaymentStatus == domain.PaymentStatusDepositPaid && order.DepositPaidAt != nil && order.DepositAmount.IsPositive():
		if err := depositWithinGross(order.DepositAmount, inv); err != nil {
			return err
		}
		return b.bookPayment(ctx, tx, inv, bookingEventDeposit, order.DepositAmount, paymentMethodOf(order.DepositMethod), *order.DepositPaidAt, evt.Actor)
	}
	return nil
}

func (b *BookingBridge) onDeposit(ctx context.Context, tx portsrepo.DBTX, evt *domain.TransitionEvent) error {
	inv, err := invoiceFor(ctx, tx, b.documents, evt)
	if err != nil {
		return err
	}
	order := evt.Order
	if err := depositWithinGross(order.DepositAmount, inv); err != nil {
		return err
	}
	return b.bookPayment(ctx, tx, inv, bookingEventDeposit, order.DepositAmount, paymentMethodOf(order.DepositMethod), *order.DepositPaidAt, evt.Actor)
}

func (b *BookingBridge) onFinalPayment(ctx context.Context, tx portsrepo.DBTX, evt *domain.TransitionEvent) error {
	inv, err := invoiceFor(ctx, tx, b.documents, evt)
	if err != nil {
		return err
	}
	booked, err := b.bookedPayments(ctx, tx, inv.ID)
	if err != nil {
		return err
	}
	remaining := inv.Gross.Sub(booked)
	if remaining.IsPositive() {
		order := evt.Order
		if err := b.bookPayment(ctx, tx, inv, bookingEventFinalPayment, remaining, paymentMethodOf(order.PaymentMethod), *order.PaidAt, evt.Actor); err != nil {
			return err
		}
	} else {
		b.LogInfo(ctx, "Invoice already settled, no final payment booked", slog.Int64("invoice_id", inv.ID))
	}
	return b.documents.SetInvoiceStatus(ctx, tx, inv.ID, domain.InvoiceStatusPaid)
}

func (b *BookingBridge) onCancel(ctx context.Context, tx portsrepo.DBTX, evt *domain.TransitionEvent) error {
	invoiceID := *evt.Order.InvoiceID
	postings, err := b.postings.ListPostingsBySource(ctx, tx, domain.SourceInvoice, invoiceID)
	if err != nil {
		return err
	}

	reason := "Order cancelled"
	if evt.Context.Reason != "" {
		reason += ": " + evt.Context.Reason
	}
	refunded := false
	reversed := 0
	for _, p := range postings {
		if p.Reversed || p.IsCounterPosting() {
			continue
		}
		if _, err := b.ledger.ReverseInTx(ctx, tx, p.ID, reason, evt.Actor); err != nil {
			return err
		}
		reversed++
		if p.Kind == domain.PostingPayment {
			refunded = true
		}
	}
	if refunded {
		evt.Order.PaymentStatus = domain.PaymentStatusRefunded
	}
	if err := b.documents.SetInvoiceStatus(ctx, tx, invoiceID, domain.InvoiceStatusCancelled); err != nil {
		return err
	}
	b.LogInfo(ctx, "Invoice postings reversed",
		slog.Int64("invoice_id", invoiceID), slog.Int("count", reversed), slog.Bool("refunded", refunded))
	return nil
}

func (b *BookingBridge) bookPayment(ctx context.Context, tx portsrepo.DBTX, inv *domain.Invoice, event string,
	amount decimal.Decimal, method domain.PaymentMethod, date time.Time, actor string) error {
	account, err := b.accounts.AccountForPaymentMethod(ctx, method)
	if err != nil {
		return err
	}
	drafts, err := b.rules.InvoicePayment(*inv, amount, account, date, actor)
	if err != nil {
		return err
	}
	_, _, err = b.book(ctx, tx, domain.SourceInvoice, inv.ID, event, amount, domain.DateOnly(date), drafts)
	return err
}

// depositWithinGross keeps a deposit from settling more than the invoice it is booked against.
func depositWithinGross(amount decimal.Decimal, inv *domain.Invoice) error {
	if amount.GreaterThan(inv.Gross) {
		return fmt.Errorf("%w: deposit %s exceeds invoice %s gross %s",
			apperrors.ErrValidation, domain.FormatMoney(amount), inv.Number, domain.FormatMoney(inv.Gross))
	}
	return nil
}

// bookedPayments sums the live payment postings of an invoice.
func (b *BookingBridge) bookedPayments(ctx context.Context, tx portsrepo.DBTX, invoiceID int64) (decimal.Decimal, error) {
	postings, err := b.postings.ListPostingsBySource(ctx, tx, domain.SourceInvoice, invoiceID)
	if err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, p := range postings {
		if p.Kind == domain.PostingPayment && !p.Reversed {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, nil
}

// paymentMethodOf falls back to a bank transfer when no method was recorded.
func paymentMethodOf(m *domain.PaymentMethod) domain.PaymentMethod {
	if m == nil {
		return domain.PaymentTransfer
	}
	return *m
}

// bookingService implements the BookingSvc interface
type bookingService struct {
	booker
	txManager portsrepo.TransactionManager
	accounts  portssvc.PaymentMappingSvc
	postings  portsrepo.PostingReader
	rules     *postingrules.Rules
}

// NewBookingService creates the entry point for receipts and supplier invoices.
func NewBookingService(
	txManager portsrepo.TransactionManager,
	ledger portssvc.LedgerWriterSvc,
	accounts portssvc.PaymentMappingSvc,
	postings portsrepo.PostingReader,
	fingerprints portsrepo.BookingFingerprintRepository,
	rules *postingrules.Rules,
	clock domain.Clock,
) portssvc.BookingSvc {
	return &bookingService{
		booker: booker{
			BaseService:  BaseService{Clock: clock},
			ledger:       ledger,
			fingerprints: fingerprints,
		},
		txManager: txManager,
		accounts:  accounts,
		postings:  postings,
		rules:     rules,
	}
}

// Ensure bookingService implements the BookingSvc interface
var _ portssvc.BookingSvc = (*bookingService)(nil)

func (s *bookingService) BookSaleReceipt(ctx context.Context, receipt domain.SaleReceipt, actor string) ([]int64, error) {
	if _, err := domain.ParsePaymentMethod(string(receipt.Method)); err != nil {
		return nil, err
	}
	account, err := s.accounts.AccountForPaymentMethod(ctx, receipt.Method)
	if err != nil {
		return nil, err
	}
	drafts, err := s.rules.SaleReceipt(receipt, account, actor)
	if err != nil {
		return nil, err
	}
	gross := receipt.Net.Add(receipt.Tax)
	return s.bookDocument(ctx, domain.SourceSaleReceipt, receipt.ID, bookingEventSaleReceipt, gross, receipt.Date, drafts)
}

func (s *bookingService) BookPurchaseInvoice(ctx context.Context, invoice domain.PurchaseInvoice, actor string) ([]int64, error) {
	drafts, err := s.rules.PurchaseInvoice(invoice, actor)
	if err != nil {
		return nil, err
	}
	gross := invoice.Net.Add(invoice.Tax)
	return s.bookDocument(ctx, domain.SourcePurchaseInvoice, invoice.ID, bookingEventPurchase, gross, invoice.Date, drafts)
}

// bookDocument posts the drafts once. A replay returns the ids booked the first time.
func (s *bookingService) bookDocument(ctx context.Context, sourceKind string, sourceID int64, event string,
	gross decimal.Decimal, date time.Time, drafts []domain.PostingDraft) ([]int64, error) {
	if sourceID <= 0 {
		return nil, fmt.Errorf("%w: document id is required", apperrors.ErrValidation)
	}
	var ids []int64
	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.DBTX) error {
		posted, fresh, err := s.book(ctx, tx, sourceKind, sourceID, event, gross, domain.DateOnly(date), drafts)
		if err != nil {
			return err
		}
		if fresh {
			ids = posted
			return nil
		}
		existing, err := s.postings.ListPostingsBySource(ctx, tx, sourceKind, sourceID)
		if err != nil {
			return err
		}
		for _, p := range existing {
			if !p.IsCounterPosting() {
				ids = append(ids, p.ID)
			}
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to book document",
			slog.String("source_kind", sourceKind), slog.Int64("source_id", sourceID))
		return nil, err
	}
	s.LogInfo(ctx, "Document booked",
		slog.String("source_kind", sourceKind), slog.Int64("source_id", sourceID), slog.Int("postings", len(ids)))
	return ids, nil
}
