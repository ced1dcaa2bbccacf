package services_test

import (
	"testing"
	"time"

	"github.com/stitchadmin/stitchadmin/internal/apperrors"
	"github.com/stitchadmin/stitchadmin/internal/core/domain"
	"github.com/stitchadmin/stitchadmin/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type BookingServiceTestSuite struct {
	coreSuite
}

func TestBookingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BookingServiceTestSuite))
}

func cashReceipt() domain.SaleReceipt {
	return domain.SaleReceipt{
		ID:        1,
		ReceiptNo: "KAS-20250115-0001",
		Date:      day(2025, time.January, 15),
		Net:       dec("100.00"),
		Tax:       dec("19.00"),
		Method:    domain.PaymentCash,
	}
}

func (s *BookingServiceTestSuite) TestBookSaleReceipt_CashSale() {
	ids, err := s.svc.Booking.BookSaleReceipt(s.ctx, cashReceipt(), "kasse")
	s.Require().NoError(err)
	s.Len(ids, 2)

	postings, err := s.svc.Ledger.ListBySource(s.ctx, domain.SourceSaleReceipt, 1)
	s.Require().NoError(err)
	s.Equal([]postingLine{
		{"1000", "8400", "100.00", domain.PostingSale},
		{"1000", "1776", "19.00", domain.PostingTax},
	}, lines(postings))
	s.Equal("KAS-20250115-0001", postings[0].DocRef)
	s.Equal("19.00", domain.FormatMoney(postings[0].TaxAmount))

	s.Equal("119.00", s.balance("1000"))
	s.Equal("100.00", s.balance("8400"))
	s.Equal("19.00", s.balance("1776"))
}

func (s *BookingServiceTestSuite) TestBookSaleReceipt_ReplayPostsNothing() {
	first, err := s.svc.Booking.BookSaleReceipt(s.ctx, cashReceipt(), "kasse")
	s.Require().NoError(err)

	second, err := s.svc.Booking.BookSaleReceipt(s.ctx, cashReceipt(), "kasse")
	s.Require().NoError(err)

	s.Equal(first, second)
	s.Len(s.store.snapshotPostings(), 2)
	s.Len(s.store.fingerprints, 1)
	s.Equal("119.00", s.balance("1000"))
}

func (s *BookingServiceTestSuite) TestBookSaleReceipt_UsesPaymentMapping() {
	s.Require().NoError(s.svc.Account.SetPaymentMapping(s.ctx, domain.PaymentSumUp, "1360", "SumUp clearing", "anna"))

	rc := cashReceipt()
	rc.Method = domain.PaymentSumUp
	_, err := s.svc.Booking.BookSaleReceipt(s.ctx, rc, "kasse")
	s.Require().NoError(err)

	s.Equal("119.00", s.balance("1360"))
	s.Equal("0.00", s.balance("1000"))
}

func (s *BookingServiceTestSuite) TestBookSaleReceipt_MixedRates() {
	rc := cashReceipt()
	rc.Method = domain.PaymentCard
	rc.Net, rc.Tax = dec("70.00"), dec("10.90")
	rc.Lines = []domain.TaxLine{
		{Rate: dec("19"), Net: dec("50.00"), Tax: dec("9.50")},
		{Rate: dec("7"), Net: dec("20.00"), Tax: dec("1.40")},
	}

	_, err := s.svc.Booking.BookSaleReceipt(s.ctx, rc, "kasse")
	s.Require().NoError(err)

	s.Equal([]postingLine{
		{"1200", "8400", "50.00", domain.PostingSale},
		{"1200", "1776", "9.50", domain.PostingTax},
		{"1200", "8300", "20.00", domain.PostingSale},
		{"1200", "1771", "1.40", domain.PostingTax},
	}, lines(s.store.snapshotPostings()))
}

func (s *BookingServiceTestSuite) TestBookSaleReceipt_Rejects() {
	rc := cashReceipt()
	rc.Method = "PAYPAL"
	_, err := s.svc.Booking.BookSaleReceipt(s.ctx, rc, "kasse")
	s.ErrorIs(err, apperrors.ErrValidation)

	rc = cashReceipt()
	rc.ID = 0
	_, err = s.svc.Booking.BookSaleReceipt(s.ctx, rc, "kasse")
	s.ErrorIs(err, apperrors.ErrValidation)

	rc = cashReceipt()
	rc.Net, rc.Tax = dec("0"), dec("0")
	_, err = s.svc.Booking.BookSaleReceipt(s.ctx, rc, "kasse")
	s.ErrorIs(err, apperrors.ErrValidation)

	s.Empty(s.store.snapshotPostings())
	s.Empty(s.store.fingerprints)
}

func (s *BookingServiceTestSuite) TestBookPurchaseInvoice() {
	pi := domain.PurchaseInvoice{
		ID:           3,
		Number:       "ER-2025-0007",
		SupplierName: "Garnhandel Meyer",
		Date:         day(2025, time.January, 14),
		Net:          dec("200.00"),
		Tax:          dec("38.00"),
	}

	ids, err := s.svc.Booking.BookPurchaseInvoice(s.ctx, pi, "anna")
	s.Require().NoError(err)
	s.Len(ids, 2)

	postings, err := s.svc.Ledger.ListBySource(s.ctx, domain.SourcePurchaseInvoice, 3)
	s.Require().NoError(err)
	s.Equal([]postingLine{
		{"3400", "1600", "200.00", domain.PostingPurchase},
		{"1576", "1600", "38.00", domain.PostingTax},
	}, lines(postings))
	s.Equal("Purchase invoice Garnhandel Meyer", postings[0].Text)
	s.Equal("238.00", s.balance("1600"))

	replay, err := s.svc.Booking.BookPurchaseInvoice(s.ctx, pi, "anna")
	s.Require().NoError(err)
	s.Equal(ids, replay)
	s.Len(s.store.snapshotPostings(), 2)
}

func TestBookingFingerprint(t *testing.T) {
	date := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	fp := services.BookingFingerprint(domain.SourceInvoice, 7, "deposit", dec("50"), date)

	assert.Len(t, fp, 64)
	assert.Equal(t, fp, services.BookingFingerprint(domain.SourceInvoice, 7, "deposit", dec("50.00"), date))
	assert.NotEqual(t, fp, services.BookingFingerprint(domain.SourceInvoice, 7, "deposit", dec("50.01"), date))
	assert.NotEqual(t, fp, services.BookingFingerprint(domain.SourceInvoice, 8, "deposit", dec("50"), date))
	assert.NotEqual(t, fp, services.BookingFingerprint(domain.SourceInvoice, 7, "final_payment", dec("50"), date))
	assert.NotEqual(t, fp, services.BookingFingerprint(domain.SourceInvoice, 7, "deposit", dec("50"), date.AddDate(0, 0, 1)))
}
