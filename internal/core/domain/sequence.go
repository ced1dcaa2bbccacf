package domain

import (
	"fmt"
	"strings"
	"time"
)

// DocumentType names a number sequence.
type DocumentType string

const (
	DocOrder         DocumentType = "order"
	DocOffer         DocumentType = "offer"
	DocInvoice       DocumentType = "invoice"
	DocCashReceipt   DocumentType = "cash_receipt"
	DocPackingList   DocumentType = "packing_list"
	DocDeliveryNote  DocumentType = "delivery_note"
	DocDesign        DocumentType = "design"
	DocDesignOrder   DocumentType = "design_order"
	DocPostEntry     DocumentType = "post_entry"
	DocShippingBulk  DocumentType = "shipping_bulk"
	DocSupplierOrder DocumentType = "supplier_order"
	DocCreditNote    DocumentType = "credit_note"
)

// ParseDocumentType parses a document type name.
func ParseDocumentType(s string) (DocumentType, error) {
	return parseEnum("document type", s,
		DocOrder, DocOffer, DocInvoice, DocCashReceipt, DocPackingList, DocDeliveryNote,
		DocDesign, DocDesignOrder, DocPostEntry, DocShippingBulk, DocSupplierOrder, DocCreditNote)
}

// DocumentNumberSequence is the counter behind one document type.
type DocumentNumberSequence struct {
	DocType       DocumentType `json:"docType"`
	Prefix        string       `json:"prefix"`
	Separator     string       `json:"separator"`
	IncludeYear   bool         `json:"includeYear"`
	IncludeMonth  bool         `json:"includeMonth"`
	NumberLength  int          `json:"numberLength"`
	ResetYearly   bool         `json:"resetYearly"`
	ResetMonthly  bool         `json:"resetMonthly"`
	CurrentYear   int          `json:"currentYear"`
	CurrentMonth  int          `json:"currentMonth"`
	CurrentNumber int64        `json:"currentNumber"`
}

// Advance moves the counter to the next number for the period containing now and
// returns the formatted number. The caller must hold the sequence lock.
func (s *DocumentNumberSequence) Advance(now time.Time) string {
	year, month := now.Year(), int(now.Month())

	switch {
	case s.ResetMonthly && (s.CurrentYear != year || s.CurrentMonth != month):
		s.CurrentNumber = 0
	case s.ResetYearly && s.CurrentYear != year:
		s.CurrentNumber = 0
	}

	s.CurrentYear = year
	s.CurrentMonth = month
	s.CurrentNumber++

	return s.Format(year, month, s.CurrentNumber)
}

// Format renders <prefix><sep><YYYY>[<MM>]<sep><counter> without touching the counter.
func (s DocumentNumberSequence) Format(year, month int, counter int64) string {
	var b strings.Builder
	b.WriteString(s.Prefix)
	b.WriteString(s.Separator)
	if s.IncludeYear {
		fmt.Fprintf(&b, "%04d", year)
		if s.IncludeMonth {
			fmt.Fprintf(&b, "%02d", month)
		}
		b.WriteString(s.Separator)
	}
	width := s.NumberLength
	if width < 1 {
		width = 1
	}
	fmt.Fprintf(&b, "%0*d", width, counter)
	return b.String()
}

// IssuedNumber is one entry of the number log. Numbers are never reused, a
// cancelled number stays in the log with its reason.
type IssuedNumber struct {
	DocType      DocumentType `json:"docType"`
	Number       string       `json:"number"`
	IssuedAt     time.Time    `json:"issuedAt"`
	IssuedBy     string       `json:"issuedBy"`
	Cancelled    bool         `json:"cancelled"`
	CancelledAt  *time.Time   `json:"cancelledAt,omitempty"`
	CancelledBy  *string      `json:"cancelledBy,omitempty"`
	CancelReason *string      `json:"cancelReason,omitempty"`
}
