package mapping

import (
	"github.com/stitchadmin/stitchadmin/internal/core/domain"
	"github.com/stitchadmin/stitchadmin/internal/models"
)

// ToDomainPosting converts a model Posting to a domain Posting
func ToDomainPosting(m models.Posting) (domain.Posting, error) {
	kind, err := domain.ParsePostingKind(m.Kind)
	if err != nil {
		return domain.Posting{}, err
	}
	return domain.Posting{
		ID:             m.ID,
		Date:           m.PostingDate,
		DocRef:         m.DocRef,
		DebitAccount:   m.DebitAccount,
		CreditAccount:  m.CreditAccount,
		Amount:         m.Amount,
		TaxAmount:      m.TaxAmount,
		Text:           m.Text,
		Kind:           kind,
		SourceKind:     m.SourceKind,
		SourceID:       m.SourceID,
		CostCenter:     m.CostCenter,
		CreatedAt:      m.CreatedAt,
		CreatedBy:      m.CreatedBy,
		Reversed:       m.Reversed,
		ReversedAt:     m.ReversedAt,
		ReversalOf:     m.ReversalOf,
		ReversalReason: m.ReversalReason,
	}, nil
}

// ToDomainPostingSlice converts a slice of model Postings
func ToDomainPostingSlice(ms []models.Posting) ([]domain.Posting, error) {
	ds := make([]domain.Posting, len(ms))
	for i, m := range ms {
		d, err := ToDomainPosting(m)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return ds, nil
}

// ToDomainSequence converts a model sequence row.
func ToDomainSequence(m models.DocumentNumberSequence) (domain.DocumentNumberSequence, error) {
	docType, err := domain.ParseDocumentType(m.DocType)
	if err != nil {
		return domain.DocumentNumberSequence{}, err
	}
	return domain.DocumentNumberSequence{
		DocType:       docType,
		Prefix:        m.Prefix,
		Separator:     m.Separator,
		IncludeYear:   m.IncludeYear,
		IncludeMonth:  m.IncludeMonth,
		NumberLength:  m.NumberLength,
		ResetYearly:   m.ResetYearly,
		ResetMonthly:  m.ResetMonthly,
		CurrentYear:   m.CurrentYear,
		CurrentMonth:  m.CurrentMonth,
		CurrentNumber: m.CurrentNumber,
	}, nil
}
