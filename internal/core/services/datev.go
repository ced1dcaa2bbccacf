package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/stitchadmin/stitchadmin/internal/apperrors"
	"github.com/stitchadmin/stitchadmin/internal/core/domain"
)

const (
	datevFormatVersion = "700"
	datevCategory      = "21"
	datevFormatName    = "Buchungsstapel"
	datevTextRunes     = 60
)

var datevFieldReplacer = strings.NewReplacer(";", ",", "\r\n", " ", "\n", " ", "\r", " ")

// ExportDATEV renders every non-reversed posting of [from, to] as a DATEV booking batch.
func (s *ledgerService) ExportDATEV(ctx context.Context, from, to time.Time) ([]byte, string, error) {
	from, to = domain.DateOnly(from), domain.DateOnly(to)
	if from.After(to) {
		return nil, "", fmt.Errorf("%w: from must not be after to", apperrors.ErrValidation)
	}

	postings, err := s.postingRepo.ListPostings(ctx, s.txManager.DB(), domain.PostingFilter{
		DateFrom:        &from,
		DateTo:          &to,
		ExcludeReversed: true,
		Ascending:       true,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to load postings for DATEV export")
		return nil, "", err
	}

	body := RenderDATEV(postings, from, to, s.datevOrigin)
	filename := fmt.Sprintf("DATEV_Export_%s_%s.csv", from.Format("20060102"), to.Format("20060102"))

	s.LogInfo(ctx, "DATEV export rendered",
		slog.String("filename", filename), slog.Int("postings", len(postings)))
	return body, filename, nil
}

// RenderDATEV builds the export body. postings must already be filtered and
// sorted ascending by (date, id). Lines are joined by "\n" without a trailing newline.
func RenderDATEV(postings []domain.Posting, from, to time.Time, origin string) []byte {
	lines := make([]string, 0, len(postings)+1)
	lines = append(lines, strings.Join([]string{
		"EXTF",
		datevFormatVersion,
		datevCategory,
		datevFormatName,
		fmt.Sprintf("%04d", from.Year()),
		from.Format(time.DateOnly),
		to.Format(time.DateOnly),
		datevField(origin),
	}, ";"))

	for _, p := range postings {
		lines = append(lines, strings.Join([]string{
			domain.FormatMoney(p.Amount),
			"S",
			"EUR",
			"",
			p.DebitAccount,
			p.CreditAccount,
			"",
			p.Date.Format("0201"),
			datevField(p.DocRef),
			truncateRunes(datevField(p.Text), datevTextRunes),
		}, ";"))
	}
	return []byte(strings.Join(lines, "\n"))
}

func datevField(s string) string {
	return datevFieldReplacer.Replace(s)
}
