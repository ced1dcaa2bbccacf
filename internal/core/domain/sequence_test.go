package domain_test

import (
	"testing"
	"time"

	"github.com/stitchadmin/stitchadmin/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func invoiceSequence() domain.DocumentNumberSequence {
	return domain.DocumentNumberSequence{
		DocType:      domain.DocInvoice,
		Prefix:       "RE",
		Separator:    "-",
		IncludeYear:  true,
		IncludeMonth: true,
		NumberLength: 4,
		ResetYearly:  true,
		ResetMonthly: true,
	}
}

func TestDocumentNumberSequence_Advance_MonthlyReset(t *testing.T) {
	seq := invoiceSequence()
	jan := time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "RE-202501-0001", seq.Advance(jan))
	assert.Equal(t, "RE-202501-0002", seq.Advance(jan))
	assert.Equal(t, "RE-202501-0003", seq.Advance(jan))

	feb := time.Date(2025, time.February, 1, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, "RE-202502-0001", seq.Advance(feb))
	assert.Equal(t, 2025, seq.CurrentYear)
	assert.Equal(t, 2, seq.CurrentMonth)
	assert.Equal(t, int64(1), seq.CurrentNumber)
}

func TestDocumentNumberSequence_Advance_YearlyCounterSpansMonths(t *testing.T) {
	seq := domain.DocumentNumberSequence{
		DocType:      domain.DocOrder,
		Prefix:       "AUF",
		Separator:    "-",
		IncludeYear:  true,
		NumberLength: 6,
		ResetYearly:  true,
	}

	for m := time.January; m <= time.December; m++ {
		seq.Advance(time.Date(2025, m, 10, 0, 0, 0, 0, time.UTC))
	}
	assert.Equal(t, int64(12), seq.CurrentNumber)
	assert.Equal(t, "AUF-2025-000013", seq.Advance(time.Date(2025, time.December, 31, 23, 0, 0, 0, time.UTC)))

	assert.Equal(t, "AUF-2026-000001", seq.Advance(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)))
}

func TestDocumentNumberSequence_Advance_NoReset(t *testing.T) {
	seq := domain.DocumentNumberSequence{Prefix: "PE", Separator: "-", NumberLength: 5, CurrentYear: 2024, CurrentMonth: 12, CurrentNumber: 41}

	assert.Equal(t, "PE-00042", seq.Advance(time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)))
}

func TestDocumentNumberSequence_Format(t *testing.T) {
	tests := []struct {
		name    string
		seq     domain.DocumentNumberSequence
		year    int
		month   int
		counter int64
		want    string
	}{
		{
			name:    "year and month",
			seq:     invoiceSequence(),
			year:    2025,
			month:   1,
			counter: 4,
			want:    "RE-202501-0004",
		},
		{
			name:    "year only",
			seq:     domain.DocumentNumberSequence{Prefix: "AUF", Separator: "-", IncludeYear: true, NumberLength: 6},
			year:    2025,
			month:   7,
			counter: 123,
			want:    "AUF-2025-000123",
		},
		{
			name:    "short prefix",
			seq:     domain.DocumentNumberSequence{Prefix: "D", Separator: "-", IncludeYear: true, NumberLength: 4},
			year:    2025,
			month:   1,
			counter: 1,
			want:    "D-2025-0001",
		},
		{
			name:    "counter wider than padding",
			seq:     domain.DocumentNumberSequence{Prefix: "LS", Separator: "-", IncludeYear: true, NumberLength: 2},
			year:    2025,
			month:   1,
			counter: 123,
			want:    "LS-2025-123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.seq.Format(tt.year, tt.month, tt.counter))
		})
	}
}
