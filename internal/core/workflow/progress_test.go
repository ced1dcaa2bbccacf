package workflow_test

import (
	"testing"

	"github.com/stitchadmin/stitchadmin/internal/core/domain"
	"github.com/stitchadmin/stitchadmin/internal/core/workflow"
	"github.com/stretchr/testify/assert"
)

func TestProgress(t *testing.T) {
	tests := []struct {
		status       domain.WorkflowStatus
		percent      int
		phase        string
		phasePercent int
	}{
		{domain.StatusOffer, 0, "offer", 100},
		{domain.StatusConfirmed, 5, "order", 100},
		{domain.StatusDesignPending, 15, "design", 50},
		{domain.StatusDesignApproved, 25, "design", 100},
		{domain.StatusInProduction, 35, "production", 100},
		{domain.StatusPacking, 75, "shipping", 33},
		{domain.StatusReadyToShip, 80, "shipping", 67},
		{domain.StatusShipped, 85, "shipping", 100},
		{domain.StatusInvoiced, 90, "completion", 50},
		{domain.StatusCompleted, 100, "completion", 100},
		{domain.StatusCancelled, 100, "cancelled", 100},
		{"lost", 0, "unknown", 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			got := workflow.Progress(tt.status)
			assert.Equal(t, tt.percent, got.Percent)
			assert.Equal(t, tt.phase, got.Phase)
			assert.Equal(t, tt.phasePercent, got.PhasePercent)
		})
	}
}

func TestProgress_NeverDecreasesAlongTheHappyPath(t *testing.T) {
	path := []domain.WorkflowStatus{
		domain.StatusOffer, domain.StatusConfirmed, domain.StatusDesignPending, domain.StatusDesignApproved,
		domain.StatusInProduction, domain.StatusPacking, domain.StatusReadyToShip, domain.StatusShipped,
		domain.StatusInvoiced, domain.StatusCompleted,
	}
	last := -1
	for _, s := range path {
		p := workflow.Progress(s).Percent
		assert.Greater(t, p, last, s)
		last = p
	}
}
