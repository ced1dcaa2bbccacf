package workflow

import (
	"math"

	"github.com/stitchadmin/stitchadmin/internal/core/domain"
)

type phase struct {
	name     string
	label    string
	statuses []domain.WorkflowStatus
	weight   int
}

// phases are ordered; their weights sum to 100.
var phases = []phase{
	{"offer", "Offer", []domain.WorkflowStatus{domain.StatusOffer}, 5},
	{"order", "Order", []domain.WorkflowStatus{domain.StatusConfirmed}, 10},
	{"design", "Design", []domain.WorkflowStatus{domain.StatusDesignPending, domain.StatusDesignApproved}, 20},
	{"production", "Production", []domain.WorkflowStatus{domain.StatusInProduction}, 40},
	{"shipping", "Shipping", []domain.WorkflowStatus{domain.StatusPacking, domain.StatusReadyToShip, domain.StatusShipped}, 15},
	{"completion", "Completion", []domain.WorkflowStatus{domain.StatusInvoiced, domain.StatusCompleted}, 10},
}

// Progress weighs the phases before the current status as done and counts the
// statuses already passed inside the current phase.
// Completed and cancelled orders are at 100.
func Progress(status domain.WorkflowStatus) domain.WorkflowProgress {
	switch status {
	case domain.StatusCompleted:
		return domain.WorkflowProgress{Percent: 100, Phase: "completion", PhaseLabel: "Completion", PhasePercent: 100}
	case domain.StatusCancelled:
		return domain.WorkflowProgress{Percent: 100, Phase: "cancelled", PhaseLabel: "Cancelled", PhasePercent: 100}
	}

	done := 0.0
	for _, p := range phases {
		for i, s := range p.statuses {
			if s != status {
				continue
			}
			n := float64(len(p.statuses))
			done += float64(i) / n * float64(p.weight)
			return domain.WorkflowProgress{
				Percent:      int(math.Round(done)),
				Phase:        p.name,
				PhaseLabel:   p.label,
				PhasePercent: int(math.Round(float64(i+1) / n * 100)),
			}
		}
		done += float64(p.weight)
	}
	return domain.WorkflowProgress{Phase: "unknown", PhaseLabel: "Unknown"}
}
