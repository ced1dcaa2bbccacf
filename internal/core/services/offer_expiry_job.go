package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/stitchadmin/stitchadmin/internal/core/domain"
	portssvc "github.com/stitchadmin/stitchadmin/internal/core/ports/services"
)

// OfferExpiryJob periodically cancels offers past their validity date.
type OfferExpiryJob struct {
	BaseService
	offers   portssvc.OfferSvc
	interval time.Duration
}

// NewOfferExpiryJob creates the job. A non-positive interval defaults to one hour.
func NewOfferExpiryJob(offers portssvc.OfferSvc, interval time.Duration, clock domain.Clock) *OfferExpiryJob {
	if interval <= 0 {
		interval = time.Hour
	}
	return &OfferExpiryJob{BaseService: BaseService{Clock: clock}, offers: offers, interval: interval}
}

// RunOnce expires every offer that is due today.
func (j *OfferExpiryJob) RunOnce(ctx context.Context) int {
	n, err := j.offers.ExpireOffers(ctx, j.Now())
	if err != nil {
		j.LogError(ctx, err, "Offer expiry run failed")
	}
	return n
}

// Run executes RunOnce immediately and then on every tick until ctx is done.
func (j *OfferExpiryJob) Run(ctx context.Context) {
	j.LogInfo(ctx, "Offer expiry job started", slog.Duration("interval", j.interval))
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			j.LogInfo(ctx, "Offer expiry job stopped")
			return
		case <-ticker.C:
			j.RunOnce(ctx)
		}
	}
}
