package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stitchadmin/stitchadmin/internal/core/domain"
	"github.com/stitchadmin/stitchadmin/internal/core/postingrules"
	portsrepo "github.com/stitchadmin/stitchadmin/internal/core/ports/repositories"
	portssvc "github.com/stitchadmin/stitchadmin/internal/core/ports/services"
	"github.com/stitchadmin/stitchadmin/internal/platform/config"
)

// LoadVATTable reads the VAT account rules, falling back to the SKR03 defaults
// when the table is empty.
func LoadVATTable(ctx context.Context, repos portsrepo.RepositoryProvider) (*postingrules.VATTable, error) {
	rules, err := repos.VATRuleRepo.ListVATRules(ctx, repos.TxManager.DB())
	if err != nil {
		return nil, fmt.Errorf("loading vat rules: %w", err)
	}
	if len(rules) == 0 {
		slog.Warn("vat_account_rules is empty, using SKR03 defaults")
		return postingrules.DefaultVATTable(), nil
	}
	return postingrules.NewVATTable(rules)
}

// NewServiceContainer creates a new service container with properly initialized dependencies.
// Listeners are registered document linker first, so the booking bridge sees the linked invoice.
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	vat *postingrules.VATTable,
	publisher portssvc.EventPublisher,
	clock domain.Clock,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(
		repos.TxManager,
		repos.AccountRepo,
		repos.MappingRepo,
		WithMappingCacheTTL(cfg.MappingCacheTTL),
		WithDeactivationWindow(cfg.AccountDeactivationWindow),
		WithAccountClock(clock),
	)
	container.Ledger = NewLedgerService(
		repos.TxManager,
		repos.PostingRepo,
		repos.AccountRepo,
		WithFutureGrace(cfg.LedgerFutureGrace),
		WithDATEVOrigin(cfg.DATEVOrigin),
		WithLedgerClock(clock),
	)
	container.Numbering = NewNumberingService(repos.TxManager, repos.SequenceRepo, repos.NumberLogRepo, clock)

	rules := postingrules.New(vat)
	container.Booking = NewBookingService(
		repos.TxManager, container.Ledger, container.Account, repos.PostingRepo, repos.FingerprintRepo, rules, clock,
	)

	linker := NewDocumentLinker(container.Numbering, repos.DocumentRepo, repos.CustomerRepo)
	bridge := NewBookingBridge(
		container.Ledger, container.Account, repos.PostingRepo, repos.FingerprintRepo, repos.DocumentRepo, rules, clock,
	)
	transitioner := NewTransitioner(repos.OrderRepo, linker, bridge)

	container.Order = NewOrderService(
		repos.TxManager,
		repos.OrderRepo,
		container.Numbering,
		transitioner,
		WithEventPublisher(publisher),
		WithOrderClock(clock),
	)

	return container
}
