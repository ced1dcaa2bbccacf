package pgsql

import (
	portsrepo "github.com/stitchadmin/stitchadmin/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	sequenceRepo := newPgxSequenceRepository(dbPool)
	documentRepo := newPgxDocumentRepository(dbPool)

	return portsrepo.RepositoryProvider{
		TxManager:       newPgxTransactionManager(dbPool),
		AccountRepo:     newPgxAccountRepository(dbPool),
		MappingRepo:     newPgxPaymentMappingRepository(dbPool),
		VATRuleRepo:     newPgxVATRuleRepository(dbPool),
		PostingRepo:     newPgxPostingRepository(dbPool),
		FingerprintRepo: newPgxFingerprintRepository(dbPool),
		SequenceRepo:    sequenceRepo,
		NumberLogRepo:   sequenceRepo,
		OrderRepo:       newPgxOrderRepository(dbPool),
		CustomerRepo:    documentRepo,
		DocumentRepo:    documentRepo,
	}
}
