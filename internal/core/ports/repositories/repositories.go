package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	TxManager       TransactionManager
	AccountRepo     AccountRepositoryFacade
	MappingRepo     PaymentMappingRepository
	VATRuleRepo     VATRuleRepository
	PostingRepo     PostingRepositoryFacade
	FingerprintRepo BookingFingerprintRepository
	SequenceRepo    SequenceRepository
	NumberLogRepo   NumberLogRepository
	OrderRepo       OrderRepositoryFacade
	CustomerRepo    CustomerDirectory
	DocumentRepo    DocumentStore
}
