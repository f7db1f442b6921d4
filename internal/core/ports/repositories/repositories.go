package repositories

//go:generate mockgen -destination=mocks/mock_ledger_store.go -package=mock_repositories github.com/SscSPs/class_credits_crm/internal/core/ports/repositories LedgerStoreWithTx

// LedgerStore is everything the core needs from persistence.
type LedgerStore interface {
	ClientRepositoryFacade
	TransactionRepositoryFacade
	ClassSessionRepositoryFacade
}

// LedgerStoreWithTx extends LedgerStore with unit-of-work support
type LedgerStoreWithTx interface {
	LedgerStore
	UnitOfWork
}

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	ClientRepo       ClientRepositoryFacade
	TransactionRepo  TransactionRepositoryFacade
	ClassSessionRepo ClassSessionRepositoryFacade
	UnitOfWork       UnitOfWork
}

// NewRepositoryProvider exposes a single ledger store through every port.
func NewRepositoryProvider(store LedgerStoreWithTx) RepositoryProvider {
	return RepositoryProvider{
		ClientRepo:       store,
		TransactionRepo:  store,
		ClassSessionRepo: store,
		UnitOfWork:       store,
	}
}
