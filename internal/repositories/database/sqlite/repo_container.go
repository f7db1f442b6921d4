package sqlite

import (
	"context"
	"database/sql"

	portsrepo "github.com/SscSPs/class_credits_crm/internal/core/ports/repositories"
)

type ledgerStore struct {
	*SQLiteClientRepository
	*SQLiteTransactionRepository
	*SQLiteClassSessionRepository
}

func newLedgerStore(db querier) ledgerStore {
	return ledgerStore{
		SQLiteClientRepository:       newSQLiteClientRepository(db),
		SQLiteTransactionRepository:  newSQLiteTransactionRepository(db),
		SQLiteClassSessionRepository: newSQLiteClassSessionRepository(db),
	}
}

// LedgerStore is the SQLite ledger store.
type LedgerStore struct {
	BaseRepository
	ledgerStore
}

var _ portsrepo.LedgerStoreWithTx = (*LedgerStore)(nil)

// NewLedgerStore creates a store on an open, migrated database.
func NewLedgerStore(db *sql.DB) *LedgerStore {
	return &LedgerStore{
		BaseRepository: BaseRepository{DB: db},
		ledgerStore:    newLedgerStore(db),
	}
}

// WithinTx runs fn in one database transaction and commits when it returns nil.
func (s *LedgerStore) WithinTx(ctx context.Context, fn portsrepo.TxFunc) error {
	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = s.Rollback(tx) }()

	if err := fn(ctx, newLedgerStore(tx)); err != nil {
		return err
	}
	return s.Commit(tx)
}

// NewRepositoryProvider wires every repository port to SQLite.
func NewRepositoryProvider(db *sql.DB) portsrepo.RepositoryProvider {
	return portsrepo.NewRepositoryProvider(NewLedgerStore(db))
}
