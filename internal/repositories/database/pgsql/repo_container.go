package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/SscSPs/class_credits_crm/internal/core/ports/repositories"
)

// ledgerStore groups the repositories bound to one querier.
type ledgerStore struct {
	*PgxClientRepository
	*PgxTransactionRepository
	*PgxClassSessionRepository
}

func newLedgerStore(db querier) ledgerStore {
	return ledgerStore{
		PgxClientRepository:       newPgxClientRepository(db),
		PgxTransactionRepository:  newPgxTransactionRepository(db),
		PgxClassSessionRepository: newPgxClassSessionRepository(db),
	}
}

// LedgerStore is the PostgreSQL ledger store. Outside WithinTx every call
// runs on the pool in its own implicit transaction.
type LedgerStore struct {
	BaseRepository
	ledgerStore
}

var _ portsrepo.LedgerStoreWithTx = (*LedgerStore)(nil)

// NewLedgerStore creates a store backed by pool.
func NewLedgerStore(pool *pgxpool.Pool) *LedgerStore {
	return &LedgerStore{
		BaseRepository: BaseRepository{Pool: pool},
		ledgerStore:    newLedgerStore(pool),
	}
}

// WithinTx runs fn in one database transaction and commits when it returns nil.
func (s *LedgerStore) WithinTx(ctx context.Context, fn portsrepo.TxFunc) error {
	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = s.Rollback(ctx, tx) }()

	if err := fn(ctx, newLedgerStore(tx)); err != nil {
		return err
	}
	return s.Commit(ctx, tx)
}

// NewRepositoryProvider wires every repository port to PostgreSQL.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.NewRepositoryProvider(NewLedgerStore(dbPool))
}
