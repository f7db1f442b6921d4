package repositories

import (
	"context"
)

// TxFunc is the body of a unit of work. The store it receives is bound to the
// surrounding transaction.
type TxFunc func(ctx context.Context, store LedgerStore) error

// UnitOfWork runs a group of ledger writes atomically.
type UnitOfWork interface {
	// WithinTx runs fn inside a transaction. If fn returns an error nothing it
	// wrote is kept. Version conflicts surface as apperrors.ErrConcurrencyConflict,
	// either from a versioned update inside fn or at commit.
	WithinTx(ctx context.Context, fn TxFunc) error
}
