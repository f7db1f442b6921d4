package repositories

import (
	"context"

	"github.com/SscSPs/class_credits_crm/internal/core/domain"
)

// TransactionReader defines read operations for the ledger
type TransactionReader interface {
	// ListTransactionsByClientID returns the full history of a client in no particular order.
	ListTransactionsByClientID(ctx context.Context, clientID string) ([]domain.Transaction, error)

	// ListTransactionsPage returns one page of a client's history, newest first,
	// and the token for the next page (nil on the last page).
	ListTransactionsPage(ctx context.Context, clientID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}

// TransactionWriter defines write operations for the ledger. Entries are never updated or deleted.
type TransactionWriter interface {
	// AppendTransaction stores a new entry and returns its ID.
	AppendTransaction(ctx context.Context, txn domain.Transaction) (string, error)
}

// TransactionRepositoryFacade combines all ledger repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
