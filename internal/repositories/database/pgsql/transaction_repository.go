package pgsql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/SscSPs/class_credits_crm/internal/apperrors"
	"github.com/SscSPs/class_credits_crm/internal/core/domain"
	portsrepo "github.com/SscSPs/class_credits_crm/internal/core/ports/repositories"
	"github.com/SscSPs/class_credits_crm/internal/models"
	"github.com/SscSPs/class_credits_crm/internal/utils/mapping"
	"github.com/SscSPs/class_credits_crm/internal/utils/pagination"
)

const transactionColumns = `transaction_id, client_id, kind, amount, credits_count, description,
	class_session_id, transaction_date, created_at, created_by`

type PgxTransactionRepository struct {
	db querier
}

func newPgxTransactionRepository(db querier) *PgxTransactionRepository {
	return &PgxTransactionRepository{db: db}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

// AppendTransaction inserts a ledger entry. Entries are never updated.
func (r *PgxTransactionRepository) AppendTransaction(ctx context.Context, txn domain.Transaction) (string, error) {
	if !txn.Kind.IsValid() {
		return "", fmt.Errorf("%w: unknown transaction kind %q", apperrors.ErrValidation, txn.Kind)
	}
	if txn.TransactionID == "" {
		txn.TransactionID = uuid.NewString()
	}
	m := mapping.ToModelTransaction(txn)

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.db.Exec(ctx, query,
		m.TransactionID,
		m.ClientID,
		m.Kind,
		m.Amount,
		m.CreditsCount,
		m.Description,
		m.ClassSessionID,
		m.TransactionDate,
		m.CreatedAt,
		m.CreatedBy,
	)
	if err != nil {
		return "", mapError(err, fmt.Sprintf("failed to append transaction for client %s", m.ClientID))
	}
	return m.TransactionID, nil
}

// ListTransactionsByClientID returns the full ledger of a client, oldest first.
func (r *PgxTransactionRepository) ListTransactionsByClientID(ctx context.Context, clientID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE client_id = $1
		ORDER BY transaction_date, transaction_id;
	`
	rows, err := r.db.Query(ctx, query, clientID)
	if err != nil {
		return nil, mapError(err, "failed to query transactions")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		return nil, mapError(err, "failed to scan transactions")
	}
	return mapping.ToDomainTransactionSlice(ms), nil
}

// ListTransactionsPage returns one page of a client's ledger, newest first.
func (r *PgxTransactionRepository) ListTransactionsPage(ctx context.Context, clientID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	limit = pagination.NormalizeLimit(limit)

	args := []any{clientID}
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE client_id = $1`
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (transaction_date, transaction_id) < ($2::timestamptz, $3::text)`
		args = append(args, cursor.TransactionDate, cursor.TransactionID)
	}
	// Fetch one extra row to learn whether another page exists.
	query += fmt.Sprintf(` ORDER BY transaction_date DESC, transaction_id DESC LIMIT %d;`, limit+1)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, mapError(err, "failed to query transactions page")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		return nil, nil, mapError(err, "failed to scan transactions page")
	}

	txns := mapping.ToDomainTransactionSlice(ms)
	if len(txns) <= limit {
		return txns, nil, nil
	}
	txns = txns[:limit]
	last := txns[limit-1]
	token := pagination.EncodeToken(last.TransactionDate, last.TransactionID)
	return txns, &token, nil
}
