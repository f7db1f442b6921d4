package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/SscSPs/class_credits_crm/internal/apperrors"
	"github.com/SscSPs/class_credits_crm/internal/core/domain"
	portsrepo "github.com/SscSPs/class_credits_crm/internal/core/ports/repositories"
	"github.com/SscSPs/class_credits_crm/internal/models"
	"github.com/SscSPs/class_credits_crm/internal/utils/mapping"
	"github.com/SscSPs/class_credits_crm/internal/utils/pagination"
)

const transactionColumns = `transaction_id, client_id, kind, amount, credits_count, description,
	class_session_id, transaction_date, created_at, created_by`

type SQLiteTransactionRepository struct {
	db querier
}

func newSQLiteTransactionRepository(db querier) *SQLiteTransactionRepository {
	return &SQLiteTransactionRepository{db: db}
}

var _ portsrepo.TransactionRepositoryFacade = (*SQLiteTransactionRepository)(nil)

func (r *SQLiteTransactionRepository) AppendTransaction(ctx context.Context, txn domain.Transaction) (string, error) {
	if !txn.Kind.IsValid() {
		return "", fmt.Errorf("%w: unknown transaction kind %q", apperrors.ErrValidation, txn.Kind)
	}
	if txn.TransactionID == "" {
		txn.TransactionID = uuid.NewString()
	}
	m := mapping.ToModelTransaction(txn)

	query := `INSERT INTO transactions (` + transactionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`
	_, err := r.db.ExecContext(ctx, query,
		m.TransactionID,
		m.ClientID,
		string(m.Kind),
		m.Amount,
		m.CreditsCount,
		m.Description,
		m.ClassSessionID,
		toNanos(m.TransactionDate),
		toNanos(m.CreatedAt),
		m.CreatedBy,
	)
	if err != nil {
		return "", mapError(err, fmt.Sprintf("failed to append transaction for client %s", m.ClientID))
	}
	return m.TransactionID, nil
}

func (r *SQLiteTransactionRepository) ListTransactionsByClientID(ctx context.Context, clientID string) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE client_id = ? ORDER BY transaction_date, transaction_id;`
	return r.query(ctx, query, clientID)
}

func (r *SQLiteTransactionRepository) ListTransactionsPage(ctx context.Context, clientID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	limit = pagination.NormalizeLimit(limit)

	args := []any{clientID}
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE client_id = ?`
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (transaction_date, transaction_id) < (?, ?)`
		args = append(args, toNanos(cursor.TransactionDate), cursor.TransactionID)
	}
	query += ` ORDER BY transaction_date DESC, transaction_id DESC LIMIT ?;`
	args = append(args, limit+1)

	txns, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	if len(txns) <= limit {
		return txns, nil, nil
	}
	txns = txns[:limit]
	last := txns[limit-1]
	token := pagination.EncodeToken(last.TransactionDate, last.TransactionID)
	return txns, &token, nil
}

func (r *SQLiteTransactionRepository) query(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "failed to query transactions")
	}
	defer rows.Close()

	var ms []models.Transaction
	for rows.Next() {
		var (
			m                models.Transaction
			kind             string
			credits          sql.NullInt64
			sessionID        sql.NullString
			txnDate, created int64
		)
		if err := rows.Scan(
			&m.TransactionID,
			&m.ClientID,
			&kind,
			&m.Amount,
			&credits,
			&m.Description,
			&sessionID,
			&txnDate,
			&created,
			&m.CreatedBy,
		); err != nil {
			return nil, mapError(err, "failed to scan transactions")
		}
		m.Kind = models.TransactionKind(kind)
		if credits.Valid {
			m.CreditsCount = &credits.Int64
		}
		if sessionID.Valid {
			m.ClassSessionID = &sessionID.String
		}
		m.TransactionDate = fromNanos(txnDate)
		m.CreatedAt = fromNanos(created)
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "failed to iterate transactions")
	}
	return mapping.ToDomainTransactionSlice(ms), nil
}
