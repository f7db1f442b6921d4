package models

import "time"

// TransactionKind mirrors the kind column.
type TransactionKind string

const (
	Credit TransactionKind = "CREDIT"
	Debit  TransactionKind = "DEBIT"
)

// Transaction is an append-only transactions row. There are no update columns.
type Transaction struct {
	TransactionID   string          `db:"transaction_id"`
	ClientID        string          `db:"client_id"`
	Kind            TransactionKind `db:"kind"`
	Amount          int64           `db:"amount"`
	CreditsCount    *int64          `db:"credits_count"`    // Nullable
	Description     string          `db:"description"`
	ClassSessionID  *string         `db:"class_session_id"` // Nullable
	TransactionDate time.Time       `db:"transaction_date"`
	CreatedAt       time.Time       `db:"created_at"`
	CreatedBy       string          `db:"created_by"`
}
