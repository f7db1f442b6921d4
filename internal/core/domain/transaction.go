package domain

import "time"

// TransactionKind indicates whether a ledger entry adds or consumes credits.
type TransactionKind string

const (
	Credit TransactionKind = "CREDIT"
	Debit  TransactionKind = "DEBIT"
)

// IsValid reports whether k is a known kind.
func (k TransactionKind) IsValid() bool {
	return k == Credit || k == Debit
}

// Transaction is an immutable, append-only ledger entry for a client.
type Transaction struct {
	TransactionID   string          `json:"transactionID"`
	ClientID        string          `json:"clientID"`
	Kind            TransactionKind `json:"kind"`
	Amount          int64           `json:"amount"`                 // money paid, minor units
	CreditsCount    *int64          `json:"creditsCount,omitempty"` // nil on debits
	Description     string          `json:"description"`
	ClassSessionID  *string         `json:"classSessionID,omitempty"`
	TransactionDate time.Time       `json:"transactionDate"`
	CreatedAt       time.Time       `json:"createdAt"`
	CreatedBy       string          `json:"createdBy"`
}

// Credits returns the credit count carried by the entry, 0 when absent.
func (t Transaction) Credits() int64 {
	if t.CreditsCount == nil {
		return 0
	}
	return *t.CreditsCount
}
