package accounting

import (
	"fmt"
	"math"
	"time"

	"github.com/SscSPs/class_credits_crm/internal/apperrors"
	"github.com/SscSPs/class_credits_crm/internal/core/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditPurchase describes a purchase of credits by a client.
type CreditPurchase struct {
	Count          int64
	AmountPaid     int64  // minor units
	PricePerCredit *int64 // optional; enables spillover into MoneyBalance
	Description    string
}

// EntryContext carries the metadata stamped on a ledger entry.
type EntryContext struct {
	ClassSessionID *string
	Description    string
	ActorID        string
	At             time.Time
	// CurrencyPrecision is the number of minor-unit digits used when amounts are printed.
	CurrencyPrecision int32
}

func (e EntryContext) at() time.Time {
	if e.At.IsZero() {
		return time.Now().UTC()
	}
	return e.At
}

func newTransaction(client domain.Client, kind domain.TransactionKind, entry EntryContext) domain.Transaction {
	now := entry.at()
	return domain.Transaction{
		TransactionID:   uuid.NewString(),
		ClientID:        client.ClientID,
		Kind:            kind,
		ClassSessionID:  entry.ClassSessionID,
		TransactionDate: now,
		CreatedAt:       now,
		CreatedBy:       entry.ActorID,
	}
}

func int64Ptr(v int64) *int64 {
	return &v
}

// ApplyCredit adds purchased credits to the client and returns the matching CREDIT entry.
// Any payment above Count x PricePerCredit is kept as money balance.
func ApplyCredit(client domain.Client, purchase CreditPurchase, entry EntryContext) (domain.Client, domain.Transaction, error) {
	if purchase.Count <= 0 {
		return client, domain.Transaction{}, fmt.Errorf("%w: credit count must be positive, got %d", apperrors.ErrValidation, purchase.Count)
	}
	if purchase.AmountPaid < 0 {
		return client, domain.Transaction{}, fmt.Errorf("%w: amount paid cannot be negative, got %d", apperrors.ErrValidation, purchase.AmountPaid)
	}
	if purchase.PricePerCredit != nil && *purchase.PricePerCredit <= 0 {
		return client, domain.Transaction{}, fmt.Errorf("%w: price per credit must be positive, got %d", apperrors.ErrValidation, *purchase.PricePerCredit)
	}

	if price := purchase.PricePerCredit; price != nil && purchase.Count > math.MaxInt64/(*price) {
		return client, domain.Transaction{}, fmt.Errorf("%w: %d credits at %d per credit overflows", apperrors.ErrValidation, purchase.Count, *price)
	}
	if client.CreditsRemaining > math.MaxInt64-purchase.Count {
		return client, domain.Transaction{}, fmt.Errorf("%w: purchase of %d credits overflows the balance of client %s", apperrors.ErrValidation, purchase.Count, client.ClientID)
	}

	spillover := Spillover(purchase.Count, purchase.AmountPaid, purchase.PricePerCredit)
	if client.MoneyBalance > math.MaxInt64-spillover {
		return client, domain.Transaction{}, fmt.Errorf("%w: overpayment of %d overflows the money balance of client %s", apperrors.ErrValidation, spillover, client.ClientID)
	}

	description := purchase.Description
	if description == "" {
		description = fmt.Sprintf("Purchase of %d credits for %s", purchase.Count, FormatMinorUnits(purchase.AmountPaid, entry.CurrencyPrecision))
	}
	if spillover > 0 {
		description = fmt.Sprintf("%s (overpayment %s added to balance)", description, FormatMinorUnits(spillover, entry.CurrencyPrecision))
	}

	updated := client
	updated.CreditsRemaining += purchase.Count
	updated.MoneyBalance += spillover
	updated.Touch(entry.ActorID, entry.at())

	txn := newTransaction(client, domain.Credit, entry)
	txn.Amount = purchase.AmountPaid
	txn.CreditsCount = int64Ptr(purchase.Count)
	txn.Description = description
	return updated, txn, nil
}

// Spillover returns the part of amountPaid that exceeds count x pricePerCredit.
// A product too large for int64 exceeds any payment, so it yields 0.
func Spillover(count, amountPaid int64, pricePerCredit *int64) int64 {
	if pricePerCredit == nil || *pricePerCredit <= 0 {
		return 0
	}
	if count > math.MaxInt64/(*pricePerCredit) {
		return 0
	}
	expected := count * *pricePerCredit
	if amountPaid <= expected {
		return 0
	}
	return amountPaid - expected
}

// ApplyDebit consumes one credit. It refuses when the balance is not positive.
func ApplyDebit(client domain.Client, entry EntryContext) (domain.Client, domain.Transaction, error) {
	if client.CreditsRemaining <= 0 {
		return client, domain.Transaction{}, &apperrors.InsufficientCreditsError{
			ClientID:         client.ClientID,
			CreditsRemaining: client.CreditsRemaining,
		}
	}

	updated := client
	updated.CreditsRemaining--
	updated.Touch(entry.ActorID, entry.at())

	txn := newTransaction(client, domain.Debit, entry)
	txn.Description = entry.Description
	if txn.Description == "" {
		txn.Description = "Class attended"
	}
	return updated, txn, nil
}

// ReverseDebit refunds one credit with a compensating CREDIT entry.
func ReverseDebit(client domain.Client, entry EntryContext) (domain.Client, domain.Transaction) {
	updated := client
	updated.CreditsRemaining++
	updated.Touch(entry.ActorID, entry.at())

	txn := newTransaction(client, domain.Credit, entry)
	txn.CreditsCount = int64Ptr(1)
	txn.Description = entry.Description
	if txn.Description == "" {
		txn.Description = "Attendance cancelled"
	}
	return updated, txn
}

// Recompute folds a transaction history into the authoritative credit balance.
// The fold is commutative, so ordering is irrelevant.
func Recompute(transactions []domain.Transaction) int64 {
	var balance int64
	for _, txn := range transactions {
		switch txn.Kind {
		case domain.Credit:
			balance += txn.Credits()
		case domain.Debit:
			balance--
		}
	}
	return balance
}

// Drift compares a stored counter against its recomputed value.
type Drift struct {
	Stored   int64
	Computed int64
}

// Drifted reports whether the counter disagrees with the ledger.
func (d Drift) Drifted() bool {
	return d.Stored != d.Computed
}

// DetectDrift recomputes the client's balance from its transactions.
func DetectDrift(client domain.Client, transactions []domain.Transaction) Drift {
	return Drift{Stored: client.CreditsRemaining, Computed: Recompute(transactions)}
}

// FormatMinorUnits renders an amount held in minor units with the given precision.
// Example: 1234567 with precision 2 returns "12345.67"
// Example: 800000 with precision 0 returns "800000"
func FormatMinorUnits(amount int64, precision int32) string {
	return decimal.New(amount, -precision).StringFixed(precision)
}
