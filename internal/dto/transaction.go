package dto

import (
	"time"

	"github.com/SscSPs/class_credits_crm/internal/core/domain"
)

// PurchaseCreditsRequest defines a credit purchase. Amounts are in minor currency units.
type PurchaseCreditsRequest struct {
	Count          int64  `json:"count" binding:"required,gt=0"`
	AmountPaid     int64  `json:"amountPaid" binding:"gte=0"`
	PricePerCredit *int64 `json:"pricePerCredit" binding:"omitempty,gt=0"` // Optional; enables overpayment spillover
	Description    string `json:"description"`
}

// TransactionResponse defines the data returned for a ledger entry.
type TransactionResponse struct {
	TransactionID   string    `json:"transactionID"`
	ClientID        string    `json:"clientID"`
	Kind            string    `json:"kind"` // CREDIT or DEBIT
	Amount          int64     `json:"amount"`
	CreditsCount    *int64    `json:"creditsCount,omitempty"`
	Description     string    `json:"description"`
	ClassSessionID  *string   `json:"classSessionID,omitempty"`
	TransactionDate time.Time `json:"transactionDate"`
	CreatedAt       time.Time `json:"createdAt"`
	CreatedBy       string    `json:"createdBy"`
}

// PurchaseCreditsResponse is returned after a successful purchase.
type PurchaseCreditsResponse struct {
	Client      ClientResponse      `json:"client"`
	Transaction TransactionResponse `json:"transaction"`
}

// ListTransactionsParams defines query parameters for listing a client's ledger.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=20" binding:"gte=0,lte=200"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse wraps one page of ledger entries.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:   txn.TransactionID,
		ClientID:        txn.ClientID,
		Kind:            string(txn.Kind),
		Amount:          txn.Amount,
		CreditsCount:    txn.CreditsCount,
		Description:     txn.Description,
		ClassSessionID:  txn.ClassSessionID,
		TransactionDate: txn.TransactionDate,
		CreatedAt:       txn.CreatedAt,
		CreatedBy:       txn.CreatedBy,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to []TransactionResponse.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}
