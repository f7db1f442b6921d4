package mapping

import (
	"github.com/SscSPs/class_credits_crm/internal/core/domain"
	"github.com/SscSPs/class_credits_crm/internal/models"
)

func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:   d.TransactionID,
		ClientID:        d.ClientID,
		Kind:            models.TransactionKind(d.Kind),
		Amount:          d.Amount,
		CreditsCount:    d.CreditsCount,
		Description:     d.Description,
		ClassSessionID:  d.ClassSessionID,
		TransactionDate: d.TransactionDate,
		CreatedAt:       d.CreatedAt,
		CreatedBy:       d.CreatedBy,
	}
}

func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:   m.TransactionID,
		ClientID:        m.ClientID,
		Kind:            domain.TransactionKind(m.Kind),
		Amount:          m.Amount,
		CreditsCount:    m.CreditsCount,
		Description:     m.Description,
		ClassSessionID:  m.ClassSessionID,
		TransactionDate: m.TransactionDate.UTC(),
		CreatedAt:       m.CreatedAt.UTC(),
		CreatedBy:       m.CreatedBy,
	}
}

func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(ms))
	for _, m := range ms {
		out = append(out, ToDomainTransaction(m))
	}
	return out
}
