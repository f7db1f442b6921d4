package services

import (
	"context"

	"github.com/SscSPs/class_credits_crm/internal/core/domain"
	"github.com/SscSPs/class_credits_crm/internal/dto"
)

// ClientReaderSvc defines read operations for client data
type ClientReaderSvc interface {
	// GetClient retrieves a client by its unique identifier.
	GetClient(ctx context.Context, clientID string) (*domain.Client, error)

	// FindClientByPhone retrieves the client registered under an exact phone number.
	FindClientByPhone(ctx context.Context, phoneNumber string) (*domain.Client, error)

	// ListClients retrieves every client.
	ListClients(ctx context.Context) ([]domain.Client, error)

	// ListClientTransactions returns one page of the client's ledger, newest first.
	ListClientTransactions(ctx context.Context, clientID string, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error)
}

// ClientWriterSvc defines write operations for client data
type ClientWriterSvc interface {
	// CreateClient persists a new client with an empty balance.
	CreateClient(ctx context.Context, req dto.CreateClientRequest, actorID string) (*domain.Client, error)

	// UpdateClient changes profile fields. Credits and money balance are kept.
	UpdateClient(ctx context.Context, clientID string, req dto.UpdateClientRequest, actorID string) (*domain.Client, error)

	// DeleteClient removes a client without refunding anything. The ledger is kept.
	DeleteClient(ctx context.Context, clientID string, actorID string) error
}

// CreditSvc sells credits to clients
type CreditSvc interface {
	// PurchaseCredits appends a CREDIT entry and raises the client's balance atomically.
	PurchaseCredits(ctx context.Context, clientID string, req dto.PurchaseCreditsRequest, actorID string) (*domain.Client, *domain.Transaction, error)
}

// ClientSvcFacade combines all client-related service interfaces
type ClientSvcFacade interface {
	ClientReaderSvc
	ClientWriterSvc
	CreditSvc
}
