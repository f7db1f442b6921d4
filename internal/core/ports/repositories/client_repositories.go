package repositories

import (
	"context"

	"github.com/SscSPs/class_credits_crm/internal/core/domain"
)

// ClientReader defines read operations for client data
type ClientReader interface {
	// FindClientByID retrieves a client by its unique identifier.
	FindClientByID(ctx context.Context, clientID string) (*domain.Client, error)

	// FindClientByPhone retrieves the client registered under an exact phone number.
	FindClientByPhone(ctx context.Context, phoneNumber string) (*domain.Client, error)

	// ListClients retrieves every client, ordered by creation time.
	ListClients(ctx context.Context) ([]domain.Client, error)

	// ListClientIDs returns every client ID in the same order as ListClients
	// without decoding the rows.
	ListClientIDs(ctx context.Context) ([]string, error)
}

// ClientWriter defines write operations for client data
type ClientWriter interface {
	// SaveClient persists a new client.
	SaveClient(ctx context.Context, client domain.Client) error

	// UpdateClient overwrites a client if the stored version still equals
	// client.Version. On success the stored version becomes client.Version+1.
	UpdateClient(ctx context.Context, client domain.Client) error

	// DeleteClient removes a client. Its transactions are kept.
	DeleteClient(ctx context.Context, clientID string) error
}

// ClientRepositoryFacade combines all client-related repository interfaces
type ClientRepositoryFacade interface {
	ClientReader
	ClientWriter
}
