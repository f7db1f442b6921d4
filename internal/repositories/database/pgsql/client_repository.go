package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/SscSPs/class_credits_crm/internal/apperrors"
	"github.com/SscSPs/class_credits_crm/internal/core/domain"
	portsrepo "github.com/SscSPs/class_credits_crm/internal/core/ports/repositories"
	"github.com/SscSPs/class_credits_crm/internal/models"
	"github.com/SscSPs/class_credits_crm/internal/utils/mapping"
)

const clientColumns = `client_id, phone_number, campaign_source, credits_remaining, money_balance,
	children, guardians, created_at, created_by, last_updated_at, last_updated_by, version`

type PgxClientRepository struct {
	db querier
}

func newPgxClientRepository(db querier) *PgxClientRepository {
	return &PgxClientRepository{db: db}
}

var _ portsrepo.ClientRepositoryFacade = (*PgxClientRepository)(nil)

// SaveClient inserts a new client.
func (r *PgxClientRepository) SaveClient(ctx context.Context, client domain.Client) error {
	m, err := mapping.ToModelClient(client)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	query := `
		INSERT INTO clients (` + clientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = r.db.Exec(ctx, query,
		m.ClientID,
		m.PhoneNumber,
		m.CampaignSource,
		m.CreditsRemaining,
		m.MoneyBalance,
		m.Children,
		m.Guardians,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.Version,
	)
	if err != nil {
		return mapError(err, fmt.Sprintf("failed to save client %s", m.ClientID))
	}
	return nil
}

// FindClientByID retrieves a client by its ID.
func (r *PgxClientRepository) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE client_id = $1;`
	rows, err := r.db.Query(ctx, query, clientID)
	if err != nil {
		return nil, mapError(err, "failed to query client")
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Client])
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("client %s", clientID))
	}

	client, err := mapping.ToDomainClient(m)
	if err != nil {
		return nil, apperrors.NewStoreError("corrupt client row", err)
	}
	return &client, nil
}

// FindClientByPhone retrieves the client registered under phoneNumber.
func (r *PgxClientRepository) FindClientByPhone(ctx context.Context, phoneNumber string) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE phone_number = $1;`
	rows, err := r.db.Query(ctx, query, phoneNumber)
	if err != nil {
		return nil, mapError(err, "failed to query client by phone")
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Client])
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("client with phone %s", phoneNumber))
	}

	client, err := mapping.ToDomainClient(m)
	if err != nil {
		return nil, apperrors.NewStoreError("corrupt client row", err)
	}
	return &client, nil
}

// ListClientIDs returns the key column only, oldest first. Rows whose JSON
// columns no longer decode are still listed.
func (r *PgxClientRepository) ListClientIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT client_id FROM clients ORDER BY created_at, client_id;`)
	if err != nil {
		return nil, mapError(err, "failed to query client ids")
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, mapError(err, "failed to scan client ids")
	}
	return ids, nil
}

// ListClients retrieves all clients, oldest first.
func (r *PgxClientRepository) ListClients(ctx context.Context) ([]domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY created_at, client_id;`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, mapError(err, "failed to query clients")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Client])
	if err != nil {
		return nil, mapError(err, "failed to scan clients")
	}

	clients, err := mapping.ToDomainClientSlice(ms)
	if err != nil {
		return nil, apperrors.NewStoreError("corrupt client row", err)
	}
	return clients, nil
}

// UpdateClient writes the client if its stored version still matches and bumps the version.
func (r *PgxClientRepository) UpdateClient(ctx context.Context, client domain.Client) error {
	m, err := mapping.ToModelClient(client)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	query := `
		UPDATE clients SET
			phone_number = $2,
			campaign_source = $3,
			credits_remaining = $4,
			money_balance = $5,
			children = $6,
			guardians = $7,
			last_updated_at = $8,
			last_updated_by = $9,
			version = version + 1
		WHERE client_id = $1 AND version = $10;
	`
	tag, err := r.db.Exec(ctx, query,
		m.ClientID,
		m.PhoneNumber,
		m.CampaignSource,
		m.CreditsRemaining,
		m.MoneyBalance,
		m.Children,
		m.Guardians,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.Version,
	)
	if err != nil {
		return mapError(err, fmt.Sprintf("failed to update client %s", m.ClientID))
	}
	if tag.RowsAffected() == 0 {
		return versionMiss(ctx, r.db, "clients", "client_id", m.ClientID)
	}
	return nil
}

// DeleteClient removes the client row. Its ledger entries are kept.
func (r *PgxClientRepository) DeleteClient(ctx context.Context, clientID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM clients WHERE client_id = $1;`, clientID)
	if err != nil {
		return mapError(err, fmt.Sprintf("failed to delete client %s", clientID))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: client %s", apperrors.ErrNotFound, clientID)
	}
	return nil
}
