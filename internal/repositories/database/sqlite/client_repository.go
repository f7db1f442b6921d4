package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/SscSPs/class_credits_crm/internal/apperrors"
	"github.com/SscSPs/class_credits_crm/internal/core/domain"
	portsrepo "github.com/SscSPs/class_credits_crm/internal/core/ports/repositories"
	"github.com/SscSPs/class_credits_crm/internal/models"
	"github.com/SscSPs/class_credits_crm/internal/utils/mapping"
)

const clientColumns = `client_id, phone_number, campaign_source, credits_remaining, money_balance,
	children, guardians, created_at, created_by, last_updated_at, last_updated_by, version`

type SQLiteClientRepository struct {
	db querier
}

func newSQLiteClientRepository(db querier) *SQLiteClientRepository {
	return &SQLiteClientRepository{db: db}
}

var _ portsrepo.ClientRepositoryFacade = (*SQLiteClientRepository)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (domain.Client, error) {
	var (
		m                  models.Client
		created, updated   int64
		children, guardian string
	)
	err := row.Scan(
		&m.ClientID,
		&m.PhoneNumber,
		&m.CampaignSource,
		&m.CreditsRemaining,
		&m.MoneyBalance,
		&children,
		&guardian,
		&created,
		&m.CreatedBy,
		&updated,
		&m.LastUpdatedBy,
		&m.Version,
	)
	if err != nil {
		return domain.Client{}, err
	}
	m.Children = []byte(children)
	m.Guardians = []byte(guardian)
	m.CreatedAt = fromNanos(created)
	m.LastUpdatedAt = fromNanos(updated)

	client, err := mapping.ToDomainClient(m)
	if err != nil {
		return domain.Client{}, apperrors.NewStoreError("corrupt client row", err)
	}
	return client, nil
}

func (r *SQLiteClientRepository) SaveClient(ctx context.Context, client domain.Client) error {
	m, err := mapping.ToModelClient(client)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	query := `INSERT INTO clients (` + clientColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`
	_, err = r.db.ExecContext(ctx, query,
		m.ClientID,
		m.PhoneNumber,
		m.CampaignSource,
		m.CreditsRemaining,
		m.MoneyBalance,
		string(m.Children),
		string(m.Guardians),
		toNanos(m.CreatedAt),
		m.CreatedBy,
		toNanos(m.LastUpdatedAt),
		m.LastUpdatedBy,
		m.Version,
	)
	if err != nil {
		return mapError(err, fmt.Sprintf("failed to save client %s", m.ClientID))
	}
	return nil
}

func (r *SQLiteClientRepository) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE client_id = ?;`, clientID)
	client, err := scanClient(row)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("client %s", clientID))
	}
	return &client, nil
}

func (r *SQLiteClientRepository) FindClientByPhone(ctx context.Context, phoneNumber string) (*domain.Client, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE phone_number = ?;`, phoneNumber)
	client, err := scanClient(row)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("client with phone %s", phoneNumber))
	}
	return &client, nil
}

// ListClientIDs reads only the key column, so a row with undecodable
// children or guardians is still listed.
func (r *SQLiteClientRepository) ListClientIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT client_id FROM clients ORDER BY created_at, client_id;`)
	if err != nil {
		return nil, mapError(err, "failed to query client ids")
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, mapError(err, "failed to scan client ids")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "failed to iterate client ids")
	}
	return ids, nil
}

func (r *SQLiteClientRepository) ListClients(ctx context.Context) ([]domain.Client, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY created_at, client_id;`)
	if err != nil {
		return nil, mapError(err, "failed to query clients")
	}
	defer rows.Close()

	clients := []domain.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, mapError(err, "failed to scan clients")
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "failed to iterate clients")
	}
	return clients, nil
}

func (r *SQLiteClientRepository) UpdateClient(ctx context.Context, client domain.Client) error {
	m, err := mapping.ToModelClient(client)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	query := `
		UPDATE clients SET
			phone_number = ?,
			campaign_source = ?,
			credits_remaining = ?,
			money_balance = ?,
			children = ?,
			guardians = ?,
			last_updated_at = ?,
			last_updated_by = ?,
			version = version + 1
		WHERE client_id = ? AND version = ?;
	`
	res, err := r.db.ExecContext(ctx, query,
		m.PhoneNumber,
		m.CampaignSource,
		m.CreditsRemaining,
		m.MoneyBalance,
		string(m.Children),
		string(m.Guardians),
		toNanos(m.LastUpdatedAt),
		m.LastUpdatedBy,
		m.ClientID,
		m.Version,
	)
	if err != nil {
		return mapError(err, fmt.Sprintf("failed to update client %s", m.ClientID))
	}
	n, err := affected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return versionMiss(ctx, r.db, "clients", "client_id", m.ClientID)
	}
	return nil
}

func (r *SQLiteClientRepository) DeleteClient(ctx context.Context, clientID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE client_id = ?;`, clientID)
	if err != nil {
		return mapError(err, fmt.Sprintf("failed to delete client %s", clientID))
	}
	return deleted(res, "client", clientID)
}

func deleted(res sql.Result, what, id string) error {
	n, err := affected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, what, id)
	}
	return nil
}
