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

const classSessionColumns = `class_session_id, session_date, session_time, registrations,
	created_at, created_by, last_updated_at, last_updated_by, version`

type PgxClassSessionRepository struct {
	db querier
}

func newPgxClassSessionRepository(db querier) *PgxClassSessionRepository {
	return &PgxClassSessionRepository{db: db}
}

var _ portsrepo.ClassSessionRepositoryFacade = (*PgxClassSessionRepository)(nil)

func (r *PgxClassSessionRepository) SaveClassSession(ctx context.Context, session domain.ClassSession) error {
	m, err := mapping.ToModelClassSession(session)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	query := `
		INSERT INTO class_sessions (` + classSessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = r.db.Exec(ctx, query,
		m.ClassSessionID,
		m.SessionDate,
		m.SessionTime,
		m.Registrations,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.Version,
	)
	if err != nil {
		return mapError(err, fmt.Sprintf("failed to save class session %s", m.ClassSessionID))
	}
	return nil
}

func (r *PgxClassSessionRepository) FindClassSessionByID(ctx context.Context, sessionID string) (*domain.ClassSession, error) {
	query := `SELECT ` + classSessionColumns + ` FROM class_sessions WHERE class_session_id = $1;`
	rows, err := r.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, mapError(err, "failed to query class session")
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.ClassSession])
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("class session %s", sessionID))
	}

	session, err := mapping.ToDomainClassSession(m)
	if err != nil {
		return nil, apperrors.NewStoreError("corrupt class session row", err)
	}
	return &session, nil
}

// ListClassSessionsByDate returns the sessions of one day ordered by start time.
func (r *PgxClassSessionRepository) ListClassSessionsByDate(ctx context.Context, date string) ([]domain.ClassSession, error) {
	query := `
		SELECT ` + classSessionColumns + `
		FROM class_sessions
		WHERE session_date = $1
		ORDER BY session_time, class_session_id;
	`
	rows, err := r.db.Query(ctx, query, date)
	if err != nil {
		return nil, mapError(err, "failed to query class sessions")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.ClassSession])
	if err != nil {
		return nil, mapError(err, "failed to scan class sessions")
	}

	sessions, err := mapping.ToDomainClassSessionSlice(ms)
	if err != nil {
		return nil, apperrors.NewStoreError("corrupt class session row", err)
	}
	return sessions, nil
}

func (r *PgxClassSessionRepository) UpdateClassSession(ctx context.Context, session domain.ClassSession) error {
	m, err := mapping.ToModelClassSession(session)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	query := `
		UPDATE class_sessions SET
			session_date = $2,
			session_time = $3,
			registrations = $4,
			last_updated_at = $5,
			last_updated_by = $6,
			version = version + 1
		WHERE class_session_id = $1 AND version = $7;
	`
	tag, err := r.db.Exec(ctx, query,
		m.ClassSessionID,
		m.SessionDate,
		m.SessionTime,
		m.Registrations,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.Version,
	)
	if err != nil {
		return mapError(err, fmt.Sprintf("failed to update class session %s", m.ClassSessionID))
	}
	if tag.RowsAffected() == 0 {
		return versionMiss(ctx, r.db, "class_sessions", "class_session_id", m.ClassSessionID)
	}
	return nil
}

func (r *PgxClassSessionRepository) DeleteClassSession(ctx context.Context, sessionID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM class_sessions WHERE class_session_id = $1;`, sessionID)
	if err != nil {
		return mapError(err, fmt.Sprintf("failed to delete class session %s", sessionID))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: class session %s", apperrors.ErrNotFound, sessionID)
	}
	return nil
}
