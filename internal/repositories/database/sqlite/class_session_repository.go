package sqlite

import (
	"context"
	"fmt"

	"github.com/SscSPs/class_credits_crm/internal/apperrors"
	"github.com/SscSPs/class_credits_crm/internal/core/domain"
	portsrepo "github.com/SscSPs/class_credits_crm/internal/core/ports/repositories"
	"github.com/SscSPs/class_credits_crm/internal/models"
	"github.com/SscSPs/class_credits_crm/internal/utils/mapping"
)

const classSessionColumns = `class_session_id, session_date, session_time, registrations,
	created_at, created_by, last_updated_at, last_updated_by, version`

type SQLiteClassSessionRepository struct {
	db querier
}

func newSQLiteClassSessionRepository(db querier) *SQLiteClassSessionRepository {
	return &SQLiteClassSessionRepository{db: db}
}

var _ portsrepo.ClassSessionRepositoryFacade = (*SQLiteClassSessionRepository)(nil)

func scanClassSession(row rowScanner) (domain.ClassSession, error) {
	var (
		m                models.ClassSession
		regs             string
		created, updated int64
	)
	err := row.Scan(
		&m.ClassSessionID,
		&m.SessionDate,
		&m.SessionTime,
		&regs,
		&created,
		&m.CreatedBy,
		&updated,
		&m.LastUpdatedBy,
		&m.Version,
	)
	if err != nil {
		return domain.ClassSession{}, err
	}
	m.Registrations = []byte(regs)
	m.CreatedAt = fromNanos(created)
	m.LastUpdatedAt = fromNanos(updated)

	session, err := mapping.ToDomainClassSession(m)
	if err != nil {
		return domain.ClassSession{}, apperrors.NewStoreError("corrupt class session row", err)
	}
	return session, nil
}

func (r *SQLiteClassSessionRepository) SaveClassSession(ctx context.Context, session domain.ClassSession) error {
	m, err := mapping.ToModelClassSession(session)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	query := `INSERT INTO class_sessions (` + classSessionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`
	_, err = r.db.ExecContext(ctx, query,
		m.ClassSessionID,
		m.SessionDate,
		m.SessionTime,
		string(m.Registrations),
		toNanos(m.CreatedAt),
		m.CreatedBy,
		toNanos(m.LastUpdatedAt),
		m.LastUpdatedBy,
		m.Version,
	)
	if err != nil {
		return mapError(err, fmt.Sprintf("failed to save class session %s", m.ClassSessionID))
	}
	return nil
}

func (r *SQLiteClassSessionRepository) FindClassSessionByID(ctx context.Context, sessionID string) (*domain.ClassSession, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+classSessionColumns+` FROM class_sessions WHERE class_session_id = ?;`, sessionID)
	session, err := scanClassSession(row)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("class session %s", sessionID))
	}
	return &session, nil
}

func (r *SQLiteClassSessionRepository) ListClassSessionsByDate(ctx context.Context, date string) ([]domain.ClassSession, error) {
	query := `SELECT ` + classSessionColumns + ` FROM class_sessions WHERE session_date = ? ORDER BY session_time, class_session_id;`
	rows, err := r.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, mapError(err, "failed to query class sessions")
	}
	defer rows.Close()

	sessions := []domain.ClassSession{}
	for rows.Next() {
		s, err := scanClassSession(rows)
		if err != nil {
			return nil, mapError(err, "failed to scan class sessions")
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "failed to iterate class sessions")
	}
	return sessions, nil
}

func (r *SQLiteClassSessionRepository) UpdateClassSession(ctx context.Context, session domain.ClassSession) error {
	m, err := mapping.ToModelClassSession(session)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	query := `
		UPDATE class_sessions SET
			session_date = ?,
			session_time = ?,
			registrations = ?,
			last_updated_at = ?,
			last_updated_by = ?,
			version = version + 1
		WHERE class_session_id = ? AND version = ?;
	`
	res, err := r.db.ExecContext(ctx, query,
		m.SessionDate,
		m.SessionTime,
		string(m.Registrations),
		toNanos(m.LastUpdatedAt),
		m.LastUpdatedBy,
		m.ClassSessionID,
		m.Version,
	)
	if err != nil {
		return mapError(err, fmt.Sprintf("failed to update class session %s", m.ClassSessionID))
	}
	n, err := affected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return versionMiss(ctx, r.db, "class_sessions", "class_session_id", m.ClassSessionID)
	}
	return nil
}

func (r *SQLiteClassSessionRepository) DeleteClassSession(ctx context.Context, sessionID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM class_sessions WHERE class_session_id = ?;`, sessionID)
	if err != nil {
		return mapError(err, fmt.Sprintf("failed to delete class session %s", sessionID))
	}
	return deleted(res, "class session", sessionID)
}
