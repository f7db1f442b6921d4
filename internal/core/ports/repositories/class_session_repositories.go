package repositories

import (
	"context"

	"github.com/SscSPs/class_credits_crm/internal/core/domain"
)

// ClassSessionReader defines read operations for class sessions
type ClassSessionReader interface {
	// FindClassSessionByID retrieves a session with its registrations.
	FindClassSessionByID(ctx context.Context, sessionID string) (*domain.ClassSession, error)

	// ListClassSessionsByDate returns the sessions on date (YYYY-MM-DD) sorted by time.
	ListClassSessionsByDate(ctx context.Context, date string) ([]domain.ClassSession, error)
}

// ClassSessionWriter defines write operations for class sessions
type ClassSessionWriter interface {
	// SaveClassSession persists a new session.
	SaveClassSession(ctx context.Context, session domain.ClassSession) error

	// UpdateClassSession overwrites a session if the stored version still equals
	// session.Version. On success the stored version becomes session.Version+1.
	UpdateClassSession(ctx context.Context, session domain.ClassSession) error

	// DeleteClassSession removes a session and its registrations.
	DeleteClassSession(ctx context.Context, sessionID string) error
}

// ClassSessionRepositoryFacade combines all class session repository interfaces
type ClassSessionRepositoryFacade interface {
	ClassSessionReader
	ClassSessionWriter
}
