package services

import (
	"context"

	"github.com/SscSPs/class_credits_crm/internal/core/domain"
	"github.com/SscSPs/class_credits_crm/internal/dto"
)

// ClassSessionReaderSvc defines read operations for class sessions
type ClassSessionReaderSvc interface {
	GetClassSession(ctx context.Context, sessionID string) (*domain.ClassSession, error)

	// ListClassSessionsByDate returns the sessions of one day sorted by start time.
	ListClassSessionsByDate(ctx context.Context, date string) ([]domain.ClassSession, error)
}

// ClassSessionWriterSvc defines write operations for class sessions
type ClassSessionWriterSvc interface {
	CreateClassSession(ctx context.Context, req dto.CreateClassSessionRequest, actorID string) (*domain.ClassSession, error)

	// DeleteClassSession removes a session. Attended registrations are not refunded.
	DeleteClassSession(ctx context.Context, sessionID string, actorID string) error
}

// AttendanceSvc drives the registration lifecycle of a child in a session.
type AttendanceSvc interface {
	// RegisterChild adds a REGISTERED entry. No ledger effect.
	RegisterChild(ctx context.Context, sessionID string, req dto.RegisterChildRequest, actorID string) (*domain.ClassSession, error)

	// MarkAttended moves an entry to ATTENDED, debiting the client once per session.
	MarkAttended(ctx context.Context, sessionID, clientID, childID, actorID string) (*domain.AttendanceResult, error)

	// CancelAttendance moves an entry back to REGISTERED, refunding when the
	// client has no attended child left in the session.
	CancelAttendance(ctx context.Context, sessionID, clientID, childID, actorID string) (*domain.AttendanceResult, error)

	// DeleteRegistration drops an entry without any ledger reversal.
	DeleteRegistration(ctx context.Context, sessionID, clientID, childID, actorID string) (*domain.ClassSession, error)
}

// AttendanceSvcFacade combines all class session service interfaces
type AttendanceSvcFacade interface {
	ClassSessionReaderSvc
	ClassSessionWriterSvc
	AttendanceSvc
}
