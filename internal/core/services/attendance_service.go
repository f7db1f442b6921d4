package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/class_credits_crm/internal/apperrors"
	"github.com/SscSPs/class_credits_crm/internal/core/domain"
	portsrepo "github.com/SscSPs/class_credits_crm/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/class_credits_crm/internal/core/ports/services"
	"github.com/SscSPs/class_credits_crm/internal/dto"
	"github.com/SscSPs/class_credits_crm/internal/utils/accounting"
)

// Effects recorded on the attendance transition counter.
const (
	effectCharged  = "charged"
	effectRefunded = "refunded"
	effectShared   = "shared" // another child of the client already paid for the session
	effectNoop     = "noop"
)

// attendanceService owns class sessions and the attendance state machine.
// Every transition that touches the ledger runs in one unit of work so the
// roster, the ledger entry and the client counter commit together.
type attendanceService struct {
	BaseService
	sessionRepo portsrepo.ClassSessionRepositoryFacade
	uow         portsrepo.UnitOfWork
}

// NewAttendanceService creates a new AttendanceSvcFacade.
func NewAttendanceService(repos portsrepo.RepositoryProvider, opts ...Option) portssvc.AttendanceSvcFacade {
	return &attendanceService{
		BaseService: newBaseService(opts),
		sessionRepo: repos.ClassSessionRepo,
		uow:         repos.UnitOfWork,
	}
}

var _ portssvc.AttendanceSvcFacade = (*attendanceService)(nil)

func (s *attendanceService) CreateClassSession(ctx context.Context, req dto.CreateClassSessionRequest, actorID string) (*domain.ClassSession, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	now := s.Now()
	session := domain.ClassSession{
		ClassSessionID: uuid.NewString(),
		Date:           req.Date,
		Time:           req.Time,
		Registrations:  []domain.Registration{},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
			Version:       1,
		},
	}
	if _, err := session.StartsAt(s.Cancellation.Location); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	if err := s.sessionRepo.SaveClassSession(ctx, session); err != nil {
		s.LogError(ctx, err, "Failed to save class session", slog.String("class_session_id", session.ClassSessionID))
		return nil, fmt.Errorf("failed to save class session: %w", err)
	}

	s.LogInfo(ctx, "Class session created",
		slog.String("class_session_id", session.ClassSessionID),
		slog.String("date", session.Date),
		slog.String("time", session.Time))
	return &session, nil
}

func (s *attendanceService) GetClassSession(ctx context.Context, sessionID string) (*domain.ClassSession, error) {
	session, err := s.sessionRepo.FindClassSessionByID(ctx, sessionID)
	if err != nil {
		s.logUnlessNotFound(ctx, err, "Failed to find class session", slog.String("class_session_id", sessionID))
		return nil, err
	}
	return session, nil
}

func (s *attendanceService) ListClassSessionsByDate(ctx context.Context, date string) ([]domain.ClassSession, error) {
	if _, err := time.Parse(domain.SessionDateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", apperrors.ErrValidation, date)
	}
	sessions, err := s.sessionRepo.ListClassSessionsByDate(ctx, date)
	if err != nil {
		s.LogError(ctx, err, "Failed to list class sessions", slog.String("date", date))
		return nil, fmt.Errorf("failed to list class sessions: %w", err)
	}
	return sessions, nil
}

func (s *attendanceService) DeleteClassSession(ctx context.Context, sessionID string, actorID string) error {
	var attended int
	err := s.retryOnConflict(ctx, "delete_class_session", func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
			session, err := store.FindClassSessionByID(ctx, sessionID)
			if err != nil {
				return err
			}
			attended = session.AttendedCount("")
			return store.DeleteClassSession(ctx, sessionID)
		})
	})
	if err != nil {
		s.logUnlessNotFound(ctx, err, "Failed to delete class session", slog.String("class_session_id", sessionID))
		return err
	}

	if attended > 0 {
		s.LogWarn(ctx, "Deleted class session had attended registrations, nothing was refunded",
			slog.String("class_session_id", sessionID),
			slog.Int("attended", attended),
			slog.String("actor_id", actorID))
	} else {
		s.LogInfo(ctx, "Class session deleted", slog.String("class_session_id", sessionID), slog.String("actor_id", actorID))
	}
	return nil
}

func (s *attendanceService) RegisterChild(ctx context.Context, sessionID string, req dto.RegisterChildRequest, actorID string) (*domain.ClassSession, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	var session *domain.ClassSession
	err := s.retryOnConflict(ctx, "register_child", func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
			var err error
			session, err = store.FindClassSessionByID(ctx, sessionID)
			if err != nil {
				return err
			}
			client, err := store.FindClientByID(ctx, req.ClientID)
			if err != nil {
				return err
			}
			if session.FindRegistration(req.ClientID, req.ChildID) >= 0 {
				return fmt.Errorf("%w: child %s of client %s is already registered for session %s",
					apperrors.ErrDuplicate, req.ChildID, req.ClientID, sessionID)
			}

			childName := req.ChildName
			if childName == "" {
				if child, ok := client.FindChild(req.ChildID); ok {
					childName = child.Name
				}
			}
			if childName == "" {
				return fmt.Errorf("%w: child name is required for unknown child %s", apperrors.ErrValidation, req.ChildID)
			}

			session.Register(req.ClientID, req.ChildID, childName)
			session.Touch(actorID, s.Now())
			if err := store.UpdateClassSession(ctx, *session); err != nil {
				return err
			}
			session.Version++
			return nil
		})
	})
	if err != nil {
		s.logUnlessNotFound(ctx, err, "Failed to register child",
			slog.String("class_session_id", sessionID),
			slog.String("client_id", req.ClientID),
			slog.String("child_id", req.ChildID))
		return nil, err
	}

	s.LogInfo(ctx, "Child registered",
		slog.String("class_session_id", sessionID),
		slog.String("client_id", req.ClientID),
		slog.String("child_id", req.ChildID))
	return session, nil
}

// MarkAttended moves a registration to ATTENDED. The client is debited only
// when none of its other children is already attended in the session, and an
// already attended registration is left alone.
func (s *attendanceService) MarkAttended(ctx context.Context, sessionID, clientID, childID, actorID string) (*domain.AttendanceResult, error) {
	var result *domain.AttendanceResult
	err := s.retryOnConflict(ctx, "mark_attended", func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
			session, err := store.FindClassSessionByID(ctx, sessionID)
			if err != nil {
				return err
			}
			idx := session.FindRegistration(clientID, childID)
			if idx < 0 {
				return fmt.Errorf("%w: child %s of client %s is not registered for session %s",
					apperrors.ErrNotFound, childID, clientID, sessionID)
			}

			result = &domain.AttendanceResult{Session: session}
			if session.Registrations[idx].Attended {
				return nil
			}

			result.Changed = true
			now := s.Now()
			if !session.HasOtherAttended(clientID, childID) {
				client, err := store.FindClientByID(ctx, clientID)
				if err != nil {
					return err
				}
				updated, txn, err := accounting.ApplyDebit(*client, accounting.EntryContext{
					ClassSessionID: &session.ClassSessionID,
					Description:    fmt.Sprintf("Class attended %s %s", session.Date, session.Time),
					ActorID:        actorID,
					At:             now,
				})
				if err != nil {
					return err
				}
				if _, err := store.AppendTransaction(ctx, txn); err != nil {
					return fmt.Errorf("failed to append debit entry: %w", err)
				}
				if err := store.UpdateClient(ctx, updated); err != nil {
					return err
				}
				updated.Version++
				result.Client = &updated
				result.Transaction = &txn
				result.Charged = true
			}

			session.MarkAttended(idx)
			session.Touch(actorID, now)
			if err := store.UpdateClassSession(ctx, *session); err != nil {
				return err
			}
			session.Version++
			return nil
		})
	})
	if err != nil {
		s.logUnlessNotFound(ctx, err, "Failed to mark attendance",
			slog.String("class_session_id", sessionID),
			slog.String("client_id", clientID),
			slog.String("child_id", childID))
		return nil, err
	}

	s.recordTransition(ctx, "mark", result, sessionID, clientID, childID)
	return result, nil
}

// CancelAttendance moves an ATTENDED registration back to REGISTERED. The
// client is refunded only when it has no other attended child in the session.
func (s *attendanceService) CancelAttendance(ctx context.Context, sessionID, clientID, childID, actorID string) (*domain.AttendanceResult, error) {
	var result *domain.AttendanceResult
	err := s.retryOnConflict(ctx, "cancel_attendance", func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
			session, err := store.FindClassSessionByID(ctx, sessionID)
			if err != nil {
				return err
			}
			idx := session.FindRegistration(clientID, childID)
			if idx < 0 {
				return fmt.Errorf("%w: child %s of client %s is not registered for session %s",
					apperrors.ErrNotFound, childID, clientID, sessionID)
			}

			result = &domain.AttendanceResult{Session: session}
			if !session.Registrations[idx].Attended {
				return nil
			}

			now := s.Now()
			if err := s.Cancellation.Check(session, now); err != nil {
				return err
			}

			session.MarkRegistered(idx)
			session.Touch(actorID, now)
			result.Changed = true

			if session.AttendedCount(clientID) == 0 {
				client, err := store.FindClientByID(ctx, clientID)
				if err != nil {
					return err
				}
				updated, txn := accounting.ReverseDebit(*client, accounting.EntryContext{
					ClassSessionID: &session.ClassSessionID,
					Description:    fmt.Sprintf("Attendance cancelled %s %s", session.Date, session.Time),
					ActorID:        actorID,
					At:             now,
				})
				if _, err := store.AppendTransaction(ctx, txn); err != nil {
					return fmt.Errorf("failed to append reversal entry: %w", err)
				}
				if err := store.UpdateClient(ctx, updated); err != nil {
					return err
				}
				updated.Version++
				result.Client = &updated
				result.Transaction = &txn
				result.Refunded = true
			}

			if err := store.UpdateClassSession(ctx, *session); err != nil {
				return err
			}
			session.Version++
			return nil
		})
	})
	if err != nil {
		s.logUnlessNotFound(ctx, err, "Failed to cancel attendance",
			slog.String("class_session_id", sessionID),
			slog.String("client_id", clientID),
			slog.String("child_id", childID))
		return nil, err
	}

	s.recordTransition(ctx, "cancel", result, sessionID, clientID, childID)
	return result, nil
}

func (s *attendanceService) DeleteRegistration(ctx context.Context, sessionID, clientID, childID, actorID string) (*domain.ClassSession, error) {
	var (
		session *domain.ClassSession
		removed domain.Registration
	)
	err := s.retryOnConflict(ctx, "delete_registration", func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
			var err error
			session, err = store.FindClassSessionByID(ctx, sessionID)
			if err != nil {
				return err
			}
			idx := session.FindRegistration(clientID, childID)
			if idx < 0 {
				return fmt.Errorf("%w: child %s of client %s is not registered for session %s",
					apperrors.ErrNotFound, childID, clientID, sessionID)
			}
			removed = session.RemoveRegistration(idx)
			session.Touch(actorID, s.Now())
			if err := store.UpdateClassSession(ctx, *session); err != nil {
				return err
			}
			session.Version++
			return nil
		})
	})
	if err != nil {
		s.logUnlessNotFound(ctx, err, "Failed to delete registration",
			slog.String("class_session_id", sessionID),
			slog.String("client_id", clientID),
			slog.String("child_id", childID))
		return nil, err
	}

	if removed.Attended {
		s.LogWarn(ctx, "Deleted an attended registration, nothing was refunded",
			slog.String("class_session_id", sessionID),
			slog.String("client_id", clientID),
			slog.String("child_id", childID),
			slog.String("actor_id", actorID))
	}
	return session, nil
}

func (s *attendanceService) recordTransition(ctx context.Context, transition string, result *domain.AttendanceResult, sessionID, clientID, childID string) {
	effect := effectNoop
	switch {
	case result.Charged:
		effect = effectCharged
		s.Metrics.LedgerEntry(string(domain.Debit))
	case result.Refunded:
		effect = effectRefunded
		s.Metrics.LedgerEntry(string(domain.Credit))
	case result.Changed:
		effect = effectShared
	}
	s.Metrics.Attendance(transition, effect)

	attrs := []any{
		slog.String("transition", transition),
		slog.String("effect", effect),
		slog.String("class_session_id", sessionID),
		slog.String("client_id", clientID),
		slog.String("child_id", childID),
	}
	if result.Client != nil {
		attrs = append(attrs, slog.Int64("credits_remaining", result.Client.CreditsRemaining))
	}
	s.LogInfo(ctx, "Attendance updated", attrs...)
}
