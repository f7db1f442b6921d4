package services

import (
	"fmt"
	"time"

	"github.com/SscSPs/class_credits_crm/internal/apperrors"
	"github.com/SscSPs/class_credits_crm/internal/core/domain"
)

// CancellationPolicy limits how long after a session starts its attendance
// can still be cancelled. A zero Window means no limit.
type CancellationPolicy struct {
	Window   time.Duration
	Location *time.Location
}

// Check returns ErrCancellationWindowClosed when now is past the session start plus Window.
func (p CancellationPolicy) Check(session *domain.ClassSession, now time.Time) error {
	if p.Window <= 0 {
		return nil
	}
	startsAt, err := session.StartsAt(p.Location)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	deadline := startsAt.Add(p.Window)
	if now.After(deadline) {
		return fmt.Errorf("%w: session %s could be cancelled until %s",
			apperrors.ErrCancellationWindowClosed, session.ClassSessionID, deadline.Format(time.RFC3339))
	}
	return nil
}
