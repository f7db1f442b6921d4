package mapping

import (
	"fmt"

	"github.com/SscSPs/class_credits_crm/internal/core/domain"
	"github.com/SscSPs/class_credits_crm/internal/models"
)

// ToModelClassSession converts a domain ClassSession to its row.
func ToModelClassSession(d domain.ClassSession) (models.ClassSession, error) {
	regs, err := marshalList(d.Registrations)
	if err != nil {
		return models.ClassSession{}, fmt.Errorf("encode registrations of session %s: %w", d.ClassSessionID, err)
	}
	return models.ClassSession{
		ClassSessionID: d.ClassSessionID,
		SessionDate:    d.Date,
		SessionTime:    d.Time,
		Registrations:  regs,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainClassSession converts a class_sessions row to a domain ClassSession.
func ToDomainClassSession(m models.ClassSession) (domain.ClassSession, error) {
	d := domain.ClassSession{
		ClassSessionID: m.ClassSessionID,
		Date:           m.SessionDate,
		Time:           m.SessionTime,
		Registrations:  []domain.Registration{},
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
	if err := unmarshalList(m.Registrations, &d.Registrations); err != nil {
		return domain.ClassSession{}, fmt.Errorf("decode registrations of session %s: %w", m.ClassSessionID, err)
	}
	return d, nil
}

func ToDomainClassSessionSlice(ms []models.ClassSession) ([]domain.ClassSession, error) {
	out := make([]domain.ClassSession, 0, len(ms))
	for _, m := range ms {
		d, err := ToDomainClassSession(m)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
