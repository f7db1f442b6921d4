package domain

import (
	"fmt"
	"time"
)

// Layouts used for the session date and start time.
const (
	SessionDateLayout = "2006-01-02"
	SessionTimeLayout = "15:04"
)

// RegistrationStatus is the attendance state of one registration.
type RegistrationStatus string

const (
	StatusRegistered RegistrationStatus = "REGISTERED"
	StatusAttended   RegistrationStatus = "ATTENDED"
)

// Registration enrolls one child of a client into a class session.
// Attended and Paid describe one fact and always move together.
type Registration struct {
	ClientID  string `json:"clientID"`
	ChildID   string `json:"childID"`
	ChildName string `json:"childName"`
	Attended  bool   `json:"attended"`
	Paid      bool   `json:"paid"`
}

// Status reports the registration state.
func (r Registration) Status() RegistrationStatus {
	if r.Attended {
		return StatusAttended
	}
	return StatusRegistered
}

func (r *Registration) markAttended() {
	r.Attended = true
	r.Paid = true
}

func (r *Registration) markRegistered() {
	r.Attended = false
	r.Paid = false
}

// ClassSession is a single scheduled class and its registration list.
type ClassSession struct {
	ClassSessionID string         `json:"classSessionID"`
	Date           string         `json:"date"` // YYYY-MM-DD
	Time           string         `json:"time"` // HH:MM
	Registrations  []Registration `json:"registrations"`
	AuditFields
}

// StartsAt resolves the session start in loc.
func (s *ClassSession) StartsAt(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(SessionDateLayout+" "+SessionTimeLayout, s.Date+" "+s.Time, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid session date/time %q %q: %w", s.Date, s.Time, err)
	}
	return t, nil
}

// FindRegistration returns the index of the (client, child) registration or -1.
func (s *ClassSession) FindRegistration(clientID, childID string) int {
	for i, reg := range s.Registrations {
		if reg.ClientID == clientID && reg.ChildID == childID {
			return i
		}
	}
	return -1
}

// HasOtherAttended reports whether another child of the client is already attended in this session.
func (s *ClassSession) HasOtherAttended(clientID, childID string) bool {
	for _, reg := range s.Registrations {
		if reg.ClientID == clientID && reg.ChildID != childID && reg.Attended {
			return true
		}
	}
	return false
}

// AttendedCount counts attended registrations, for all clients when clientID is empty.
func (s *ClassSession) AttendedCount(clientID string) int {
	n := 0
	for _, reg := range s.Registrations {
		if reg.Attended && (clientID == "" || reg.ClientID == clientID) {
			n++
		}
	}
	return n
}

// Register appends a fresh REGISTERED entry. The caller checks for duplicates.
func (s *ClassSession) Register(clientID, childID, childName string) {
	s.Registrations = append(s.Registrations, Registration{
		ClientID:  clientID,
		ChildID:   childID,
		ChildName: childName,
	})
}

// MarkAttended flips the registration at idx to ATTENDED.
func (s *ClassSession) MarkAttended(idx int) {
	s.Registrations[idx].markAttended()
}

// MarkRegistered flips the registration at idx back to REGISTERED.
func (s *ClassSession) MarkRegistered(idx int) {
	s.Registrations[idx].markRegistered()
}

// RemoveRegistration drops the registration at idx and returns it.
func (s *ClassSession) RemoveRegistration(idx int) Registration {
	removed := s.Registrations[idx]
	s.Registrations = append(s.Registrations[:idx:idx], s.Registrations[idx+1:]...)
	return removed
}
