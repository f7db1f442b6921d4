package dto

import (
	"time"

	"github.com/SscSPs/class_credits_crm/internal/core/domain"
)

// CreateClassSessionRequest defines the data needed to schedule a class.
type CreateClassSessionRequest struct {
	Date string `json:"date" binding:"required,datetime=2006-01-02"`
	Time string `json:"time" binding:"required,datetime=15:04"`
}

// ListClassSessionsParams selects the sessions of one day.
type ListClassSessionsParams struct {
	Date string `form:"date" binding:"required,datetime=2006-01-02"`
}

// RegisterChildRequest enrolls a client's child into a class.
type RegisterChildRequest struct {
	ClientID  string `json:"clientID" binding:"required"`
	ChildID   string `json:"childID" binding:"required"`
	ChildName string `json:"childName"` // Optional, looked up on the client when empty
}

// RegistrationResponse is one entry of a class roster.
type RegistrationResponse struct {
	ClientID  string `json:"clientID"`
	ChildID   string `json:"childID"`
	ChildName string `json:"childName"`
	Status    string `json:"status"`
	Attended  bool   `json:"attended"`
	Paid      bool   `json:"paid"`
}

// ClassSessionResponse defines the data returned for a class session.
type ClassSessionResponse struct {
	ClassSessionID string                 `json:"classSessionID"`
	Date           string                 `json:"date"`
	Time           string                 `json:"time"`
	Registrations  []RegistrationResponse `json:"registrations"`
	Version        int64                  `json:"version"`
	CreatedAt      time.Time              `json:"createdAt"`
	CreatedBy      string                 `json:"createdBy"`
	LastUpdatedAt  time.Time              `json:"lastUpdatedAt"`
	LastUpdatedBy  string                 `json:"lastUpdatedBy"`
}

// AttendanceResponse describes the outcome of marking or cancelling attendance.
type AttendanceResponse struct {
	Session     ClassSessionResponse `json:"session"`
	Client      *ClientResponse      `json:"client,omitempty"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
	Changed     bool                 `json:"changed"`
	Charged     bool                 `json:"charged"`
	Refunded    bool                 `json:"refunded"`
}

// ToClassSessionResponse converts a domain.ClassSession to ClassSessionResponse DTO
func ToClassSessionResponse(cs *domain.ClassSession) ClassSessionResponse {
	regs := make([]RegistrationResponse, len(cs.Registrations))
	for i, r := range cs.Registrations {
		regs[i] = RegistrationResponse{
			ClientID:  r.ClientID,
			ChildID:   r.ChildID,
			ChildName: r.ChildName,
			Status:    string(r.Status()),
			Attended:  r.Attended,
			Paid:      r.Paid,
		}
	}
	return ClassSessionResponse{
		ClassSessionID: cs.ClassSessionID,
		Date:           cs.Date,
		Time:           cs.Time,
		Registrations:  regs,
		Version:        cs.Version,
		CreatedAt:      cs.CreatedAt,
		CreatedBy:      cs.CreatedBy,
		LastUpdatedAt:  cs.LastUpdatedAt,
		LastUpdatedBy:  cs.LastUpdatedBy,
	}
}

// ToListClassSessionResponse converts a slice of sessions.
func ToListClassSessionResponse(sessions []domain.ClassSession) []ClassSessionResponse {
	res := make([]ClassSessionResponse, len(sessions))
	for i := range sessions {
		res[i] = ToClassSessionResponse(&sessions[i])
	}
	return res
}

// ToAttendanceResponse converts an attendance transition result.
func ToAttendanceResponse(r *domain.AttendanceResult) AttendanceResponse {
	resp := AttendanceResponse{
		Session:  ToClassSessionResponse(r.Session),
		Changed:  r.Changed,
		Charged:  r.Charged,
		Refunded: r.Refunded,
	}
	if r.Client != nil {
		c := ToClientResponse(r.Client)
		resp.Client = &c
	}
	if r.Transaction != nil {
		t := ToTransactionResponse(r.Transaction)
		resp.Transaction = &t
	}
	return resp
}
