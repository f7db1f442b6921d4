package dto

import (
	"time"

	"github.com/SscSPs/class_credits_crm/internal/core/domain"
)

// ChildInput describes a child supplied when creating or updating a client.
type ChildInput struct {
	ChildID   string `json:"childID"` // Optional, generated when empty
	Name      string `json:"name" binding:"required"`
	BirthDate string `json:"birthDate" binding:"omitempty,datetime=2006-01-02"`
	School    string `json:"school"`
}

// GuardianInput describes a guardian supplied when creating or updating a client.
type GuardianInput struct {
	GuardianID string `json:"guardianID"` // Optional, generated when empty
	Name       string `json:"name" binding:"required"`
	Contact    string `json:"contact"`
}

// CreateClientRequest defines the data needed to create a new client.
type CreateClientRequest struct {
	PhoneNumber    string          `json:"phoneNumber" binding:"required"`
	CampaignSource string          `json:"campaignSource"`
	Children       []ChildInput    `json:"children" binding:"dive"`
	Guardians      []GuardianInput `json:"guardians" binding:"dive"`
}

// UpdateClientRequest changes a client's profile. Omitted fields are kept;
// a supplied children or guardians list replaces the stored one. Balances
// are never touched here.
type UpdateClientRequest struct {
	PhoneNumber    *string         `json:"phoneNumber" binding:"omitempty,min=1"`
	CampaignSource *string         `json:"campaignSource"`
	Children       []ChildInput    `json:"children" binding:"omitempty,dive"`
	Guardians      []GuardianInput `json:"guardians" binding:"omitempty,dive"`
}

// Empty reports whether the request changes nothing.
func (r UpdateClientRequest) Empty() bool {
	return r.PhoneNumber == nil && r.CampaignSource == nil && r.Children == nil && r.Guardians == nil
}

// ListClientsParams defines query parameters for listing clients.
type ListClientsParams struct {
	Phone string `form:"phone"` // Exact match; empty lists every client
}

// ClientResponse defines the data returned for a client.
type ClientResponse struct {
	ClientID         string            `json:"clientID"`
	PhoneNumber      string            `json:"phoneNumber"`
	CampaignSource   string            `json:"campaignSource"`
	CreditsRemaining int64             `json:"creditsRemaining"`
	MoneyBalance     int64             `json:"moneyBalance"`
	Children         []domain.Child    `json:"children"`
	Guardians        []domain.Guardian `json:"guardians"`
	Version          int64             `json:"version"`
	CreatedAt        time.Time         `json:"createdAt"`
	CreatedBy        string            `json:"createdBy"`
	LastUpdatedAt    time.Time         `json:"lastUpdatedAt"`
	LastUpdatedBy    string            `json:"lastUpdatedBy"`
}

// ToClientResponse converts a domain.Client to ClientResponse DTO
func ToClientResponse(c *domain.Client) ClientResponse {
	children := c.Children
	if children == nil {
		children = []domain.Child{}
	}
	guardians := c.Guardians
	if guardians == nil {
		guardians = []domain.Guardian{}
	}
	return ClientResponse{
		ClientID:         c.ClientID,
		PhoneNumber:      c.PhoneNumber,
		CampaignSource:   c.CampaignSource,
		CreditsRemaining: c.CreditsRemaining,
		MoneyBalance:     c.MoneyBalance,
		Children:         children,
		Guardians:        guardians,
		Version:          c.Version,
		CreatedAt:        c.CreatedAt,
		CreatedBy:        c.CreatedBy,
		LastUpdatedAt:    c.LastUpdatedAt,
		LastUpdatedBy:    c.LastUpdatedBy,
	}
}

// ToListClientResponse converts a slice of domain.Client to a slice of ClientResponse DTOs
func ToListClientResponse(clients []domain.Client) []ClientResponse {
	res := make([]ClientResponse, len(clients))
	for i := range clients {
		res[i] = ToClientResponse(&clients[i])
	}
	return res
}
