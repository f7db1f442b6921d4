package domain

// Child is a client's child who can be registered into class sessions.
type Child struct {
	ChildID   string `json:"childID"`
	Name      string `json:"name"`
	BirthDate string `json:"birthDate,omitempty"` // YYYY-MM-DD
	School    string `json:"school,omitempty"`
}

// Guardian is a contact person attached to a client.
type Guardian struct {
	GuardianID string `json:"guardianID"`
	Name       string `json:"name"`
	Contact    string `json:"contact,omitempty"`
}

// Client is a paying family. CreditsRemaining is a cache of the ledger and must
// only be changed by the accounting functions or by reconciliation.
type Client struct {
	ClientID         string     `json:"clientID"`
	PhoneNumber      string     `json:"phoneNumber"`
	CampaignSource   string     `json:"campaignSource"`
	CreditsRemaining int64      `json:"creditsRemaining"`
	MoneyBalance     int64      `json:"moneyBalance"` // minor currency units
	Children         []Child    `json:"children"`
	Guardians        []Guardian `json:"guardians"`
	AuditFields
}

// FindChild returns the child with the given ID.
func (c *Client) FindChild(childID string) (Child, bool) {
	for _, ch := range c.Children {
		if ch.ChildID == childID {
			return ch, true
		}
	}
	return Child{}, false
}
