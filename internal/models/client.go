package models

// Client is the clients row. Children and Guardians hold JSON arrays.
type Client struct {
	ClientID         string `db:"client_id"`
	PhoneNumber      string `db:"phone_number"`
	CampaignSource   string `db:"campaign_source"`
	CreditsRemaining int64  `db:"credits_remaining"`
	MoneyBalance     int64  `db:"money_balance"`
	Children         []byte `db:"children"`
	Guardians        []byte `db:"guardians"`
	AuditFields
}
