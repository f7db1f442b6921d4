package domain

import "time"

// AuditFields holds standard audit information for domain entities.
// Version is the optimistic-concurrency token; writers must present the
// version they read and the store bumps it on every successful update.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // Operator ID
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // Operator ID
	Version       int64     `json:"version"`
}

// Touch stamps the last-updated fields.
func (a *AuditFields) Touch(actorID string, now time.Time) {
	a.LastUpdatedAt = now
	a.LastUpdatedBy = actorID
}
