package domain

// BalanceCorrection is the outcome of reconciling one client.
type BalanceCorrection struct {
	ClientID string `json:"clientID"`
	Old      int64  `json:"old"`
	New      int64  `json:"new"`
	Changed  bool   `json:"changed"`
}

// ReconciliationFailure records a client that could not be reconciled.
type ReconciliationFailure struct {
	ClientID string `json:"clientID"`
	Error    string `json:"error"`
}

// ReconciliationReport summarises a batch reconciliation run.
type ReconciliationReport struct {
	Fixed       int                     `json:"fixed"`
	Errors      int                     `json:"errors"`
	Total       int                     `json:"total"`
	DryRun      bool                    `json:"dryRun"`
	Corrections []BalanceCorrection     `json:"corrections"`
	Failures    []ReconciliationFailure `json:"failures"`
}

// AttendanceResult describes the effect of one attendance transition.
type AttendanceResult struct {
	Session     *ClassSession `json:"session"`
	Client      *Client       `json:"client,omitempty"`
	Transaction *Transaction  `json:"transaction,omitempty"`
	Changed     bool          `json:"changed"` // false when the registration was already in the target state
	Charged     bool          `json:"charged"`
	Refunded    bool          `json:"refunded"`
}

// ReconcileOptions controls a reconciliation run.
type ReconcileOptions struct {
	DryRun  bool
	ActorID string
}
