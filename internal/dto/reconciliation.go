package dto

// ReconcileParams are the query parameters of a reconciliation run.
type ReconcileParams struct {
	DryRun bool `form:"dryRun"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error            string `json:"error"`
	CreditsRemaining *int64 `json:"creditsRemaining,omitempty"`
}
