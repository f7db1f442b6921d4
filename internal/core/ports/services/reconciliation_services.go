package services

import (
	"context"

	"github.com/SscSPs/class_credits_crm/internal/core/domain"
)

// ReconciliationSvc recomputes credit balances from the ledger.
type ReconciliationSvc interface {
	// ReconcileAll processes every client. Per-client failures are reported, not returned.
	ReconcileAll(ctx context.Context, opts domain.ReconcileOptions) (*domain.ReconciliationReport, error)

	// ReconcileClient recomputes a single client.
	ReconcileClient(ctx context.Context, clientID string, opts domain.ReconcileOptions) (*domain.BalanceCorrection, error)
}
