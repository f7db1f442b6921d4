package services

import (
	portsrepo "github.com/SscSPs/class_credits_crm/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/class_credits_crm/internal/core/ports/services"
	"github.com/SscSPs/class_credits_crm/internal/platform/config"
	"github.com/SscSPs/class_credits_crm/internal/platform/metrics"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, m *metrics.Metrics) *portssvc.ServiceContainer {
	opts := []Option{
		WithMetrics(m),
		WithMaxConflictRetries(cfg.MaxConflictRetries),
		WithCurrencyPrecision(cfg.CurrencyPrecision),
		WithCancellationPolicy(CancellationPolicy{
			Window:   cfg.CancellationWindow,
			Location: cfg.SessionLocation,
		}),
		WithReconcileWorkers(cfg.ReconcileWorkers),
	}

	return &portssvc.ServiceContainer{
		Client:         NewClientService(repos, opts...),
		Attendance:     NewAttendanceService(repos, opts...),
		Reconciliation: NewReconciliationService(repos, opts...),
	}
}
