package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/SscSPs/class_credits_crm/internal/apperrors"
	"github.com/SscSPs/class_credits_crm/internal/core/domain"
	portsrepo "github.com/SscSPs/class_credits_crm/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/class_credits_crm/internal/core/ports/services"
	"github.com/SscSPs/class_credits_crm/internal/utils/accounting"
)

// Outcomes recorded on the reconciliation counter.
const (
	outcomeFixed     = "fixed"
	outcomeUnchanged = "unchanged"
	outcomeFailed    = "failed"
)

// reconciliationService rebuilds client credit counters from the ledger.
type reconciliationService struct {
	BaseService
	clientRepo portsrepo.ClientReader
	uow        portsrepo.UnitOfWork
}

// NewReconciliationService creates a new ReconciliationSvc.
func NewReconciliationService(repos portsrepo.RepositoryProvider, opts ...Option) portssvc.ReconciliationSvc {
	return &reconciliationService{
		BaseService: newBaseService(opts),
		clientRepo:  repos.ClientRepo,
		uow:         repos.UnitOfWork,
	}
}

var _ portssvc.ReconciliationSvc = (*reconciliationService)(nil)

// ReconcileAll processes every client on a bounded worker pool. A failing
// client, including one whose stored row no longer decodes, is recorded in
// the report and does not stop the batch. Only a failure to list client IDs
// or a cancelled ctx is returned.
func (s *reconciliationService) ReconcileAll(ctx context.Context, opts domain.ReconcileOptions) (*domain.ReconciliationReport, error) {
	start := time.Now()

	clientIDs, err := s.clientRepo.ListClientIDs(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list clients for reconciliation")
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	report := &domain.ReconciliationReport{
		Total:       len(clientIDs),
		DryRun:      opts.DryRun,
		Corrections: []domain.BalanceCorrection{},
		Failures:    []domain.ReconciliationFailure{},
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(s.ReconcileWorkers)

	for _, clientID := range clientIDs {
		g.Go(func() error {
			// Per-client failures go into the report; only cancellation aborts.
			if err := ctx.Err(); err != nil {
				return err
			}
			correction, err := s.reconcileOne(ctx, clientID, opts)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Errors++
				report.Failures = append(report.Failures, domain.ReconciliationFailure{ClientID: clientID, Error: err.Error()})
				s.Metrics.Reconciled(outcomeFailed)
				s.LogError(ctx, err, "Failed to reconcile client", slog.String("client_id", clientID))
				return nil
			}
			if correction.Changed {
				report.Fixed++
				report.Corrections = append(report.Corrections, *correction)
				s.Metrics.Reconciled(outcomeFixed)
			} else {
				s.Metrics.Reconciled(outcomeUnchanged)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.LogWarn(ctx, "Reconciliation interrupted",
			slog.Int("total", report.Total),
			slog.Int("fixed", report.Fixed),
			slog.Int("errors", report.Errors),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("reconciliation interrupted: %w", err)
	}

	sort.Slice(report.Corrections, func(i, j int) bool { return report.Corrections[i].ClientID < report.Corrections[j].ClientID })
	sort.Slice(report.Failures, func(i, j int) bool { return report.Failures[i].ClientID < report.Failures[j].ClientID })

	elapsed := time.Since(start)
	s.Metrics.ObserveReconcile(elapsed)
	s.LogInfo(ctx, "Reconciliation finished",
		slog.Int("total", report.Total),
		slog.Int("fixed", report.Fixed),
		slog.Int("errors", report.Errors),
		slog.Bool("dry_run", report.DryRun),
		slog.Duration("elapsed", elapsed))
	return report, nil
}

func (s *reconciliationService) ReconcileClient(ctx context.Context, clientID string, opts domain.ReconcileOptions) (*domain.BalanceCorrection, error) {
	correction, err := s.reconcileOne(ctx, clientID, opts)
	if err != nil {
		s.Metrics.Reconciled(outcomeFailed)
		s.logUnlessNotFound(ctx, err, "Failed to reconcile client", slog.String("client_id", clientID))
		return nil, err
	}
	if correction.Changed {
		s.Metrics.Reconciled(outcomeFixed)
	} else {
		s.Metrics.Reconciled(outcomeUnchanged)
	}
	s.LogInfo(ctx, "Client reconciled",
		slog.String("client_id", clientID),
		slog.Int64("old", correction.Old),
		slog.Int64("new", correction.New),
		slog.Bool("dry_run", opts.DryRun))
	return correction, nil
}

// reconcileOne recomputes one client inside a unit of work, so the write
// conflicts with any attendance transition that touched the client meanwhile.
func (s *reconciliationService) reconcileOne(ctx context.Context, clientID string, opts domain.ReconcileOptions) (*domain.BalanceCorrection, error) {
	var correction domain.BalanceCorrection
	err := s.retryOnConflict(ctx, "reconcile_client", func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, store portsrepo.LedgerStore) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			client, err := store.FindClientByID(ctx, clientID)
			if err != nil {
				return err
			}
			txns, err := store.ListTransactionsByClientID(ctx, clientID)
			if err != nil {
				return fmt.Errorf("failed to list transactions: %w", err)
			}

			drift := accounting.DetectDrift(*client, txns)
			if drift.Computed < 0 {
				return fmt.Errorf("%w: history of client %s folds to %d credits",
					apperrors.ErrLedgerInconsistent, clientID, drift.Computed)
			}
			correction = domain.BalanceCorrection{
				ClientID: clientID,
				Old:      drift.Stored,
				New:      drift.Computed,
				Changed:  drift.Drifted(),
			}
			if !drift.Drifted() || opts.DryRun {
				return nil
			}

			client.CreditsRemaining = drift.Computed
			client.Touch(opts.ActorID, s.Now())
			return store.UpdateClient(ctx, *client)
		})
	})
	if err != nil {
		return nil, err
	}
	return &correction, nil
}
