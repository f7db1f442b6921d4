package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/class_credits_crm/internal/apperrors"
	"github.com/SscSPs/class_credits_crm/internal/core/domain"
	portsrepo "github.com/SscSPs/class_credits_crm/internal/core/ports/repositories"
	mock_repositories "github.com/SscSPs/class_credits_crm/internal/core/ports/repositories/mocks"
	portssvc "github.com/SscSPs/class_credits_crm/internal/core/ports/services"
	"github.com/SscSPs/class_credits_crm/internal/core/services"
)

func credits(n int64) *int64 { return &n }

func purchase(clientID string, n int64) domain.Transaction {
	return domain.Transaction{ClientID: clientID, Kind: domain.Credit, CreditsCount: credits(n)}
}

// clientPtr hands the service its own copy, as a real store would.
func clientPtr(c domain.Client) *domain.Client { return &c }

func debit(clientID string) domain.Transaction {
	return domain.Transaction{ClientID: clientID, Kind: domain.Debit}
}

func newReconciler(t *testing.T) (*mock_repositories.MockLedgerStoreWithTx, portssvc.ReconciliationSvc) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	store := mock_repositories.NewMockLedgerStoreWithTx(ctrl)
	store.EXPECT().WithinTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn portsrepo.TxFunc) error { return fn(ctx, store) }).
		AnyTimes()
	return store, services.NewReconciliationService(portsrepo.NewRepositoryProvider(store), services.WithReconcileWorkers(2))
}

func TestReconcileAll(t *testing.T) {
	drifted := domain.Client{ClientID: "a", CreditsRemaining: 3, AuditFields: domain.AuditFields{Version: 7}}
	clean := domain.Client{ClientID: "b", CreditsRemaining: 2}
	broken := domain.Client{ClientID: "c", CreditsRemaining: 1}
	negative := domain.Client{ClientID: "d", CreditsRemaining: 0}

	tests := []struct {
		name        string
		dryRun      bool
		expect      func(store *mock_repositories.MockLedgerStoreWithTx)
		wantTotal   int
		wantFixed   int
		wantErrors  int
		wantFixes   []domain.BalanceCorrection
		wantFailing []string
	}{
		{
			name: "repairs a drifted counter",
			expect: func(store *mock_repositories.MockLedgerStoreWithTx) {
				store.EXPECT().ListClientIDs(gomock.Any()).Return([]string{drifted.ClientID, clean.ClientID}, nil)
				store.EXPECT().FindClientByID(gomock.Any(), "a").Return(clientPtr(drifted), nil)
				store.EXPECT().ListTransactionsByClientID(gomock.Any(), "a").
					Return([]domain.Transaction{purchase("a", 6), debit("a")}, nil)
				store.EXPECT().UpdateClient(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c domain.Client) error {
						assert.Equal(t, "a", c.ClientID)
						assert.Equal(t, int64(5), c.CreditsRemaining)
						assert.Equal(t, int64(7), c.Version)
						return nil
					})
				store.EXPECT().FindClientByID(gomock.Any(), "b").Return(clientPtr(clean), nil)
				store.EXPECT().ListTransactionsByClientID(gomock.Any(), "b").
					Return([]domain.Transaction{purchase("b", 2)}, nil)
			},
			wantTotal: 2,
			wantFixed: 1,
			wantFixes: []domain.BalanceCorrection{{ClientID: "a", Old: 3, New: 5, Changed: true}},
		},
		{
			name:   "dry run reports without writing",
			dryRun: true,
			expect: func(store *mock_repositories.MockLedgerStoreWithTx) {
				store.EXPECT().ListClientIDs(gomock.Any()).Return([]string{drifted.ClientID}, nil)
				store.EXPECT().FindClientByID(gomock.Any(), "a").Return(clientPtr(drifted), nil)
				store.EXPECT().ListTransactionsByClientID(gomock.Any(), "a").
					Return([]domain.Transaction{purchase("a", 6), debit("a")}, nil)
				store.EXPECT().UpdateClient(gomock.Any(), gomock.Any()).Times(0)
			},
			wantTotal: 1,
			wantFixed: 1,
			wantFixes: []domain.BalanceCorrection{{ClientID: "a", Old: 3, New: 5, Changed: true}},
		},
		{
			name: "one failing client does not stop the batch",
			expect: func(store *mock_repositories.MockLedgerStoreWithTx) {
				store.EXPECT().ListClientIDs(gomock.Any()).Return([]string{clean.ClientID, broken.ClientID}, nil)
				store.EXPECT().FindClientByID(gomock.Any(), "b").Return(clientPtr(clean), nil)
				store.EXPECT().ListTransactionsByClientID(gomock.Any(), "b").
					Return([]domain.Transaction{purchase("b", 2)}, nil)
				store.EXPECT().FindClientByID(gomock.Any(), "c").
					Return(nil, apperrors.NewStoreError("query failed", errors.New("connection reset")))
			},
			wantTotal:   2,
			wantErrors:  1,
			wantFailing: []string{"c"},
		},
		{
			name: "history folding below zero is a failure",
			expect: func(store *mock_repositories.MockLedgerStoreWithTx) {
				store.EXPECT().ListClientIDs(gomock.Any()).Return([]string{negative.ClientID}, nil)
				store.EXPECT().FindClientByID(gomock.Any(), "d").Return(clientPtr(negative), nil)
				store.EXPECT().ListTransactionsByClientID(gomock.Any(), "d").
					Return([]domain.Transaction{purchase("d", 1), debit("d"), debit("d")}, nil)
				store.EXPECT().UpdateClient(gomock.Any(), gomock.Any()).Times(0)
			},
			wantTotal:   1,
			wantErrors:  1,
			wantFailing: []string{"d"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, svc := newReconciler(t)
			tt.expect(store)

			report, err := svc.ReconcileAll(context.Background(), domain.ReconcileOptions{DryRun: tt.dryRun, ActorID: operator})
			require.NoError(t, err)
			assert.Equal(t, tt.dryRun, report.DryRun)
			assert.Equal(t, tt.wantTotal, report.Total)
			assert.Equal(t, tt.wantFixed, report.Fixed)
			assert.Equal(t, tt.wantErrors, report.Errors)
			if tt.wantFixes == nil {
				assert.Empty(t, report.Corrections)
			} else {
				assert.Equal(t, tt.wantFixes, report.Corrections)
			}
			failing := make([]string, 0, len(report.Failures))
			for _, f := range report.Failures {
				failing = append(failing, f.ClientID)
				assert.NotEmpty(t, f.Error)
			}
			if tt.wantFailing == nil {
				assert.Empty(t, failing)
			} else {
				assert.Equal(t, tt.wantFailing, failing)
			}
		})
	}
}

func TestReconcileAll_ListFailure(t *testing.T) {
	store, svc := newReconciler(t)
	store.EXPECT().ListClientIDs(gomock.Any()).Return(nil, apperrors.NewStoreError("query failed", errors.New("timeout")))

	report, err := svc.ReconcileAll(context.Background(), domain.ReconcileOptions{})
	assert.Nil(t, report)
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
}

func TestReconcileAll_Empty(t *testing.T) {
	store, svc := newReconciler(t)
	store.EXPECT().ListClientIDs(gomock.Any()).Return([]string{}, nil)

	report, err := svc.ReconcileAll(context.Background(), domain.ReconcileOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Total)
	assert.NotNil(t, report.Corrections)
	assert.NotNil(t, report.Failures)
}

func TestReconcileAll_Cancelled(t *testing.T) {
	store, svc := newReconciler(t)
	store.EXPECT().ListClientIDs(gomock.Any()).Return([]string{"a", "b", "c"}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := svc.ReconcileAll(ctx, domain.ReconcileOptions{})
	assert.Nil(t, report)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReconcileClient(t *testing.T) {
	t.Run("negative history", func(t *testing.T) {
		store, svc := newReconciler(t)
		c := domain.Client{ClientID: "d"}
		store.EXPECT().FindClientByID(gomock.Any(), "d").Return(clientPtr(c), nil)
		store.EXPECT().ListTransactionsByClientID(gomock.Any(), "d").Return([]domain.Transaction{debit("d")}, nil)

		_, err := svc.ReconcileClient(context.Background(), "d", domain.ReconcileOptions{})
		assert.ErrorIs(t, err, apperrors.ErrLedgerInconsistent)
	})

	t.Run("unknown client", func(t *testing.T) {
		store, svc := newReconciler(t)
		store.EXPECT().FindClientByID(gomock.Any(), "x").Return(nil, apperrors.ErrNotFound)

		_, err := svc.ReconcileClient(context.Background(), "x", domain.ReconcileOptions{})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("conflict is retried", func(t *testing.T) {
		store, svc := newReconciler(t)
		c := domain.Client{ClientID: "a", CreditsRemaining: 9}
		store.EXPECT().FindClientByID(gomock.Any(), "a").
			DoAndReturn(func(context.Context, string) (*domain.Client, error) { return clientPtr(c), nil }).
			Times(2)
		store.EXPECT().ListTransactionsByClientID(gomock.Any(), "a").Return([]domain.Transaction{purchase("a", 2)}, nil).Times(2)
		gomock.InOrder(
			store.EXPECT().UpdateClient(gomock.Any(), gomock.Any()).Return(apperrors.ErrConcurrencyConflict),
			store.EXPECT().UpdateClient(gomock.Any(), gomock.Any()).Return(nil),
		)

		correction, err := svc.ReconcileClient(context.Background(), "a", domain.ReconcileOptions{})
		require.NoError(t, err)
		assert.Equal(t, domain.BalanceCorrection{ClientID: "a", Old: 9, New: 2, Changed: true}, *correction)
	})
}
