package cli

import (
	"encoding/json"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/SscSPs/class_credits_crm/internal/core/domain"
	"github.com/SscSPs/class_credits_crm/internal/core/services"
	"github.com/SscSPs/class_credits_crm/internal/middleware"
	"github.com/SscSPs/class_credits_crm/internal/platform/metrics"
)

const cliActor = "system:reconcile"

func init() {
	rootCmd.AddCommand(reconcileCmd)
	reconcileCmd.Flags().String("client", "", "Reconcile a single client by ID")
	reconcileCmd.Flags().Bool("dry-run", false, "Report drift without writing corrections")
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Recompute credit balances from the ledger",
	Long: `Folds every client's transaction history into a credit balance and repairs
stored counters that drifted. Prints the report as JSON.`,
	RunE: runReconcile,
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	clientID, _ := cmd.Flags().GetString("client")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	ctx := middleware.WithLogger(cmd.Context(), logger)

	repos, closeStore, err := openStore(ctx, false)
	if err != nil {
		return err
	}
	defer closeStore()

	container := services.NewServiceContainer(cfg, repos, metrics.New())
	opts := domain.ReconcileOptions{DryRun: dryRun, ActorID: cliActor}

	var out any
	if clientID != "" {
		out, err = container.Reconciliation.ReconcileClient(ctx, clientID, opts)
	} else {
		out, err = container.Reconciliation.ReconcileAll(ctx, opts)
	}
	if err != nil {
		logger.Error("Reconciliation failed", slog.String("error", err.Error()))
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
