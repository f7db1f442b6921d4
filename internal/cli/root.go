package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	portsrepo "github.com/SscSPs/class_credits_crm/internal/core/ports/repositories"
	"github.com/SscSPs/class_credits_crm/internal/platform/config"
	"github.com/SscSPs/class_credits_crm/internal/repositories/database/memory"
	"github.com/SscSPs/class_credits_crm/internal/repositories/database/pgsql"
	"github.com/SscSPs/class_credits_crm/internal/repositories/database/sqlite"
	"github.com/SscSPs/class_credits_crm/pkg/database"
)

var (
	logger *slog.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "crm",
	Short: "Class credits CRM backend",
	Long: `Front-desk backend for a kids' class studio. Clients buy class credits,
children attend sessions and every credit movement lands in an append-only ledger.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
		slog.SetDefault(logger)

		loaded, err := config.LoadConfig()
		if err != nil {
			logger.Error("Failed to load config", slog.String("error", err.Error()))
			return err
		}
		cfg = loaded
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// openStore connects the configured ledger store and brings its schema up to
// date. The returned func releases the connection.
func openStore(ctx context.Context, migrate bool) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		if migrate {
			logger.Info("Running database migrations...")
			if err := database.MigratePostgres(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
				return portsrepo.RepositoryProvider{}, nil, err
			}
		}
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		logger.Info("Database connection pool established.")
		return pgsql.NewRepositoryProvider(pool), func() { database.ClosePgxPool(pool) }, nil

	case config.StoreDriverSQLite:
		db, err := database.NewSQLiteDB(ctx, cfg.SQLitePath)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		if migrate {
			logger.Info("Running database migrations...")
			if err := database.MigrateSQLite(db, cfg.MigrationsPath, logger); err != nil {
				_ = db.Close()
				return portsrepo.RepositoryProvider{}, nil, err
			}
		}
		closeDB := func() {
			if err := db.Close(); err != nil {
				logger.Error("Error closing sqlite database", slog.String("error", err.Error()))
			}
		}
		return sqlite.NewRepositoryProvider(db), closeDB, nil

	case config.StoreDriverMemory:
		logger.Warn("Using the in-memory store; data is lost on exit")
		return portsrepo.NewRepositoryProvider(memory.NewStore()), func() {}, nil
	}
	return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
}
