package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers understood by STORE_DRIVER.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
	StoreDriverMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Ledger store
	StoreDriver    string
	SQLitePath     string
	MigrationsPath string

	// Ledger behaviour
	MaxConflictRetries int
	CancellationWindow time.Duration // 0 disables the window
	SessionLocation    *time.Location
	ReconcileWorkers   int
	CurrencyPrecision  int32

	// HTTP surface
	RateLimit          string // ulule limiter format, e.g. "100-M"
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "12h")
	viper.SetDefault("JWT_ISSUER", "class-credits-crm")
	viper.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	viper.SetDefault("SQLITE_PATH", "crm.db")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("MAX_CONFLICT_RETRIES", 3)
	viper.SetDefault("CANCELLATION_WINDOW", "0s")
	viper.SetDefault("SESSION_TIMEZONE", "UTC")
	viper.SetDefault("RECONCILE_WORKERS", 4)
	viper.SetDefault("CURRENCY_PRECISION", 0)
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(viper.GetString("STORE_DRIVER")))
	switch cfg.StoreDriver {
	case StoreDriverPostgres, StoreDriverSQLite, StoreDriverMemory:
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER %q: must be one of postgres, sqlite, memory", cfg.StoreDriver)
	}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" && cfg.StoreDriver == StoreDriverPostgres {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil || jwtExpiryDuration <= 0 {
		jwtExpiryDuration = 12 * time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.MaxConflictRetries = viper.GetInt("MAX_CONFLICT_RETRIES")
	if cfg.MaxConflictRetries < 1 {
		log.Printf("Warning: MAX_CONFLICT_RETRIES must be at least 1 (got %d). Defaulting to 3.\n", cfg.MaxConflictRetries)
		cfg.MaxConflictRetries = 3
	}

	windowStr := viper.GetString("CANCELLATION_WINDOW")
	cfg.CancellationWindow, err = time.ParseDuration(windowStr)
	if err != nil || cfg.CancellationWindow < 0 {
		return nil, fmt.Errorf("invalid CANCELLATION_WINDOW %q: must be a non-negative duration", windowStr)
	}

	tzName := viper.GetString("SESSION_TIMEZONE")
	cfg.SessionLocation, err = time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TIMEZONE %q: %w", tzName, err)
	}

	cfg.ReconcileWorkers = viper.GetInt("RECONCILE_WORKERS")
	if cfg.ReconcileWorkers < 1 {
		log.Printf("Warning: RECONCILE_WORKERS must be at least 1 (got %d). Defaulting to 1.\n", cfg.ReconcileWorkers)
		cfg.ReconcileWorkers = 1
	}

	precision := viper.GetInt("CURRENCY_PRECISION")
	if precision < 0 || precision > 8 {
		return nil, fmt.Errorf("invalid CURRENCY_PRECISION %d: must be between 0 and 8", precision)
	}
	cfg.CurrencyPrecision = int32(precision)

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.SQLitePath = viper.GetString("SQLITE_PATH")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
