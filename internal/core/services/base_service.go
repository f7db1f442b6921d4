package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/class_credits_crm/internal/apperrors"
	"github.com/SscSPs/class_credits_crm/internal/middleware"
	"github.com/SscSPs/class_credits_crm/internal/platform/metrics"
)

const defaultMaxConflictRetries = 3

// BaseService provides common functionality for all services
type BaseService struct {
	Metrics            *metrics.Metrics
	MaxConflictRetries int
	CurrencyPrecision  int32
	Cancellation       CancellationPolicy
	ReconcileWorkers   int
	Clock              func() time.Time
}

// Option configures a service.
type Option func(*BaseService)

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *BaseService) { s.Metrics = m }
}

// WithMaxConflictRetries sets how many attempts an operation gets on version conflicts.
func WithMaxConflictRetries(n int) Option {
	return func(s *BaseService) { s.MaxConflictRetries = n }
}

// WithCurrencyPrecision sets the minor-unit digits used in ledger descriptions.
func WithCurrencyPrecision(p int32) Option {
	return func(s *BaseService) { s.CurrencyPrecision = p }
}

// WithCancellationPolicy sets the attendance cancellation window.
func WithCancellationPolicy(p CancellationPolicy) Option {
	return func(s *BaseService) { s.Cancellation = p }
}

// WithReconcileWorkers bounds reconciliation fan-out.
func WithReconcileWorkers(n int) Option {
	return func(s *BaseService) { s.ReconcileWorkers = n }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *BaseService) { s.Clock = now }
}

func newBaseService(opts []Option) BaseService {
	s := BaseService{
		MaxConflictRetries: defaultMaxConflictRetries,
		ReconcileWorkers:   1,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.MaxConflictRetries < 1 {
		s.MaxConflictRetries = 1
	}
	if s.ReconcileWorkers < 1 {
		s.ReconcileWorkers = 1
	}
	return s
}

// Now returns the current UTC time from the configured clock.
func (s *BaseService) Now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// retryOnConflict runs fn until it succeeds, fails with anything other than a
// concurrency conflict, or uses up MaxConflictRetries attempts. fn must re-read
// all state it depends on.
func (s *BaseService) retryOnConflict(ctx context.Context, operation string, fn func() error) error {
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !errors.Is(err, apperrors.ErrConcurrencyConflict) {
			return err
		}
		s.Metrics.Conflict(operation)
		if attempt >= s.MaxConflictRetries {
			s.LogError(ctx, err, "Giving up after repeated concurrency conflicts",
				slog.String("operation", operation), slog.Int("attempts", attempt))
			return fmt.Errorf("%s failed after %d attempts: %w", operation, attempt, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		s.LogDebug(ctx, "Concurrency conflict, retrying",
			slog.String("operation", operation), slog.Int("attempt", attempt))
	}
}

// logUnlessNotFound logs err unless it is an expected not-found outcome.
func (s *BaseService) logUnlessNotFound(ctx context.Context, err error, msg string, keyvals ...any) {
	if errors.Is(err, apperrors.ErrNotFound) {
		return
	}
	s.LogError(ctx, err, msg, keyvals...)
}
