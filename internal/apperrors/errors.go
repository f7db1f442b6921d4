package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInsufficientCredits indicates that a client has no credits left to pay for a class.
var ErrInsufficientCredits = errors.New("insufficient credits")

// ErrConcurrencyConflict indicates that a record changed between read and write.
var ErrConcurrencyConflict = errors.New("concurrency conflict")

// ErrStoreUnavailable indicates a transport or infrastructure failure of the ledger store.
var ErrStoreUnavailable = errors.New("store unavailable")

// ErrCancellationWindowClosed indicates that attendance can no longer be cancelled for a session.
var ErrCancellationWindowClosed = errors.New("cancellation window closed")

// ErrLedgerInconsistent indicates that a transaction history folds to an impossible balance.
var ErrLedgerInconsistent = errors.New("ledger inconsistent")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// InsufficientCreditsError carries the balance observed when a debit was refused,
// so callers can prompt the operator to sell more credits.
type InsufficientCreditsError struct {
	ClientID         string
	CreditsRemaining int64
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("%s: client %s has %d credits remaining", ErrInsufficientCredits.Error(), e.ClientID, e.CreditsRemaining)
}

// Is lets errors.Is(err, ErrInsufficientCredits) match.
func (e *InsufficientCreditsError) Is(target error) bool {
	return target == ErrInsufficientCredits
}

// AppError is an error with an HTTP-ish status code and an optional sentinel kind.
type AppError struct {
	Code    int
	Message string
	Kind    error
	Err     error
}

// NewAppError wraps err with a status code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewStoreError wraps a driver error as ErrStoreUnavailable.
func NewStoreError(message string, err error) *AppError {
	return &AppError{Code: http.StatusServiceUnavailable, Message: message, Kind: ErrStoreUnavailable, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel kind, if any.
func (e *AppError) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}
