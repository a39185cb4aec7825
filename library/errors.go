package library

import (
	"context"
	"errors"
)

var (
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")
	ErrUnknownDialect        = errors.New("unknown sql dialect")
	ErrUnknownBookField      = errors.New("unknown book field")
	ErrMissingRequiredFields = errors.New("missing required fields")
	ErrInvalidFieldValue     = errors.New("invalid field value")
	ErrBookNotFound          = errors.New("book not found")
	ErrAcquireConnection     = errors.New("failed to acquire database connection")
	ErrDatabaseQuery         = errors.New("database query failed")
	ErrIDNotSupported        = errors.New("driver does not report generated ids")
)

// Kind is the closed classification every failure is mapped to before it leaves the system.
type Kind string

const (
	KindValidation     Kind = "validation"
	KindNotFound       Kind = "not_found"
	KindDatabase       Kind = "database"
	KindPoolExhaustion Kind = "pool_exhaustion"
)

// KindOf classifies err. Anything not recognized is a database failure.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingRequiredFields),
		errors.Is(err, ErrInvalidFieldValue),
		errors.Is(err, ErrUnknownBookField):
		return KindValidation
	case errors.Is(err, ErrBookNotFound):
		return KindNotFound
	case errors.Is(err, ErrAcquireConnection):
		return KindPoolExhaustion
	default:
		return KindDatabase
	}
}

// IsCancellationError checks if an error is due to context cancellation.
func IsCancellationError(err error) bool {
	return errors.Is(err, context.Canceled)
}

// IsTimeoutError checks if an error is due to context deadline exceeded.
func IsTimeoutError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
