package sqlengine

import (
	"fmt"
	"time"

	"github.com/AntonStoeckl/library-circulation-api/library"
)

type (
	Logger           = library.Logger
	ContextualLogger = library.ContextualLogger
	MetricsCollector = library.MetricsCollector
	TracingCollector = library.TracingCollector
	SpanContext      = library.SpanContext
)

// Option defines a functional option for configuring the Store.
type Option func(*Store) error

// WithDialect selects the SQL dialect used to build statements and DDL.
func WithDialect(name string) Option {
	return func(s *Store) error {
		switch name {
		case DialectPostgres, DialectSQLite:
			s.setDialect(name)
			return nil
		default:
			return fmt.Errorf("%w: %q", library.ErrUnknownDialect, name)
		}
	}
}

// WithQueryTimeout bounds every single database round-trip. Zero disables the bound.
func WithQueryTimeout(timeout time.Duration) Option {
	return func(s *Store) error {
		s.queryTimeout = timeout
		return nil
	}
}

// WithAcquireTimeout bounds how long a caller waits for a free pooled connection. Zero disables the bound.
func WithAcquireTimeout(timeout time.Duration) Option {
	return func(s *Store) error {
		s.acquireTimeout = timeout
		return nil
	}
}

// WithLogger sets the logger for the Store.
//
// Debug level: SQL statements with execution timing
// Warn level: rollback and row close failures
// Error level: failed operations.
func WithLogger(logger Logger) Option {
	return func(s *Store) error {
		s.logger = logger
		return nil
	}
}

// WithContextualLogger sets a context-aware logger. It takes precedence over WithLogger.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(s *Store) error {
		s.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for operation durations, database errors and pool usage.
func WithMetrics(collector MetricsCollector) Option {
	return func(s *Store) error {
		s.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector. Every repository operation becomes one span.
func WithTracing(collector TracingCollector) Option {
	return func(s *Store) error {
		s.tracingCollector = collector
		return nil
	}
}
