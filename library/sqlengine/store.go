package sqlengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/library-circulation-api/library"
	"github.com/AntonStoeckl/library-circulation-api/library/sqlengine/internal/adapters"
)

const (
	// DialectPostgres selects PostgreSQL syntax ($n placeholders, RETURNING).
	DialectPostgres = "postgres"

	// DialectSQLite selects SQLite syntax (? placeholders, LastInsertId).
	DialectSQLite = "sqlite3"

	defaultQueryTimeout   = 5 * time.Second
	defaultAcquireTimeout = 3 * time.Second
)

const (
	logMsgAcquireFailed     = "failed to acquire database connection"
	logMsgBeginTxFailed     = "failed to begin transaction"
	logMsgCommitFailed      = "failed to commit transaction"
	logMsgRollbackFailed    = "failed to roll back transaction"
	logMsgTxRolledBack      = "transaction rolled back"
	logMsgBuildQueryFailed  = "failed to build sql query"
	logMsgCloseRowsFailed   = "failed to close database rows"
	logMsgOperationFailed   = "sqlengine operation failed"
	logMsgSQLExecuted       = "executed sql for: "
	logMsgMigrationApplied  = "schema migration applied"
	logAttrError            = "error"
	logAttrQuery            = "query"
	logAttrOperation        = "operation"
	logAttrDurationMS       = "duration_ms"
	logAttrDialect          = "dialect"
	logAttrStatementCount   = "statement_count"
	logAttrRowsAffected     = "rows_affected"
	logAttrAcquiredConns    = "acquired_conns"
	logAttrMaxConns         = "max_conns"
	operationAcquire        = "acquire"
	operationBeginTx        = "begin_tx"
	operationCommit         = "commit"
	operationMigrate        = "migrate"
	operationPing           = "ping"
	statusSuccess           = "success"
	statusError             = "error"
	statusCanceled          = "canceled"
	statusTimeout           = "timeout"
	errorTypeNotFound       = "not_found"
	errorTypeDatabase       = "database"
	errorTypeCanceled       = "canceled"
	errorTypeTimeout        = "timeout"
	errorTypePoolExhaustion = "pool_exhaustion"
)

// Store is the relational repository of the library.
// It hands out Sessions, each bound to exactly one pooled connection for its whole lifetime.
type Store struct {
	db                adapters.DBAdapter
	dialectName       string
	dialect           goqu.DialectWrapper
	supportsReturning bool
	queryTimeout      time.Duration
	acquireTimeout    time.Duration
	logger            Logger
	contextualLogger  ContextualLogger
	metricsCollector  MetricsCollector
	tracingCollector  TracingCollector
}

// NewStoreFromPGXPool creates a new Store using a pgx Pool with optional configuration.
func NewStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, library.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewPGXAdapter(db), options...)
}

// NewStoreFromSQLDB creates a new Store using a sql.DB with optional configuration.
// Use WithDialect(DialectSQLite) when the sql.DB is backed by an SQLite driver.
func NewStoreFromSQLDB(db *sql.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, library.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLAdapter(db), options...)
}

// NewStoreFromSQLX creates a new Store using a sqlx.DB with optional configuration.
func NewStoreFromSQLX(db *sqlx.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, library.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLXAdapter(db), options...)
}

func newStore(db adapters.DBAdapter, options ...Option) (Store, error) {
	s := Store{
		db:             db,
		queryTimeout:   defaultQueryTimeout,
		acquireTimeout: defaultAcquireTimeout,
	}
	s.setDialect(DialectPostgres)

	for _, option := range options {
		if err := option(&s); err != nil {
			return Store{}, err
		}
	}

	return s, nil
}

func (s *Store) setDialect(name string) {
	s.dialectName = name
	s.dialect = goqu.Dialect(name)
	s.supportsReturning = name == DialectPostgres
}

// Dialect returns the configured SQL dialect name.
func (s Store) Dialect() string {
	return s.dialectName
}

// SessionFunc is a unit of work executed on one leased connection.
type SessionFunc func(ctx context.Context, session Session) error

// WithSession leases one connection, runs fn on it and releases the connection on every exit path.
// Statements run in autocommit mode.
func (s Store) WithSession(ctx context.Context, fn SessionFunc) error {
	conn, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer s.release(ctx, conn)

	return fn(ctx, Session{store: s, q: conn})
}

// WithinTransaction leases one connection and runs fn inside a transaction on it.
// The transaction commits when fn returns nil and rolls back otherwise, including when fn panics.
// The connection is released after commit or rollback.
func (s Store) WithinTransaction(ctx context.Context, fn SessionFunc) error {
	conn, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer s.release(ctx, conn)

	tx, err := conn.BeginTx(ctx)
	if err != nil {
		s.logError(ctx, logMsgBeginTxFailed, err)
		s.recordErrorMetrics(ctx, operationBeginTx, classifyError(err))

		return errors.Join(library.ErrDatabaseQuery, err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}

		// The caller's context may already be done; the rollback must still reach the server.
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
			s.logWarn(ctx, logMsgRollbackFailed, logAttrError, rbErr.Error())
			return
		}

		s.logDebug(ctx, logMsgTxRolledBack)
	}()

	if err = fn(ctx, Session{store: s, q: tx}); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		s.logError(ctx, logMsgCommitFailed, err)
		s.recordErrorMetrics(ctx, operationCommit, classifyError(err))

		return errors.Join(library.ErrDatabaseQuery, err)
	}

	committed = true

	return nil
}

// Ping verifies that the database is reachable.
func (s Store) Ping(ctx context.Context) error {
	pingCtx, cancel := s.withTimeout(ctx, s.queryTimeout)
	defer cancel()

	if err := s.db.Ping(pingCtx); err != nil {
		s.recordErrorMetrics(ctx, operationPing, classifyError(err))
		return errors.Join(library.ErrDatabaseQuery, err)
	}

	return nil
}

// PoolStats is a driver independent snapshot of the connection pool.
type PoolStats = adapters.PoolStats

// PoolStats returns a snapshot of the connection pool counters.
func (s Store) PoolStats() PoolStats {
	return s.db.Stats()
}

func (s Store) acquire(ctx context.Context) (adapters.DBConn, error) {
	acquireCtx, cancel := s.withTimeout(ctx, s.acquireTimeout)
	defer cancel()

	conn, err := s.db.Acquire(acquireCtx)
	if err != nil {
		stats := s.db.Stats()
		s.logError(
			ctx,
			logMsgAcquireFailed,
			err,
			logAttrAcquiredConns, stats.AcquiredConns,
			logAttrMaxConns, stats.MaxConns,
		)
		s.recordErrorMetrics(ctx, operationAcquire, errorTypePoolExhaustion)

		return nil, errors.Join(library.ErrAcquireConnection, err)
	}

	return conn, nil
}

func (s Store) release(ctx context.Context, conn adapters.DBConn) {
	conn.Release()
	s.recordPoolStats(ctx)
}

func (s Store) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, timeout)
}
