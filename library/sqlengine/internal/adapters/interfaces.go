package adapters

import "context"

// DBAdapter hands out pooled connections.
type DBAdapter interface {
	Acquire(ctx context.Context) (DBConn, error)
	Ping(ctx context.Context) error
	Stats() PoolStats
}

// Querier is implemented by both connections and transactions.
type Querier interface {
	Query(ctx context.Context, query string, args ...any) (DBRows, error)
	Exec(ctx context.Context, query string, args ...any) (DBResult, error)
}

// DBConn is one connection leased from the pool. Release must be called exactly once.
type DBConn interface {
	Querier
	BeginTx(ctx context.Context) (DBTx, error)
	Release()
}

// DBTx is an open transaction on a leased connection.
type DBTx interface {
	Querier
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// DBRows is a result stream. Close must be called on every path.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// DBResult describes the outcome of a statement that returns no rows.
type DBResult interface {
	RowsAffected() (int64, error)
	LastInsertID() (int64, error)
}

// PoolStats is a driver independent snapshot of the pool.
type PoolStats struct {
	AcquiredConns int64
	IdleConns     int64
	TotalConns    int64
	MaxConns      int64
}
