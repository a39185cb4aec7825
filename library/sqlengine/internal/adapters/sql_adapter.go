package adapters

import (
	"context"
	"database/sql"
)

// SQLAdapter implements DBAdapter for sql.DB.
type SQLAdapter struct {
	db *sql.DB
}

// NewSQLAdapter creates a new SQL adapter.
func NewSQLAdapter(db *sql.DB) *SQLAdapter {
	return &SQLAdapter{db: db}
}

// Acquire leases a dedicated connection from the sql.DB pool.
func (s *SQLAdapter) Acquire(ctx context.Context) (DBConn, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, err
	}

	return &sqlConn{conn: conn}, nil
}

// Ping checks that a connection can be established.
func (s *SQLAdapter) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Stats reports the pool counters.
func (s *SQLAdapter) Stats() PoolStats {
	return stdPoolStats(s.db)
}

type sqlConn struct {
	conn *sql.Conn
}

func (c *sqlConn) Query(ctx context.Context, query string, args ...any) (DBRows, error) {
	return stdQuery(ctx, c.conn, query, args...)
}

func (c *sqlConn) Exec(ctx context.Context, query string, args ...any) (DBResult, error) {
	return stdExec(ctx, c.conn, query, args...)
}

func (c *sqlConn) BeginTx(ctx context.Context) (DBTx, error) {
	tx, err := c.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	return &stdTx{tx: tx}, nil
}

// Release returns the connection to the pool; the error is always nil for a live lease.
func (c *sqlConn) Release() {
	_ = c.conn.Close()
}
