package adapters

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// SQLXAdapter implements DBAdapter for sqlx.DB.
type SQLXAdapter struct {
	db *sqlx.DB
}

// NewSQLXAdapter creates a new SQLX adapter.
func NewSQLXAdapter(db *sqlx.DB) *SQLXAdapter {
	return &SQLXAdapter{db: db}
}

// Acquire leases a dedicated connection from the sqlx.DB pool.
func (s *SQLXAdapter) Acquire(ctx context.Context) (DBConn, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return nil, err
	}

	return &sqlxConn{conn: conn}, nil
}

// Ping checks that a connection can be established.
func (s *SQLXAdapter) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Stats reports the pool counters.
func (s *SQLXAdapter) Stats() PoolStats {
	return stdPoolStats(s.db.DB)
}

type sqlxConn struct {
	conn *sqlx.Conn
}

func (c *sqlxConn) Query(ctx context.Context, query string, args ...any) (DBRows, error) {
	return stdQuery(ctx, c.conn, query, args...)
}

func (c *sqlxConn) Exec(ctx context.Context, query string, args ...any) (DBResult, error) {
	return stdExec(ctx, c.conn, query, args...)
}

func (c *sqlxConn) BeginTx(ctx context.Context) (DBTx, error) {
	tx, err := c.conn.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}

	return &stdTx{tx: tx.Tx}, nil
}

func (c *sqlxConn) Release() {
	_ = c.conn.Close()
}
