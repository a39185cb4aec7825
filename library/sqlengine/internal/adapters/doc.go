// Package adapters provides the database adapter implementations for the sql engine.
//
// Three connection pool types are supported: pgxpool.Pool, sql.DB and sqlx.DB. Each adapter
// leases a single connection per unit of work (Acquire), which can run statements directly or
// open a transaction on it. Callers own the lease and must Release it exactly once.
//
// Transactions are tolerant of a Rollback after a successful Commit, so callers can always
// defer a Rollback.
package adapters
