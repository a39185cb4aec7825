// Package storewrapper builds a migrated sqlengine.Store for tests.
//
// The backing database is selected with the ADAPTER_TYPE environment variable:
//
//	sqlite (default)  a fresh SQLite file per test, no external services needed
//	pgx.pool          PostgreSQL through pgxpool
//	sql.db            PostgreSQL through database/sql and lib/pq
//	sqlx.db           PostgreSQL through sqlx
//
// The PostgreSQL variants connect to LIBRARY_TEST_DSN, or start a container when LIBRARY_TEST_CONTAINERS=true.
// They share one database, so run them with -p 1.
package storewrapper
