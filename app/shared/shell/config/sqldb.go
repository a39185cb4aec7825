package config

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // sqlite driver
)

const (
	defaultConnMaxLifetime = time.Hour
	defaultConnMaxIdleTime = time.Minute * 5
)

// NewPostgresSQLDB opens a database/sql pool on lib/pq and verifies it with a ping.
func NewPostgresSQLDB(ctx context.Context, cfg Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DBDSN)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(int(cfg.DBMaxConns))
	db.SetMaxIdleConns(int(cfg.DBMinConns))
	db.SetConnMaxLifetime(defaultConnMaxLifetime)
	db.SetConnMaxIdleTime(defaultConnMaxIdleTime)

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// NewSQLiteDB opens a modernc.org/sqlite database. cfg.DBDSN is a file path or a full "file:" DSN.
// SQLite allows a single writer, so the pool is limited to one connection regardless of the configured bounds.
func NewSQLiteDB(ctx context.Context, cfg Config) (*sql.DB, error) {
	dsn := cfg.DBDSN
	if !strings.HasPrefix(dsn, "file:") {
		dsn = SQLiteDSN(dsn)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
