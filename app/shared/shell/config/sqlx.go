package config

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// NewPostgresSQLX opens a sqlx pool on lib/pq with the same pool settings as NewPostgresSQLDB.
func NewPostgresSQLX(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DBDSN)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(int(cfg.DBMaxConns))
	db.SetMaxIdleConns(int(cfg.DBMinConns))
	db.SetConnMaxLifetime(defaultConnMaxLifetime)
	db.SetConnMaxIdleTime(defaultConnMaxIdleTime)

	return db, nil
}
