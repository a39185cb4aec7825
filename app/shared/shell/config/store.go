package config

import (
	"context"
	"fmt"

	"github.com/AntonStoeckl/library-circulation-api/library/sqlengine"
)

// OpenStore creates the connection pool selected by cfg.DBDriver and wraps it in a sqlengine.Store.
// The returned close function releases the pool.
func OpenStore(ctx context.Context, cfg Config, options ...sqlengine.Option) (sqlengine.Store, func(), error) {
	options = append([]sqlengine.Option{
		sqlengine.WithQueryTimeout(cfg.DBQueryTimeout),
		sqlengine.WithAcquireTimeout(cfg.DBAcquireTimeout),
	}, options...)

	switch cfg.DBDriver {
	case DriverPGXPool:
		pool, err := NewPGXPool(ctx, cfg)
		if err != nil {
			return sqlengine.Store{}, nil, err
		}

		store, err := sqlengine.NewStoreFromPGXPool(pool, options...)
		if err != nil {
			pool.Close()
			return sqlengine.Store{}, nil, err
		}

		return store, pool.Close, nil

	case DriverSQLDB:
		db, err := NewPostgresSQLDB(ctx, cfg)
		if err != nil {
			return sqlengine.Store{}, nil, err
		}

		store, err := sqlengine.NewStoreFromSQLDB(db, options...)
		if err != nil {
			_ = db.Close()
			return sqlengine.Store{}, nil, err
		}

		return store, func() { _ = db.Close() }, nil

	case DriverSQLXDB:
		db, err := NewPostgresSQLX(ctx, cfg)
		if err != nil {
			return sqlengine.Store{}, nil, err
		}

		store, err := sqlengine.NewStoreFromSQLX(db, options...)
		if err != nil {
			_ = db.Close()
			return sqlengine.Store{}, nil, err
		}

		return store, func() { _ = db.Close() }, nil

	case DriverSQLite:
		db, err := NewSQLiteDB(ctx, cfg)
		if err != nil {
			return sqlengine.Store{}, nil, err
		}

		store, err := sqlengine.NewStoreFromSQLDB(db, append(options, sqlengine.WithDialect(sqlengine.DialectSQLite))...)
		if err != nil {
			_ = db.Close()
			return sqlengine.Store{}, nil, err
		}

		return store, func() { _ = db.Close() }, nil

	default:
		return sqlengine.Store{}, nil, fmt.Errorf("%w: unsupported driver %q", ErrInvalidConfig, cfg.DBDriver)
	}
}
