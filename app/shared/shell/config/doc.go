// Package config provides the runtime configuration and the database pool factories
// for the library circulation API.
//
// Configuration is read from the environment, optionally seeded from a .env file. Pool factories
// exist for every supported driver (pgx.Pool, sql.DB and sqlx.DB on PostgreSQL, sql.DB on SQLite)
// and OpenStore turns the configured one into a sqlengine.Store.
//
// This package is part of the shell (infrastructure) layer.
package config
