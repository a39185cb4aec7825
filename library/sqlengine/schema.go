package sqlengine

import (
	"context"
	"fmt"
)

var schemaStatements = map[string][]string{
	DialectPostgres: {
		`CREATE TABLE IF NOT EXISTS books (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			isbn TEXT NOT NULL,
			total_copies BIGINT NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS books_title_idx ON books (title)`,
		`CREATE TABLE IF NOT EXISTS authors (
			id BIGSERIAL PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			UNIQUE (first_name, last_name)
		)`,
		`CREATE TABLE IF NOT EXISTS books_authors (
			book_id BIGINT NOT NULL REFERENCES books (id),
			author_id BIGINT NOT NULL REFERENCES authors (id)
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT NOT NULL,
			pass_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS inventory (
			book_id BIGINT PRIMARY KEY REFERENCES books (id),
			available_copies BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS borrowed_books (
			id BIGSERIAL PRIMARY KEY,
			book_id BIGINT NOT NULL REFERENCES books (id),
			user_id BIGINT NOT NULL REFERENCES users (id),
			borrowed_at TIMESTAMPTZ NOT NULL,
			due_date TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS borrowed_books_user_book_idx ON borrowed_books (user_id, book_id)`,
	},
	DialectSQLite: {
		`CREATE TABLE IF NOT EXISTS books (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			isbn TEXT NOT NULL,
			total_copies INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS books_title_idx ON books (title)`,
		`CREATE TABLE IF NOT EXISTS authors (
			id INTEGER PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			UNIQUE (first_name, last_name)
		)`,
		`CREATE TABLE IF NOT EXISTS books_authors (
			book_id INTEGER NOT NULL REFERENCES books (id),
			author_id INTEGER NOT NULL REFERENCES authors (id)
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT NOT NULL,
			pass_hash TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS inventory (
			book_id INTEGER PRIMARY KEY REFERENCES books (id),
			available_copies INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS borrowed_books (
			id INTEGER PRIMARY KEY,
			book_id INTEGER NOT NULL REFERENCES books (id),
			user_id INTEGER NOT NULL REFERENCES users (id),
			borrowed_at TIMESTAMP NOT NULL,
			due_date TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS borrowed_books_user_book_idx ON borrowed_books (user_id, book_id)`,
	},
}

// Migrate creates the schema if it does not exist yet. It is safe to run repeatedly.
func (s Store) Migrate(ctx context.Context) error {
	statements, ok := schemaStatements[s.dialectName]
	if !ok {
		return fmt.Errorf("no schema for dialect %q", s.dialectName)
	}

	return s.WithinTransaction(ctx, func(ctx context.Context, session Session) error {
		err := s.observe(ctx, operationMigrate, func(ctx context.Context) error {
			for _, statement := range statements {
				if _, err := session.exec(ctx, operationMigrate, statement, nil); err != nil {
					return err
				}
			}

			return nil
		})
		if err != nil {
			return err
		}

		s.logInfo(ctx, logMsgMigrationApplied, logAttrDialect, s.dialectName, logAttrStatementCount, len(statements))

		return nil
	})
}
