// Package sqlengine provides the relational repository of the library circulation system.
//
// A Store wraps one of three connection pool types (pgxpool.Pool, sql.DB, sqlx.DB) and speaks
// either the PostgreSQL or the SQLite dialect. All statements are built with goqu in prepared
// mode, so user supplied values always travel as bind parameters.
//
// Connections are leased explicitly. Every unit of work runs inside WithSession (autocommit) or
// WithinTransaction (commit on success, rollback on any error or panic). In both cases the leased
// connection is released exactly once, whatever happens inside the callback:
//
//	err := store.WithinTransaction(ctx, func(ctx context.Context, s sqlengine.Session) error {
//		bookID, err := s.BookIDByTitle(ctx, "Dune")
//		if err != nil {
//			return err
//		}
//
//		return s.UpsertAvailableCopies(ctx, bookID, -1)
//	})
//
// Each Session operation is one database round-trip (FindOrCreateAuthor is two) bounded by the
// query timeout, traced as one span and measured as one duration sample. Failures are joined
// with library.ErrDatabaseQuery, except the domain outcomes library.ErrBookNotFound and
// library.ErrUnknownBookField, which are returned as they are.
//
// Inventory counters are changed with a single INSERT ... ON CONFLICT DO UPDATE statement and
// authors are created with INSERT ... ON CONFLICT DO NOTHING under a unique constraint, so
// neither suffers from check-then-write races.
package sqlengine
