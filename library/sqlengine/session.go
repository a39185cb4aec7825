package sqlengine

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/AntonStoeckl/library-circulation-api/library"
	"github.com/AntonStoeckl/library-circulation-api/library/sqlengine/internal/adapters"
)

const (
	tableBooks         = "books"
	tableAuthors       = "authors"
	tableBooksAuthors  = "books_authors"
	tableUsers         = "users"
	tableInventory     = "inventory"
	tableBorrowedBooks = "borrowed_books"
)

// Session is the repository bound to one leased connection, optionally inside a transaction.
// A Session must not be used after the function it was handed to has returned.
type Session struct {
	store Store
	q     adapters.Querier
}

type sqlBuilder interface {
	ToSQL() (string, []any, error)
}

func (s Session) build(ctx context.Context, operation string, builder sqlBuilder) (string, []any, error) {
	sqlQuery, args, err := builder.ToSQL()
	if err != nil {
		s.store.logError(ctx, logMsgBuildQueryFailed, err, logAttrOperation, operation)
		return "", nil, err
	}

	return sqlQuery, args, nil
}

// queryRows streams all rows of a query into scan and always closes the rows.
func (s Session) queryRows(
	ctx context.Context,
	operation string,
	sqlQuery string,
	args []any,
	scan func(rows adapters.DBRows) error,
) error {
	start := time.Now()

	rows, err := s.q.Query(ctx, sqlQuery, args...)
	if err != nil {
		return err
	}
	defer s.closeRows(ctx, rows)

	for rows.Next() {
		if scanErr := scan(rows); scanErr != nil {
			return scanErr
		}
	}

	if err = rows.Err(); err != nil {
		return err
	}

	s.store.logQueryWithDuration(ctx, operation, sqlQuery, time.Since(start))

	return nil
}

func (s Session) exec(ctx context.Context, operation string, sqlQuery string, args []any) (adapters.DBResult, error) {
	start := time.Now()

	result, err := s.q.Exec(ctx, sqlQuery, args...)
	if err != nil {
		return nil, err
	}

	s.store.logQueryWithDuration(ctx, operation, sqlQuery, time.Since(start))

	return result, nil
}

// insertReturningID runs an insert and reports the generated id of the new row.
func (s Session) insertReturningID(ctx context.Context, operation string, ds *goqu.InsertDataset) (int64, error) {
	if s.store.supportsReturning {
		sqlQuery, args, err := s.build(ctx, operation, ds.Returning("id").Prepared(true))
		if err != nil {
			return 0, err
		}

		var id int64
		err = s.queryRows(ctx, operation, sqlQuery, args, func(rows adapters.DBRows) error {
			return rows.Scan(&id)
		})

		return id, err
	}

	sqlQuery, args, err := s.build(ctx, operation, ds.Prepared(true))
	if err != nil {
		return 0, err
	}

	result, err := s.exec(ctx, operation, sqlQuery, args)
	if err != nil {
		return 0, err
	}

	id, err := result.LastInsertID()
	if err != nil {
		return 0, errors.Join(library.ErrIDNotSupported, err)
	}

	return id, nil
}

// closeRows safely closes database rows and logs any errors.
func (s Session) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		s.store.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
	}
}

// normalizeTime brings scanned timestamps into the form they were written in.
func normalizeTime(t time.Time) time.Time {
	return t.UTC()
}
