package booksbyfield

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-api/app/shared/shell"
	"github.com/AntonStoeckl/library-circulation-api/library"
	"github.com/AntonStoeckl/library-circulation-api/library/sqlengine"
)

// QueryHandler looks books up by id, title or author last name.
type QueryHandler struct {
	store shell.RunsSessions
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store shell.RunsSessions) QueryHandler {
	return QueryHandler{store: store}
}

// Handle returns the matching books. No match is an empty result, not an error.
func (h QueryHandler) Handle(ctx context.Context, query Query) ([]library.Book, error) {
	var books []library.Book

	err := h.store.WithSession(ctx, func(ctx context.Context, session sqlengine.Session) error {
		var err error
		books, err = session.BooksByField(ctx, query.Field, query.Value)

		return err
	})
	if err != nil {
		return nil, err
	}

	return books, nil
}
