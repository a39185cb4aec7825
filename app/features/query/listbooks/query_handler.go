package listbooks

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-api/app/shared/shell"
	"github.com/AntonStoeckl/library-circulation-api/library"
	"github.com/AntonStoeckl/library-circulation-api/library/sqlengine"
)

// QueryHandler lists every book joined with its authors.
type QueryHandler struct {
	store shell.RunsSessions
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store shell.RunsSessions) QueryHandler {
	return QueryHandler{store: store}
}

// Handle returns one element per (book, author) pair ordered by book id; never nil.
func (h QueryHandler) Handle(ctx context.Context, _ Query) ([]library.Book, error) {
	var books []library.Book

	err := h.store.WithSession(ctx, func(ctx context.Context, session sqlengine.Session) error {
		var err error
		books, err = session.ListBooks(ctx)

		return err
	})
	if err != nil {
		return nil, err
	}

	return books, nil
}
