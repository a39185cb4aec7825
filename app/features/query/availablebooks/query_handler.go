package availablebooks

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-api/app/shared/shell"
	"github.com/AntonStoeckl/library-circulation-api/library"
	"github.com/AntonStoeckl/library-circulation-api/library/sqlengine"
)

// QueryHandler reports the inventory of every book.
type QueryHandler struct {
	store shell.RunsSessions
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store shell.RunsSessions) QueryHandler {
	return QueryHandler{store: store}
}

// Handle returns all books ordered by id with total and available copies.
func (h QueryHandler) Handle(ctx context.Context, _ Query) ([]library.AvailableBook, error) {
	var books []library.AvailableBook

	err := h.store.WithSession(ctx, func(ctx context.Context, session sqlengine.Session) error {
		var err error
		books, err = session.ListBooksWithAvailability(ctx)

		return err
	})
	if err != nil {
		return nil, err
	}

	return books, nil
}
