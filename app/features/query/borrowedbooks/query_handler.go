package borrowedbooks

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-api/app/shared/shell"
	"github.com/AntonStoeckl/library-circulation-api/library"
	"github.com/AntonStoeckl/library-circulation-api/library/sqlengine"
)

// QueryHandler lists the active loans of one user.
type QueryHandler struct {
	store shell.RunsSessions
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store shell.RunsSessions) QueryHandler {
	return QueryHandler{store: store}
}

// Handle returns the borrowed books with their due dates, oldest loan first.
// An unknown user has no loans and gets an empty result.
func (h QueryHandler) Handle(ctx context.Context, query Query) ([]library.BorrowedBook, error) {
	var borrowed []library.BorrowedBook

	err := h.store.WithSession(ctx, func(ctx context.Context, session sqlengine.Session) error {
		var err error
		borrowed, err = session.BorrowedBooksForUser(ctx, query.UserID)

		return err
	})
	if err != nil {
		return nil, err
	}

	return borrowed, nil
}
