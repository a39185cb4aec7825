package registeredusers

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-api/app/shared/shell"
	"github.com/AntonStoeckl/library-circulation-api/library"
	"github.com/AntonStoeckl/library-circulation-api/library/sqlengine"
)

// QueryHandler lists the registered users.
type QueryHandler struct {
	store shell.RunsSessions
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(store shell.RunsSessions) QueryHandler {
	return QueryHandler{store: store}
}

// Handle returns every user ordered by id. Password hashes are never part of the result.
func (h QueryHandler) Handle(ctx context.Context, _ Query) ([]library.User, error) {
	var users []library.User

	err := h.store.WithSession(ctx, func(ctx context.Context, session sqlengine.Session) error {
		var err error
		users, err = session.ListUsers(ctx)

		return err
	})
	if err != nil {
		return nil, err
	}

	return users, nil
}
