package addbook

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-api/app/shared/core"
	"github.com/AntonStoeckl/library-circulation-api/app/shared/shell"
	"github.com/AntonStoeckl/library-circulation-api/library/sqlengine"
)

// CommandHandler stores a book, links its author and seeds the inventory in one transaction.
type CommandHandler struct {
	store shell.RunsTransactions
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(store shell.RunsTransactions) CommandHandler {
	return CommandHandler{store: store}
}

// Handle validates the command and returns the id of the new book in HandlerResult.CreatedID.
// An author that already exists is reused.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	if err := core.ValidateNewBook(
		command.Title, command.ISBN, command.NrCopies, command.AuthorFirst, command.AuthorLast,
	); err != nil {
		return shell.HandlerResult{}, err
	}

	var bookID int64

	err := h.store.WithinTransaction(ctx, func(ctx context.Context, session sqlengine.Session) error {
		var err error
		if bookID, err = session.InsertBook(ctx, command.Title, command.ISBN, command.NrCopies); err != nil {
			return err
		}

		authorID, err := session.FindOrCreateAuthor(ctx, command.AuthorFirst, command.AuthorLast)
		if err != nil {
			return err
		}

		if err = session.LinkBookAuthor(ctx, bookID, authorID); err != nil {
			return err
		}

		return session.UpsertAvailableCopies(ctx, bookID, command.NrCopies)
	})
	if err != nil {
		return shell.HandlerResult{}, err
	}

	return shell.NewCreatedResult(bookID), nil
}
