package returnbooks

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-api/app/shared/core"
	"github.com/AntonStoeckl/library-circulation-api/app/shared/shell"
	"github.com/AntonStoeckl/library-circulation-api/library/sqlengine"
)

// CommandHandler runs the return workflow: resolve titles, delete borrow records, adjust inventory.
// Everything happens in one transaction; events are published after the commit.
type CommandHandler struct {
	store     shell.RunsTransactions
	resolver  *shell.TitleResolver
	adjuster  shell.InventoryAdjuster
	publisher shell.PublishesEvents
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithTitleResolver shares a (cached) TitleResolver with other handlers.
func WithTitleResolver(resolver *shell.TitleResolver) Option {
	return func(h *CommandHandler) {
		h.resolver = resolver
	}
}

// WithInventoryAdjuster replaces the default InventoryAdjuster.
func WithInventoryAdjuster(adjuster shell.InventoryAdjuster) Option {
	return func(h *CommandHandler) {
		h.adjuster = adjuster
	}
}

// WithEventPublisher sets where book.returned events go. Events are dropped by default.
func WithEventPublisher(publisher shell.PublishesEvents) Option {
	return func(h *CommandHandler) {
		h.publisher = publisher
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(store shell.RunsTransactions, opts ...Option) CommandHandler {
	uncached, _ := shell.NewTitleResolver(0)

	handler := CommandHandler{
		store:     store,
		resolver:  uncached,
		adjuster:  shell.NewInventoryAdjuster(),
		publisher: shell.NoopPublisher{},
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle returns one copy per title in input order. Every borrow record the user holds for a title is
// deleted, and the inventory of that book grows by one per listed title.
//
// A title the user never borrowed is not rejected: it still puts a copy back and is counted in
// HandlerResult.UnmatchedReturns.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	if err := core.ValidateCirculation(command.UserID, command.Titles); err != nil {
		return shell.HandlerResult{}, err
	}

	var (
		bookIDs   []int64
		unmatched int
	)

	err := h.store.WithinTransaction(ctx, func(ctx context.Context, session sqlengine.Session) error {
		var err error
		if bookIDs, err = h.resolver.ResolveAll(ctx, session, command.Titles); err != nil {
			return err
		}

		unmatched = 0

		for _, bookID := range bookIDs {
			deleted, err := session.DeleteBorrowRecords(ctx, bookID, command.UserID)
			if err != nil {
				return err
			}

			if deleted == 0 {
				unmatched++
			}

			if err = h.adjuster.Adjust(ctx, session, bookID, 1); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return shell.HandlerResult{}, err
	}

	h.publisher.Publish(ctx, returnedEvents(command, bookIDs)...)

	return shell.NewCirculationResult(len(bookIDs), unmatched), nil
}

func returnedEvents(command Command, bookIDs []int64) []shell.CirculationEvent {
	events := make([]shell.CirculationEvent, 0, len(bookIDs))

	for i, bookID := range bookIDs {
		events = append(events, shell.CirculationEvent{
			RoutingKey: shell.RKBookReturned,
			BookID:     bookID,
			UserID:     command.UserID,
			Title:      command.Titles[i],
			OccurredAt: command.ReturnedAt,
		})
	}

	return events
}
