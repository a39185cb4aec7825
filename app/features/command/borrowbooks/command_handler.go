package borrowbooks

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-api/app/shared/core"
	"github.com/AntonStoeckl/library-circulation-api/app/shared/shell"
	"github.com/AntonStoeckl/library-circulation-api/library/sqlengine"
)

// CommandHandler runs the borrow workflow: resolve titles, create borrow records, adjust inventory.
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

// WithEventPublisher sets where book.borrowed events go. Events are dropped by default.
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

// Handle borrows one copy per title, duplicates included, in input order.
// All titles are resolved before anything is written; an unknown title fails with library.ErrBookNotFound
// and leaves the database untouched.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	if err := core.ValidateCirculation(command.UserID, command.Titles); err != nil {
		return shell.HandlerResult{}, err
	}

	var loans []core.Loan

	err := h.store.WithinTransaction(ctx, func(ctx context.Context, session sqlengine.Session) error {
		bookIDs, err := h.resolver.ResolveAll(ctx, session, command.Titles)
		if err != nil {
			return err
		}

		loans = core.PlanLoans(command.UserID, bookIDs, command.BorrowedAt)

		for _, loan := range loans {
			if err = session.InsertBorrowRecord(ctx, loan.BookID, loan.UserID, loan.BorrowedAt, loan.DueDate); err != nil {
				return err
			}

			if err = h.adjuster.Adjust(ctx, session, loan.BookID, -1); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return shell.HandlerResult{}, err
	}

	h.publisher.Publish(ctx, borrowedEvents(command.Titles, loans)...)

	return shell.NewCirculationResult(len(loans), 0), nil
}

func borrowedEvents(titles []string, loans []core.Loan) []shell.CirculationEvent {
	events := make([]shell.CirculationEvent, 0, len(loans))

	for i, loan := range loans {
		dueDate := loan.DueDate
		events = append(events, shell.CirculationEvent{
			RoutingKey: shell.RKBookBorrowed,
			BookID:     loan.BookID,
			UserID:     loan.UserID,
			Title:      titles[i],
			OccurredAt: loan.BorrowedAt,
			DueDate:    &dueDate,
		})
	}

	return events
}
