package main

import (
	"errors"

	"github.com/AntonStoeckl/library-circulation-api/app/features/command/addbook"
	"github.com/AntonStoeckl/library-circulation-api/app/features/command/borrowbooks"
	"github.com/AntonStoeckl/library-circulation-api/app/features/command/registeruser"
	"github.com/AntonStoeckl/library-circulation-api/app/features/command/returnbooks"
	"github.com/AntonStoeckl/library-circulation-api/app/features/query/availablebooks"
	"github.com/AntonStoeckl/library-circulation-api/app/features/query/booksbyfield"
	"github.com/AntonStoeckl/library-circulation-api/app/features/query/borrowedbooks"
	"github.com/AntonStoeckl/library-circulation-api/app/features/query/listbooks"
	"github.com/AntonStoeckl/library-circulation-api/app/features/query/registeredusers"
	"github.com/AntonStoeckl/library-circulation-api/app/httpapi"
	"github.com/AntonStoeckl/library-circulation-api/app/shared/shell"
	"github.com/AntonStoeckl/library-circulation-api/app/shared/shell/config"
	"github.com/AntonStoeckl/library-circulation-api/app/shared/shell/observable"
	"github.com/AntonStoeckl/library-circulation-api/library"
	"github.com/AntonStoeckl/library-circulation-api/library/sqlengine"
)

// buildHandlers creates every use case handler and wraps it for observability.
// Borrow and return share one title cache.
func buildHandlers(store sqlengine.Store, cfg config.Config, obs observability, publisher shell.PublishesEvents) (httpapi.Handlers, error) {
	resolver, err := shell.NewTitleResolver(cfg.TitleCacheSize)
	if err != nil {
		return httpapi.Handlers{}, err
	}

	hasher, err := shell.NewPasswordHasher(cfg.PasswordHash)
	if err != nil {
		return httpapi.Handlers{}, err
	}

	adjuster := shell.NewInventoryAdjuster(shell.WithTotalCopiesAdjustment(cfg.AdjustTotalCopies))

	var (
		h    httpapi.Handlers
		errs = make([]error, 0, 9)
	)

	h.AddBook, err = wrapCommand[addbook.Command](addbook.NewCommandHandler(store), obs)
	errs = append(errs, err)

	h.BorrowBooks, err = wrapCommand[borrowbooks.Command](borrowbooks.NewCommandHandler(store,
		borrowbooks.WithTitleResolver(resolver),
		borrowbooks.WithInventoryAdjuster(adjuster),
		borrowbooks.WithEventPublisher(publisher),
	), obs)
	errs = append(errs, err)

	h.ReturnBooks, err = wrapCommand[returnbooks.Command](returnbooks.NewCommandHandler(store,
		returnbooks.WithTitleResolver(resolver),
		returnbooks.WithInventoryAdjuster(adjuster),
		returnbooks.WithEventPublisher(publisher),
	), obs)
	errs = append(errs, err)

	h.RegisterUser, err = wrapCommand[registeruser.Command](registeruser.NewCommandHandler(store,
		registeruser.WithPasswordHasher(hasher),
		registeruser.WithEventPublisher(publisher),
	), obs)
	errs = append(errs, err)

	h.ListBooks, err = wrapQuery[listbooks.Query, []library.Book](listbooks.NewQueryHandler(store), obs)
	errs = append(errs, err)

	h.BooksByField, err = wrapQuery[booksbyfield.Query, []library.Book](booksbyfield.NewQueryHandler(store), obs)
	errs = append(errs, err)

	h.AvailableBooks, err = wrapQuery[availablebooks.Query, []library.AvailableBook](availablebooks.NewQueryHandler(store), obs)
	errs = append(errs, err)

	h.BorrowedBooks, err = wrapQuery[borrowedbooks.Query, []library.BorrowedBook](borrowedbooks.NewQueryHandler(store), obs)
	errs = append(errs, err)

	h.RegisteredUsers, err = wrapQuery[registeredusers.Query, []library.User](registeredusers.NewQueryHandler(store), obs)
	errs = append(errs, err)

	if err = errors.Join(errs...); err != nil {
		return httpapi.Handlers{}, err
	}

	return h, nil
}

func wrapCommand[C shell.Command](core shell.CoreCommandHandler[C], obs observability) (shell.CoreCommandHandler[C], error) {
	opts := []observable.CommandOption[C]{
		observable.WithCommandLogging[C](obs.logger),
		observable.WithCommandContextualLogging[C](obs.contextualLogger),
	}

	if obs.metrics != nil {
		opts = append(opts, observable.WithCommandMetrics[C](obs.metrics))
	}

	if obs.tracing != nil {
		opts = append(opts, observable.WithCommandTracing[C](obs.tracing))
	}

	return observable.NewCommandWrapper(core, opts...)
}

func wrapQuery[Q shell.Query, R any](core shell.CoreQueryHandler[Q, R], obs observability) (shell.CoreQueryHandler[Q, R], error) {
	opts := []observable.QueryOption[Q, R]{
		observable.WithQueryLogging[Q, R](obs.logger),
		observable.WithQueryContextualLogging[Q, R](obs.contextualLogger),
	}

	if obs.metrics != nil {
		opts = append(opts, observable.WithQueryMetrics[Q, R](obs.metrics))
	}

	if obs.tracing != nil {
		opts = append(opts, observable.WithQueryTracing[Q, R](obs.tracing))
	}

	return observable.NewQueryWrapper(core, opts...)
}
