// Package library provides the core records and contracts of the library circulation system.
//
// This package defines the read models returned by the repository layer, the closed set of
// error kinds every failure is classified into, and the dependency-free observability
// interfaces that all other packages accept.
//
// Key types:
//   - Book, AvailableBook, BorrowedBook: read models of the catalog and of active loans
//   - User: a registered library user (the password hash is never part of the read model)
//   - BookField: the closed set of fields books can be looked up by
//   - Kind: the classification of failures (Validation, NotFound, Database, PoolExhaustion)
//
// Error classification:
//
//	books, err := session.BooksByField(ctx, library.BookFieldTitle, "Dune")
//	if err != nil {
//		switch library.KindOf(err) {
//		case library.KindValidation:
//			// bad input
//		default:
//			// infrastructure failure
//		}
//	}
//
// Observability is opt-in: Logger, ContextualLogger, MetricsCollector and TracingCollector are
// plain interfaces, so *slog.Logger, OpenTelemetry (see the oteladapters package) or any test
// double can be plugged in without this package importing them.
package library
