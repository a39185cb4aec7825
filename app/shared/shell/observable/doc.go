// Package observable provides wrappers that instrument command and query handlers
// with metrics, tracing and logging while the handlers themselves stay free of it.
//
// Wrapping happens at wiring time:
//
//	coreHandler := borrowbooks.NewCommandHandler(store, resolver, adjuster, publisher)
//
//	handler, err := observable.NewCommandWrapper(
//		coreHandler,
//		observable.WithCommandMetrics[borrowbooks.Command](metricsCollector),
//		observable.WithCommandTracing[borrowbooks.Command](tracingCollector),
//		observable.WithCommandContextualLogging[borrowbooks.Command](logger),
//	)
//
// Every option is optional; a wrapper without options only delegates.
package observable
