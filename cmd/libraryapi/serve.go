package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AntonStoeckl/library-circulation-api/app/httpapi"
	"github.com/AntonStoeckl/library-circulation-api/app/shared/shell"
	"github.com/AntonStoeckl/library-circulation-api/app/shared/shell/config"
	"github.com/AntonStoeckl/library-circulation-api/library/sqlengine"
)

const (
	serviceName = "library-circulation-api"

	readHeaderTimeout = 5 * time.Second

	logMsgSchemaMigrated  = "database schema migrated"
	logMsgListening       = "http server listening"
	logMsgShuttingDown    = "http server shutting down"
	logMsgPublisherActive = "publishing circulation events"

	logAttrDriver   = "driver"
	logAttrAddr     = "addr"
	logAttrExchange = "exchange"
)

// serve wires the whole application and blocks until ctx is canceled or the server fails.
func serve(ctx context.Context, cfg config.Config, logOut io.Writer, migrate bool) error {
	logger, err := shell.NewLogger(cfg, logOut)
	if err != nil {
		return err
	}

	obs, shutdownTelemetry, err := setupObservability(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer shutdownTelemetry()

	store, closeStore, err := config.OpenStore(ctx, cfg, obs.storeOptions()...)
	if err != nil {
		return err
	}
	defer closeStore()

	if migrate {
		if err = store.Migrate(ctx); err != nil {
			return err
		}

		logger.Info(logMsgSchemaMigrated, logAttrDriver, cfg.DBDriver)
	}

	var publisher shell.PublishesEvents = shell.NoopPublisher{}

	if cfg.AMQPURL != "" {
		amqpPublisher, err := shell.DialAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange,
			shell.WithPublisherLogger(obs.logger),
			shell.WithPublisherContextualLogger(obs.contextualLogger),
		)
		if err != nil {
			return err
		}
		defer amqpPublisher.Close()

		publisher = amqpPublisher
		logger.Info(logMsgPublisherActive, logAttrExchange, cfg.AMQPExchange)
	}

	handlers, err := buildHandlers(store, cfg, obs, publisher)
	if err != nil {
		return err
	}

	server := httpapi.NewServer(handlers,
		httpapi.WithReadinessCheck(store),
		httpapi.WithCORSOrigins(cfg.CORSOrigins),
		httpapi.WithLogger(obs.logger),
		httpapi.WithContextualLogger(obs.contextualLogger),
	)

	return run(ctx, &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}, cfg.ShutdownGrace, logger)
}

// run serves until ctx is done, then drains in-flight requests for at most grace.
func run(ctx context.Context, httpServer *http.Server, grace time.Duration, logger shell.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info(logMsgListening, logAttrAddr, httpServer.Addr)

		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info(logMsgShuttingDown)

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), grace)
		defer cancel()

		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// storeOptions passes the observability collaborators on to the repository layer.
func (o observability) storeOptions() []sqlengine.Option {
	opts := []sqlengine.Option{
		sqlengine.WithLogger(o.logger),
		sqlengine.WithContextualLogger(o.contextualLogger),
	}

	if o.metrics != nil {
		opts = append(opts, sqlengine.WithMetrics(o.metrics))
	}

	if o.tracing != nil {
		opts = append(opts, sqlengine.WithTracing(o.tracing))
	}

	return opts
}
