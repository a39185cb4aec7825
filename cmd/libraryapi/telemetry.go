package main

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/AntonStoeckl/library-circulation-api/app/shared/shell"
	"github.com/AntonStoeckl/library-circulation-api/app/shared/shell/config"
	"github.com/AntonStoeckl/library-circulation-api/library/oteladapters"
)

const (
	metricExportInterval = 15 * time.Second
	telemetryShutdown    = 5 * time.Second

	logMsgTelemetryEnabled  = "opentelemetry export enabled"
	logMsgTelemetryShutdown = "opentelemetry shutdown failed"
	logAttrError            = "error"
)

// observability bundles the collaborators every observable component receives.
// Metrics and tracing stay nil unless OpenTelemetry is enabled.
type observability struct {
	logger           shell.Logger
	contextualLogger shell.ContextualLogger
	metrics          shell.MetricsCollector
	tracing          shell.TracingCollector
}

// setupObservability returns the plain application logger when OpenTelemetry is disabled.
// When enabled, traces, metrics and logs are exported over OTLP/gRPC; the exporters read
// their endpoint from the standard OTEL_EXPORTER_OTLP_* variables.
func setupObservability(ctx context.Context, cfg config.Config, logger shell.AppLogger) (observability, func(), error) {
	obs := observability{logger: logger, contextualLogger: logger}

	if !cfg.OTelEnabled {
		return obs, func() {}, nil
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(semconv.ServiceName(serviceName)))
	if err != nil {
		return observability{}, nil, err
	}

	traceExporter, err := otlptracegrpc.New(ctx)
	if err != nil {
		return observability{}, nil, err
	}

	metricExporter, err := otlpmetricgrpc.New(ctx)
	if err != nil {
		return observability{}, nil, err
	}

	logExporter, err := otlploggrpc.New(ctx)
	if err != nil {
		return observability{}, nil, err
	}

	tracerProvider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(traceExporter), sdktrace.WithResource(res))
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(metricExportInterval))),
		sdkmetric.WithResource(res),
	)
	loggerProvider := sdklog.NewLoggerProvider(sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)), sdklog.WithResource(res))

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	global.SetLoggerProvider(loggerProvider)

	obs.contextualLogger = oteladapters.NewSlogBridgeLogger(serviceName)
	obs.metrics = oteladapters.NewMetricsCollector(meterProvider.Meter(serviceName))
	obs.tracing = oteladapters.NewTracingCollector(tracerProvider.Tracer(serviceName))

	logger.Info(logMsgTelemetryEnabled)

	shutdown := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), telemetryShutdown)
		defer cancel()

		err := errors.Join(
			tracerProvider.Shutdown(shutdownCtx),
			meterProvider.Shutdown(shutdownCtx),
			loggerProvider.Shutdown(shutdownCtx),
		)
		if err != nil {
			logger.Error(logMsgTelemetryShutdown, logAttrError, err.Error())
		}
	}

	return obs, shutdown, nil
}
