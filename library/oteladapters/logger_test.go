package oteladapters_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/log/noop"

	"github.com/AntonStoeckl/library-circulation-api/library/oteladapters"
)

func Test_SlogBridgeLoggerWithHandler_AllLevels(t *testing.T) {
	// setup
	var buf bytes.Buffer
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := context.Background()

	// act
	logger.DebugContext(ctx, "debug message")
	logger.InfoContext(ctx, "info message", "command_type", "BorrowBooks")
	logger.Warn("warn message")
	logger.Error("error message", "error_kind", "Database")

	// assert
	output := buf.String()
	assert.Contains(t, output, `"level":"DEBUG"`)
	assert.Contains(t, output, `"msg":"info message"`)
	assert.Contains(t, output, `"command_type":"BorrowBooks"`)
	assert.Contains(t, output, `"level":"WARN"`)
	assert.Contains(t, output, `"error_kind":"Database"`)
}

func Test_SlogBridgeLogger_UsesGlobalProvider(t *testing.T) {
	logger := oteladapters.NewSlogBridgeLogger("library")

	assert.NotPanics(t, func() {
		logger.InfoContext(context.Background(), "request served", "status", 200)
	})
}

func Test_OTelLogger_EmitsWithoutPanicking(t *testing.T) {
	logger := oteladapters.NewOTelLogger(noop.NewLoggerProvider().Logger("library"))

	assert.NotPanics(t, func() {
		logger.ErrorContext(context.Background(), "query failed", "operation", "ListBooks", "duration_ms", 1.5, "dangling")
	})
}
