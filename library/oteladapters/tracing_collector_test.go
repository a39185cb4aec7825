package oteladapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/AntonStoeckl/library-circulation-api/library/oteladapters"
)

func newTracingCollector() (*oteladapters.TracingCollector, *tracetest.InMemoryExporter) {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	return oteladapters.NewTracingCollector(provider.Tracer("test")), exporter
}

func attrOf(span tracetest.SpanStub, key string) (string, bool) {
	for _, attr := range span.Attributes {
		if attr.Key == attribute.Key(key) {
			return attr.Value.AsString(), true
		}
	}

	return "", false
}

func Test_TracingCollector_StartAndFinishSpan(t *testing.T) {
	// setup
	collector, exporter := newTracingCollector()

	// act
	_, span := collector.StartSpan(context.Background(), "sqlengine.InsertBorrowRecord", map[string]string{"operation": "InsertBorrowRecord"})
	collector.FinishSpan(span, "success", map[string]string{"rows": "1"})

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "sqlengine.InsertBorrowRecord", spans[0].Name)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)

	operation, _ := attrOf(spans[0], "operation")
	assert.Equal(t, "InsertBorrowRecord", operation)

	rows, _ := attrOf(spans[0], "rows")
	assert.Equal(t, "1", rows)
}

func Test_TracingCollector_StatusMapping(t *testing.T) {
	cases := map[string]codes.Code{
		"success":  codes.Ok,
		"error":    codes.Error,
		"canceled": codes.Error,
		"timeout":  codes.Error,
	}

	for status, want := range cases {
		t.Run(status, func(t *testing.T) {
			collector, exporter := newTracingCollector()

			_, span := collector.StartSpan(context.Background(), "op", nil)
			collector.FinishSpan(span, status, nil)

			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, want, spans[0].Status.Code)
		})
	}
}

func Test_TracingCollector_UnknownStatusBecomesAttribute(t *testing.T) {
	// setup
	collector, exporter := newTracingCollector()

	// act
	_, span := collector.StartSpan(context.Background(), "op", nil)
	collector.FinishSpan(span, "unmatched_return", nil)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Unset, spans[0].Status.Code)

	status, ok := attrOf(spans[0], "status")
	assert.True(t, ok)
	assert.Equal(t, "unmatched_return", status)
}

func Test_TracingCollector_NestedSpansShareTrace(t *testing.T) {
	// setup
	collector, exporter := newTracingCollector()

	// act
	ctx, parent := collector.StartSpan(context.Background(), "BorrowBooks", nil)
	_, child := collector.StartSpan(ctx, "sqlengine.BookIDByTitle", nil)
	collector.FinishSpan(child, "success", nil)
	collector.FinishSpan(parent, "success", nil)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, spans[1].SpanContext.TraceID(), spans[0].SpanContext.TraceID())
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
}
