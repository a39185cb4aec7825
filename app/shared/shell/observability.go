package shell

import (
	"context"
	"strconv"
	"time"

	"github.com/AntonStoeckl/library-circulation-api/library"
)

const (
	// CommandHandlerDurationMetric tracks command handler execution duration.
	CommandHandlerDurationMetric = "commandhandler_handle_duration_seconds"

	// CommandHandlerCallsMetric tracks total command handler calls.
	CommandHandlerCallsMetric = "commandhandler_handle_calls_total"

	// CommandHandlerCanceledMetric tracks canceled command operations.
	CommandHandlerCanceledMetric = "commandhandler_canceled_operations_total"

	// CommandHandlerTimeoutMetric tracks command operations that ran into a deadline.
	CommandHandlerTimeoutMetric = "commandhandler_timeout_operations_total"

	// CommandHandlerUnmatchedReturnsMetric counts returns without a matching borrow record.
	CommandHandlerUnmatchedReturnsMetric = "commandhandler_unmatched_returns_total"

	// QueryHandlerDurationMetric tracks query handler execution duration.
	QueryHandlerDurationMetric = "queryhandler_handle_duration_seconds"

	// QueryHandlerCallsMetric tracks total query handler calls.
	QueryHandlerCallsMetric = "queryhandler_handle_calls_total"

	// QueryHandlerCanceledMetric tracks canceled query operations.
	QueryHandlerCanceledMetric = "queryhandler_canceled_operations_total"

	// QueryHandlerTimeoutMetric tracks query operations that ran into a deadline.
	QueryHandlerTimeoutMetric = "queryhandler_timeout_operations_total"

	StatusSuccess  = "success"
	StatusError    = "error"
	StatusCanceled = "canceled"
	StatusTimeout  = "timeout"

	// OutcomeUnmatchedReturn marks a return request that put back copies nobody had borrowed.
	OutcomeUnmatchedReturn = "unmatched_return"

	LogMsgCommandStarted   = "command handler started"
	LogMsgCommandCompleted = "command handler completed"
	LogMsgCommandFailed    = "command handler failed"
	LogMsgQueryStarted     = "query handler started"
	LogMsgQueryCompleted   = "query handler completed"
	LogMsgQueryFailed      = "query handler failed"
	LogMsgUnmatchedReturn  = "returned book had no borrow record"
	LogMsgPublishFailed    = "failed to publish circulation event"

	LogAttrCommandType      = "command_type"
	LogAttrQueryType        = "query_type"
	LogAttrStatus           = "status"
	LogAttrDurationMS       = "duration_ms"
	LogAttrBusinessOutcome  = "business_outcome"
	LogAttrError            = "error"
	LogAttrErrorKind        = "error_kind"
	LogAttrBookID           = "book_id"
	LogAttrUserID           = "user_id"
	LogAttrTitle            = "title"
	LogAttrRoutingKey       = "routing_key"
	LogAttrUnmatchedReturns = "unmatched_returns"

	// SpanNameCommandHandle is the tracing span name for command handling.
	SpanNameCommandHandle = "commandhandler.handle"

	// SpanNameQueryHandle is the tracing span name for query handling.
	SpanNameQueryHandle = "queryhandler.handle"
)

type (
	Logger                     = library.Logger
	ContextualLogger           = library.ContextualLogger
	MetricsCollector           = library.MetricsCollector
	ContextualMetricsCollector = library.ContextualMetricsCollector
	TracingCollector           = library.TracingCollector
	SpanContext                = library.SpanContext
)

// handlerKind holds the names that differ between command and query instrumentation.
type handlerKind struct {
	typeAttr       string
	durationMetric string
	callsMetric    string
	canceledMetric string
	timeoutMetric  string
	spanName       string
	msgStarted     string
	msgCompleted   string
	msgFailed      string
}

var (
	commandKind = handlerKind{
		typeAttr:       LogAttrCommandType,
		durationMetric: CommandHandlerDurationMetric,
		callsMetric:    CommandHandlerCallsMetric,
		canceledMetric: CommandHandlerCanceledMetric,
		timeoutMetric:  CommandHandlerTimeoutMetric,
		spanName:       SpanNameCommandHandle,
		msgStarted:     LogMsgCommandStarted,
		msgCompleted:   LogMsgCommandCompleted,
		msgFailed:      LogMsgCommandFailed,
	}

	queryKind = handlerKind{
		typeAttr:       LogAttrQueryType,
		durationMetric: QueryHandlerDurationMetric,
		callsMetric:    QueryHandlerCallsMetric,
		canceledMetric: QueryHandlerCanceledMetric,
		timeoutMetric:  QueryHandlerTimeoutMetric,
		spanName:       SpanNameQueryHandle,
		msgStarted:     LogMsgQueryStarted,
		msgCompleted:   LogMsgQueryCompleted,
		msgFailed:      LogMsgQueryFailed,
	}
)

// StatusOf maps a handler error to the status label.
func StatusOf(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case library.IsCancellationError(err):
		return StatusCanceled
	case library.IsTimeoutError(err):
		return StatusTimeout
	default:
		return StatusError
	}
}

// BuildCommandLabels creates standard metric labels for command handler operations.
func BuildCommandLabels(commandType, status string) map[string]string {
	return map[string]string{LogAttrCommandType: commandType, LogAttrStatus: status}
}

// BuildQueryLabels creates standard metric labels for query handler operations.
func BuildQueryLabels(queryType, status string) map[string]string {
	return map[string]string{LogAttrQueryType: queryType, LogAttrStatus: status}
}

// ToMilliseconds converts a time.Duration to float64 milliseconds.
func ToMilliseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

// RecordCommandMetrics records duration and call count of one command, plus the canceled and timeout counters.
func RecordCommandMetrics(ctx context.Context, collector MetricsCollector, commandType, status string, duration time.Duration) {
	commandKind.recordMetrics(ctx, collector, commandType, status, duration)
}

// RecordQueryMetrics records duration and call count of one query, plus the canceled and timeout counters.
func RecordQueryMetrics(ctx context.Context, collector MetricsCollector, queryType, status string, duration time.Duration) {
	queryKind.recordMetrics(ctx, collector, queryType, status, duration)
}

// RecordUnmatchedReturns counts returns without a borrow record.
func RecordUnmatchedReturns(ctx context.Context, collector MetricsCollector, commandType string, count int) {
	if collector == nil || count == 0 {
		return
	}

	labels := map[string]string{LogAttrCommandType: commandType}
	for range count {
		incrementCounter(ctx, collector, CommandHandlerUnmatchedReturnsMetric, labels)
	}
}

func (k handlerKind) recordMetrics(ctx context.Context, collector MetricsCollector, handlerType, status string, duration time.Duration) {
	if collector == nil {
		return
	}

	labels := map[string]string{k.typeAttr: handlerType, LogAttrStatus: status}

	if contextual, ok := collector.(ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, k.durationMetric, duration, labels)
	} else {
		collector.RecordDuration(k.durationMetric, duration, labels)
	}
	incrementCounter(ctx, collector, k.callsMetric, labels)

	switch status {
	case StatusCanceled:
		incrementCounter(ctx, collector, k.canceledMetric, labels)
	case StatusTimeout:
		incrementCounter(ctx, collector, k.timeoutMetric, labels)
	}
}

func incrementCounter(ctx context.Context, collector MetricsCollector, metric string, labels map[string]string) {
	if contextual, ok := collector.(ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, metric, labels)
		return
	}

	collector.IncrementCounter(metric, labels)
}

// StartCommandSpan starts a span for command handling. Without a collector it returns ctx and a nil span.
func StartCommandSpan(ctx context.Context, collector TracingCollector, commandType string) (context.Context, SpanContext) {
	return commandKind.startSpan(ctx, collector, commandType)
}

// StartQuerySpan starts a span for query handling. Without a collector it returns ctx and a nil span.
func StartQuerySpan(ctx context.Context, collector TracingCollector, queryType string) (context.Context, SpanContext) {
	return queryKind.startSpan(ctx, collector, queryType)
}

func (k handlerKind) startSpan(ctx context.Context, collector TracingCollector, handlerType string) (context.Context, SpanContext) {
	if collector == nil {
		return ctx, nil
	}

	return collector.StartSpan(ctx, k.spanName, map[string]string{k.typeAttr: handlerType})
}

// FinishSpan completes a command or query span with the operation outcome.
func FinishSpan(collector TracingCollector, span SpanContext, status string, duration time.Duration, err error) {
	if collector == nil || span == nil {
		return
	}

	attrs := map[string]string{
		LogAttrStatus:     status,
		LogAttrDurationMS: strconv.FormatFloat(ToMilliseconds(duration), 'f', 2, 64),
	}

	if err != nil {
		attrs[LogAttrError] = err.Error()
		attrs[LogAttrErrorKind] = string(library.KindOf(err))
	}

	collector.FinishSpan(span, status, attrs)
}

// LogCommandStart logs the beginning of command processing.
func LogCommandStart(ctx context.Context, logger Logger, contextualLogger ContextualLogger, commandType string) {
	logInfo(ctx, logger, contextualLogger, commandKind.msgStarted, commandKind.typeAttr, commandType)
}

// LogCommandSuccess logs successful command completion.
func LogCommandSuccess(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	commandType string,
	businessOutcome string,
	duration time.Duration,
) {
	logInfo(ctx, logger, contextualLogger, commandKind.msgCompleted,
		commandKind.typeAttr, commandType,
		LogAttrBusinessOutcome, businessOutcome,
		LogAttrDurationMS, ToMilliseconds(duration),
	)
}

// LogCommandError logs command processing errors.
func LogCommandError(ctx context.Context, logger Logger, contextualLogger ContextualLogger, commandType string, err error) {
	commandKind.logError(ctx, logger, contextualLogger, commandType, err)
}

// LogQueryStart logs the beginning of query processing.
func LogQueryStart(ctx context.Context, logger Logger, contextualLogger ContextualLogger, queryType string) {
	logInfo(ctx, logger, contextualLogger, queryKind.msgStarted, queryKind.typeAttr, queryType)
}

// LogQuerySuccess logs successful query completion.
func LogQuerySuccess(ctx context.Context, logger Logger, contextualLogger ContextualLogger, queryType string, duration time.Duration) {
	logInfo(ctx, logger, contextualLogger, queryKind.msgCompleted,
		queryKind.typeAttr, queryType,
		LogAttrDurationMS, ToMilliseconds(duration),
	)
}

// LogQueryError logs query processing errors.
func LogQueryError(ctx context.Context, logger Logger, contextualLogger ContextualLogger, queryType string, err error) {
	queryKind.logError(ctx, logger, contextualLogger, queryType, err)
}

func (k handlerKind) logError(ctx context.Context, logger Logger, contextualLogger ContextualLogger, handlerType string, err error) {
	args := []any{
		k.typeAttr, handlerType,
		LogAttrError, err.Error(),
		LogAttrErrorKind, string(library.KindOf(err)),
	}

	// Validation failures are logged at warn level.
	if library.KindOf(err) == library.KindValidation {
		logWarn(ctx, logger, contextualLogger, k.msgFailed, args...)
		return
	}

	if contextualLogger != nil {
		contextualLogger.ErrorContext(ctx, k.msgFailed, args...)
	} else if logger != nil {
		logger.Error(k.msgFailed, args...)
	}
}

func logInfo(ctx context.Context, logger Logger, contextualLogger ContextualLogger, msg string, args ...any) {
	if contextualLogger != nil {
		contextualLogger.InfoContext(ctx, msg, args...)
	} else if logger != nil {
		logger.Info(msg, args...)
	}
}

func logWarn(ctx context.Context, logger Logger, contextualLogger ContextualLogger, msg string, args ...any) {
	if contextualLogger != nil {
		contextualLogger.WarnContext(ctx, msg, args...)
	} else if logger != nil {
		logger.Warn(msg, args...)
	}
}

// LogWarn logs a warning on whichever logger is configured, preferring the contextual one.
func LogWarn(ctx context.Context, logger Logger, contextualLogger ContextualLogger, msg string, args ...any) {
	logWarn(ctx, logger, contextualLogger, msg, args...)
}
