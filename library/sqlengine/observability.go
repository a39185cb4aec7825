package sqlengine

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/AntonStoeckl/library-circulation-api/library"
)

const (
	metricOperationDuration = "sqlengine_operation_duration_seconds"
	metricDatabaseErrors    = "sqlengine_database_errors_total"
	metricPoolConnections   = "sqlengine_pool_connections"
	spanNamePrefix          = "sqlengine."
	spanAttrOperation       = "operation"
	spanAttrDBSystem        = "db.system"
	spanAttrErrorType       = "error_type"
	spanAttrDurationMS      = "duration_ms"
	labelStatus             = "status"
	labelState              = "state"
)

// observe runs one repository operation with its timeout, span, metrics and logs.
func (s Store) observe(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	ctx, span := s.startTraceSpan(ctx, operation)

	opCtx, cancel := s.withTimeout(ctx, s.queryTimeout)
	defer cancel()

	start := time.Now()
	err := fn(opCtx)
	duration := time.Since(start)

	if err == nil {
		s.recordDurationMetrics(ctx, operation, statusSuccess, duration)
		s.finishTraceSpan(span, statusSuccess, duration, "")

		return nil
	}

	errorType := classifyError(err)
	status := statusFor(errorType)

	s.recordDurationMetrics(ctx, operation, status, duration)
	s.finishTraceSpan(span, status, duration, errorType)

	if errorType == errorTypeNotFound {
		return err
	}

	s.recordErrorMetrics(ctx, operation, errorType)
	s.logError(ctx, logMsgOperationFailed, err, logAttrOperation, operation, logAttrDurationMS, toMilliseconds(duration))

	if errors.Is(err, library.ErrUnknownBookField) {
		return err
	}

	return errors.Join(library.ErrDatabaseQuery, err)
}

func classifyError(err error) string {
	switch {
	case errors.Is(err, library.ErrBookNotFound):
		return errorTypeNotFound
	case library.IsCancellationError(err):
		return errorTypeCanceled
	case library.IsTimeoutError(err):
		return errorTypeTimeout
	default:
		return errorTypeDatabase
	}
}

func statusFor(errorType string) string {
	switch errorType {
	case errorTypeCanceled:
		return statusCanceled
	case errorTypeTimeout:
		return statusTimeout
	default:
		return statusError
	}
}

func (s Store) logQueryWithDuration(ctx context.Context, operation, sqlQuery string, duration time.Duration) {
	s.logDebug(ctx, logMsgSQLExecuted+operation, logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery)
}

func (s Store) logDebug(ctx context.Context, msg string, args ...any) {
	if s.contextualLogger != nil {
		s.contextualLogger.DebugContext(ctx, msg, args...)
		return
	}

	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s Store) logInfo(ctx context.Context, msg string, args ...any) {
	if s.contextualLogger != nil {
		s.contextualLogger.InfoContext(ctx, msg, args...)
		return
	}

	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s Store) logWarn(ctx context.Context, msg string, args ...any) {
	if s.contextualLogger != nil {
		s.contextualLogger.WarnContext(ctx, msg, args...)
		return
	}

	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

func (s Store) logError(ctx context.Context, msg string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if s.contextualLogger != nil {
		s.contextualLogger.ErrorContext(ctx, msg, allArgs...)
		return
	}

	if s.logger != nil {
		s.logger.Error(msg, allArgs...)
	}
}

func (s Store) recordDurationMetrics(ctx context.Context, operation, status string, duration time.Duration) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		labelStatus:       status,
	}

	if contextual, ok := s.metricsCollector.(library.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metricOperationDuration, duration, labels)
		return
	}

	s.metricsCollector.RecordDuration(metricOperationDuration, duration, labels)
}

func (s Store) recordErrorMetrics(ctx context.Context, operation, errorType string) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		labelStatus:       statusError,
		spanAttrErrorType: errorType,
	}

	if contextual, ok := s.metricsCollector.(library.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, metricDatabaseErrors, labels)
		return
	}

	s.metricsCollector.IncrementCounter(metricDatabaseErrors, labels)
}

func (s Store) recordPoolStats(ctx context.Context) {
	if s.metricsCollector == nil {
		return
	}

	stats := s.db.Stats()
	values := map[string]int64{
		"acquired": stats.AcquiredConns,
		"idle":     stats.IdleConns,
		"total":    stats.TotalConns,
		"max":      stats.MaxConns,
	}

	for state, value := range values {
		labels := map[string]string{labelState: state}

		if contextual, ok := s.metricsCollector.(library.ContextualMetricsCollector); ok {
			contextual.RecordValueContext(ctx, metricPoolConnections, float64(value), labels)
			continue
		}

		s.metricsCollector.RecordValue(metricPoolConnections, float64(value), labels)
	}
}

func (s Store) startTraceSpan(ctx context.Context, operation string) (context.Context, SpanContext) {
	if s.tracingCollector == nil {
		return ctx, nil
	}

	return s.tracingCollector.StartSpan(ctx, spanNamePrefix+operation, map[string]string{
		spanAttrOperation: operation,
		spanAttrDBSystem:  s.dialectName,
	})
}

func (s Store) finishTraceSpan(span SpanContext, status string, duration time.Duration, errorType string) {
	if s.tracingCollector == nil || span == nil {
		return
	}

	attrs := map[string]string{
		spanAttrDurationMS: strconv.FormatFloat(toMilliseconds(duration), 'f', 3, 64),
	}

	if errorType != "" {
		attrs[spanAttrErrorType] = errorType
	}

	s.tracingCollector.FinishSpan(span, status, attrs)
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
