package shell_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-circulation-api/app/shared/shell"
	"github.com/AntonStoeckl/library-circulation-api/library"
	. "github.com/AntonStoeckl/library-circulation-api/testutil/helper" //nolint:revive
)

func Test_StatusOf(t *testing.T) {
	testCases := []struct {
		err  error
		want string
	}{
		{err: nil, want: shell.StatusSuccess},
		{err: fmt.Errorf("query: %w", context.Canceled), want: shell.StatusCanceled},
		{err: context.DeadlineExceeded, want: shell.StatusTimeout},
		{err: errors.New("boom"), want: shell.StatusError},
	}

	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, shell.StatusOf(tc.err))
		})
	}
}

func Test_RecordCommandMetrics_CountsTimeouts(t *testing.T) {
	// arrange
	metrics := NewMetricsCollectorSpy(true)

	// act
	shell.RecordCommandMetrics(context.Background(), metrics, "BorrowBooks", shell.StatusTimeout, time.Millisecond)

	// assert
	assert.True(t, metrics.HasDurationRecordForMetric(shell.CommandHandlerDurationMetric).
		WithLabel(shell.LogAttrCommandType, "BorrowBooks").
		WithStatus(shell.StatusTimeout).
		Assert())
	assert.True(t, metrics.HasCounterRecordForMetric(shell.CommandHandlerTimeoutMetric).Assert())
	assert.Equal(t, 0, metrics.CountCounterRecordsForMetric(shell.CommandHandlerCanceledMetric))
}

func Test_RecordUnmatchedReturns(t *testing.T) {
	// arrange
	metrics := NewMetricsCollectorSpy(true)

	// act
	shell.RecordUnmatchedReturns(context.Background(), metrics, "ReturnBooks", 2)
	shell.RecordUnmatchedReturns(context.Background(), metrics, "ReturnBooks", 0)

	// assert
	assert.Equal(t, 2, metrics.CountCounterRecordsForMetric(shell.CommandHandlerUnmatchedReturnsMetric))
}

func Test_FinishSpan_AddsErrorKind(t *testing.T) {
	// arrange
	tracing := NewTracingCollectorSpy(true)
	_, span := shell.StartQuerySpan(context.Background(), tracing, "BooksByField")

	// act
	shell.FinishSpan(tracing, span, shell.StatusError, time.Millisecond, library.ErrBookNotFound)

	// assert
	assert.True(t, tracing.HasSpan(shell.SpanNameQueryHandle).
		WithStatus(shell.StatusError).
		WithAttribute(shell.LogAttrErrorKind, string(library.KindNotFound)).
		Assert())
}

func Test_LogCommandError_ValidationIsWarn(t *testing.T) {
	// arrange
	logger := NewContextualLoggerSpy(true)
	validationErr := fmt.Errorf("%w: title", library.ErrMissingRequiredFields)

	// act
	shell.LogCommandError(context.Background(), nil, logger, "AddBook", validationErr)
	shell.LogCommandError(context.Background(), nil, logger, "AddBook", library.ErrDatabaseQuery)

	// assert
	assert.True(t, logger.HasWarnLog(shell.LogMsgCommandFailed))
	assert.True(t, logger.HasLogWithAttr("error", shell.LogMsgCommandFailed, shell.LogAttrErrorKind, string(library.KindDatabase)))
}

func Test_LogQueryStart_FallsBackToPlainLogger(t *testing.T) {
	logger := NewContextualLoggerSpy(true)

	shell.LogQueryStart(context.Background(), logger, nil, "RegisteredUsers")

	assert.True(t, logger.HasLogWithAttr("info", shell.LogMsgQueryStarted, shell.LogAttrQueryType, "RegisteredUsers"))
}

func Test_HandlerResult_BusinessOutcome(t *testing.T) {
	assert.Equal(t, shell.StatusSuccess, shell.NewCirculationResult(2, 0).BusinessOutcome())
	assert.Equal(t, shell.OutcomeUnmatchedReturn, shell.NewCirculationResult(2, 1).BusinessOutcome())
	assert.Equal(t, int64(5), shell.NewCreatedResult(5).CreatedID)
}
