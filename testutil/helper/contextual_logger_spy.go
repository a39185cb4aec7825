package helper

import (
	"context"
	"fmt"
	"sync"
)

// SpyLogRecord is one captured log call.
type SpyLogRecord struct {
	Level   string
	Message string
	Args    []any
	Context context.Context
}

// Attr returns the value logged for key, if any.
func (r SpyLogRecord) Attr(key string) (any, bool) {
	for i := 0; i+1 < len(r.Args); i += 2 {
		if k, ok := r.Args[i].(string); ok && k == key {
			return r.Args[i+1], true
		}
	}

	return nil, false
}

// ContextualLoggerSpy captures log calls for assertions in tests.
// It implements both library.Logger and library.ContextualLogger.
type ContextualLoggerSpy struct {
	records     []SpyLogRecord
	mu          sync.Mutex
	recordCalls bool
}

// NewContextualLoggerSpy creates a spy. With recordCalls set to false every call is dropped.
func NewContextualLoggerSpy(recordCalls bool) *ContextualLoggerSpy {
	return &ContextualLoggerSpy{recordCalls: recordCalls}
}

func (s *ContextualLoggerSpy) DebugContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "debug", msg, args)
}

func (s *ContextualLoggerSpy) InfoContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "info", msg, args)
}

func (s *ContextualLoggerSpy) WarnContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "warn", msg, args)
}

func (s *ContextualLoggerSpy) ErrorContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "error", msg, args)
}

func (s *ContextualLoggerSpy) Debug(msg string, args ...any) {
	s.record(context.Background(), "debug", msg, args)
}

func (s *ContextualLoggerSpy) Info(msg string, args ...any) {
	s.record(context.Background(), "info", msg, args)
}

func (s *ContextualLoggerSpy) Warn(msg string, args ...any) {
	s.record(context.Background(), "warn", msg, args)
}

func (s *ContextualLoggerSpy) Error(msg string, args ...any) {
	s.record(context.Background(), "error", msg, args)
}

func (s *ContextualLoggerSpy) record(ctx context.Context, level, msg string, args []any) {
	if !s.recordCalls {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, SpyLogRecord{
		Level:   level,
		Message: msg,
		Args:    append([]any(nil), args...),
		Context: ctx,
	})
}

// Records returns a copy of all captured records.
func (s *ContextualLoggerSpy) Records() []SpyLogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]SpyLogRecord, len(s.records))
	copy(out, s.records)

	return out
}

// RecordsAt returns the captured records of one level.
func (s *ContextualLoggerSpy) RecordsAt(level string) []SpyLogRecord {
	var out []SpyLogRecord
	for _, r := range s.Records() {
		if r.Level == level {
			out = append(out, r)
		}
	}

	return out
}

func (s *ContextualLoggerSpy) HasDebugLog(msg string) bool { return s.has("debug", msg) }

func (s *ContextualLoggerSpy) HasInfoLog(msg string) bool { return s.has("info", msg) }

func (s *ContextualLoggerSpy) HasWarnLog(msg string) bool { return s.has("warn", msg) }

func (s *ContextualLoggerSpy) HasErrorLog(msg string) bool { return s.has("error", msg) }

func (s *ContextualLoggerSpy) has(level, msg string) bool {
	for _, r := range s.RecordsAt(level) {
		if r.Message == msg {
			return true
		}
	}

	return false
}

// HasLogWithAttr reports whether a record of level and msg carries key with a value that prints as want.
func (s *ContextualLoggerSpy) HasLogWithAttr(level, msg, key, want string) bool {
	for _, r := range s.RecordsAt(level) {
		if r.Message != msg {
			continue
		}

		if v, ok := r.Attr(key); ok && fmt.Sprint(v) == want {
			return true
		}
	}

	return false
}
