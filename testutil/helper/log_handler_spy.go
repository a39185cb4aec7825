package helper

import (
	"context"
	"log/slog"
	"os"
	"sync"
)

// LogHandlerSpy is a slog.Handler that captures records, for code that logs through *slog.Logger.
type LogHandlerSpy struct {
	records     *[]slog.Record
	mu          *sync.Mutex
	attrs       []slog.Attr
	logToStdout bool
}

// NewLogHandlerSpy creates a spy handler.
// Switchable to also write JSON to stdout, which helps when debugging a failing test.
func NewLogHandlerSpy(logToStdout bool) *LogHandlerSpy {
	return &LogHandlerSpy{
		records:     &[]slog.Record{},
		mu:          &sync.Mutex{},
		logToStdout: logToStdout,
	}
}

func (h *LogHandlerSpy) Handle(ctx context.Context, record slog.Record) error {
	record = record.Clone()
	record.AddAttrs(h.attrs...)

	h.mu.Lock()
	*h.records = append(*h.records, record)
	h.mu.Unlock()

	if h.logToStdout {
		_ = slog.NewJSONHandler(os.Stdout, nil).Handle(ctx, record)
	}

	return nil
}

func (h *LogHandlerSpy) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func (h *LogHandlerSpy) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)

	return &clone
}

func (h *LogHandlerSpy) WithGroup(_ string) slog.Handler {
	return h
}

// Records returns a copy of all captured records.
func (h *LogHandlerSpy) Records() []slog.Record {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]slog.Record, len(*h.records))
	copy(out, *h.records)

	return out
}

// HasLog reports whether a record with level and message was captured.
func (h *LogHandlerSpy) HasLog(level slog.Level, msg string) bool {
	for _, r := range h.Records() {
		if r.Level == level && r.Message == msg {
			return true
		}
	}

	return false
}

// AttrOf returns the value of key on the first record with msg.
func (h *LogHandlerSpy) AttrOf(msg, key string) (slog.Value, bool) {
	for _, r := range h.Records() {
		if r.Message != msg {
			continue
		}

		var (
			found slog.Value
			ok    bool
		)
		r.Attrs(func(a slog.Attr) bool {
			if a.Key == key {
				found, ok = a.Value, true
				return false
			}

			return true
		})

		if ok {
			return found, true
		}
	}

	return slog.Value{}, false
}
