package helper

import (
	"context"
	"maps"
	"sync"

	"github.com/AntonStoeckl/library-circulation-api/library"
)

// SpySpanContext is the span handle handed out by TracingCollectorSpy.
type SpySpanContext struct {
	status     string
	attributes map[string]string
	mu         sync.Mutex
}

func (c *SpySpanContext) SetStatus(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status = status
}

func (c *SpySpanContext) AddAttribute(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.attributes == nil {
		c.attributes = make(map[string]string)
	}
	c.attributes[key] = value
}

// SpySpanRecord is one captured span.
type SpySpanRecord struct {
	Name            string
	StartAttributes map[string]string
	Status          string
	EndAttributes   map[string]string
	Finished        bool
}

// TracingCollectorSpy captures spans for assertions in tests.
type TracingCollectorSpy struct {
	spans       []*SpySpanRecord
	handles     map[*SpySpanContext]*SpySpanRecord
	mu          sync.Mutex
	recordCalls bool
}

// NewTracingCollectorSpy creates a spy. With recordCalls set to false StartSpan returns a nil span.
func NewTracingCollectorSpy(recordCalls bool) *TracingCollectorSpy {
	return &TracingCollectorSpy{
		handles:     make(map[*SpySpanContext]*SpySpanRecord),
		recordCalls: recordCalls,
	}
}

func (s *TracingCollectorSpy) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, library.SpanContext) {
	if !s.recordCalls {
		return ctx, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	handle := &SpySpanContext{}
	record := &SpySpanRecord{Name: name, StartAttributes: maps.Clone(attrs)}
	s.spans = append(s.spans, record)
	s.handles[handle] = record

	return ctx, handle
}

func (s *TracingCollectorSpy) FinishSpan(spanCtx library.SpanContext, status string, attrs map[string]string) {
	if !s.recordCalls || spanCtx == nil {
		return
	}

	handle, ok := spanCtx.(*SpySpanContext)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.handles[handle]
	if !ok {
		return
	}

	handle.mu.Lock()
	end := maps.Clone(handle.attributes)
	handle.mu.Unlock()

	if end == nil {
		end = make(map[string]string)
	}
	maps.Copy(end, attrs)

	record.Status = status
	record.EndAttributes = end
	record.Finished = true
}

// Spans returns copies of all captured spans in start order.
func (s *TracingCollectorSpy) Spans() []SpySpanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]SpySpanRecord, 0, len(s.spans))
	for _, r := range s.spans {
		out = append(out, *r)
	}

	return out
}

// SpanRecordMatcher narrows the captured spans of one name in a fluent chain.
type SpanRecordMatcher struct {
	candidates []SpySpanRecord
}

// HasSpan starts a fluent chain over the finished spans called name.
func (s *TracingCollectorSpy) HasSpan(name string) *SpanRecordMatcher {
	m := &SpanRecordMatcher{}
	for _, r := range s.Spans() {
		if r.Name == name && r.Finished {
			m.candidates = append(m.candidates, r)
		}
	}

	return m
}

// WithStatus keeps the spans finished with status.
func (m *SpanRecordMatcher) WithStatus(status string) *SpanRecordMatcher {
	kept := m.candidates[:0:0]
	for _, r := range m.candidates {
		if r.Status == status {
			kept = append(kept, r)
		}
	}

	return &SpanRecordMatcher{candidates: kept}
}

// WithAttribute keeps the spans carrying key=value at start or at finish.
func (m *SpanRecordMatcher) WithAttribute(key, value string) *SpanRecordMatcher {
	kept := m.candidates[:0:0]
	for _, r := range m.candidates {
		if r.StartAttributes[key] == value || r.EndAttributes[key] == value {
			kept = append(kept, r)
		}
	}

	return &SpanRecordMatcher{candidates: kept}
}

// Assert reports whether at least one span survived the chain.
func (m *SpanRecordMatcher) Assert() bool {
	return len(m.candidates) > 0
}
