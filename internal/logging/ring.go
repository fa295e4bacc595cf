package logging

import (
	"context"
	"log/slog"
	"sync"
)

// Entry is one captured log record.
type Entry struct {
	Time    string            `json:"time"`
	Level   string            `json:"level"`
	Message string            `json:"message"`
	Attrs   map[string]string `json:"attrs,omitempty"`
}

// ringBuffer holds the most recent entries up to a fixed capacity,
// dropping the oldest entry on overflow.
type ringBuffer struct {
	mu       sync.Mutex
	entries  []Entry
	capacity int
}

func (b *ringBuffer) add(e Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.entries) >= b.capacity {
		copy(b.entries, b.entries[1:])
		b.entries = b.entries[:len(b.entries)-1]
	}
	b.entries = append(b.entries, e)
}

func (b *ringBuffer) snapshot() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// RingHandler is a slog.Handler that records every handled record into a
// bounded ring buffer before delegating to the wrapped handler.
type RingHandler struct {
	next slog.Handler
	buf  *ringBuffer
}

// NewRingHandler wraps next with a ring buffer of the given capacity.
func NewRingHandler(next slog.Handler, capacity int) *RingHandler {
	if capacity <= 0 {
		capacity = 1000
	}
	return &RingHandler{
		next: next,
		buf:  &ringBuffer{entries: make([]Entry, 0, capacity), capacity: capacity},
	}
}

func (h *RingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *RingHandler) Handle(ctx context.Context, record slog.Record) error {
	entry := Entry{
		Time:    record.Time.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Level:   record.Level.String(),
		Message: record.Message,
	}
	record.Attrs(func(a slog.Attr) bool {
		if entry.Attrs == nil {
			entry.Attrs = make(map[string]string)
		}
		entry.Attrs[a.Key] = a.Value.String()
		return true
	})
	h.buf.add(entry)
	return h.next.Handle(ctx, record)
}

func (h *RingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	// Child handlers share the same buffer so the admin view stays complete.
	return &RingHandler{next: h.next.WithAttrs(attrs), buf: h.buf}
}

func (h *RingHandler) WithGroup(name string) slog.Handler {
	return &RingHandler{next: h.next.WithGroup(name), buf: h.buf}
}

// Entries returns a copy of the captured entries, oldest first.
func (h *RingHandler) Entries() []Entry {
	return h.buf.snapshot()
}
