package events

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type Event interface {
	EventType() string
	EventID() string
	OccurredAt() time.Time
}

type BaseEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) EventID() string {
	return e.ID
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

type Handler func(ctx context.Context, event Event) error

// EventBus dispatches events in-process, on the publisher's goroutine.
// A failing handler is logged and does not stop the remaining handlers.
type EventBus struct {
	handlers map[string][]Handler
	logger   *slog.Logger
	mu       sync.RWMutex
}

func NewEventBus(logger *slog.Logger) *EventBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventBus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

func (b *EventBus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.logger.Info("event handler registered",
		"event_type", eventType,
		"total_handlers", len(b.handlers[eventType]))
}

// Publish runs every handler subscribed to the event's type and returns the
// number of handlers that failed.
func (b *EventBus) Publish(ctx context.Context, event Event) int {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.EventType()]...)
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.logger.DebugContext(ctx, "no handlers for event type", "event_type", event.EventType())
		return 0
	}

	failed := 0
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			failed++
			b.logger.ErrorContext(ctx, "event handler failed",
				"event_type", event.EventType(),
				"event_id", event.EventID(),
				"error", err)
		}
	}

	return failed
}
