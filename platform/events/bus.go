// Package events provides event bus infrastructure.
package events

import (
	"context"
	"sync"

	"sales_crm_backend/platform/logger"
)

// InMemoryBus is a simple in-process event bus. Publish dispatches handlers
// on separate goroutines; PublishSync runs them inline and aggregates
// nothing beyond the first error.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      *logger.Logger
}

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return &InMemoryBus{
		handlers: make(map[string][]Handler),
		log:      log,
	}
}

// Subscribe registers a handler for the named event.
func (b *InMemoryBus) Subscribe(eventName string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

// Publish dispatches the event to all registered handlers asynchronously.
// Handler errors are logged, never propagated to the publisher.
//
// Handlers outlive the publishing request, so they run on a context
// detached from the publisher's cancellation. Context values (request id,
// user id) carry over for attribution.
func (b *InMemoryBus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.EventName()]...)
	b.mu.RUnlock()

	detached := context.WithoutCancel(ctx)
	for _, h := range handlers {
		go func(h Handler) {
			if err := h.Handle(detached, event); err != nil && b.log != nil {
				b.log.Error("event handler failed", "event", event.EventName(), "error", err)
			}
		}(h)
	}
}

// PublishSync dispatches the event inline and returns the first handler error.
func (b *InMemoryBus) PublishSync(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.EventName()]...)
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h.Handle(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
