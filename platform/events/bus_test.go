package events

import (
	"context"
	"testing"
	"time"

	"sales_crm_backend/platform/logger"
)

type testEvent struct {
	BaseEvent
}

func (e testEvent) EventName() string { return "test.event" }

type ctxKey string

func TestPublishDetachesHandlerFromPublisherCancellation(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))

	started := make(chan struct{})
	observed := make(chan error, 1)
	values := make(chan any, 1)

	bus.Subscribe(testEvent{}.EventName(), HandlerFunc(
		func(ctx context.Context, _ Event) error {
			close(started)
			// Give the publisher time to cancel before we look.
			time.Sleep(20 * time.Millisecond)
			observed <- ctx.Err()
			values <- ctx.Value(ctxKey("request_id"))
			return nil
		}))

	reqCtx, cancel := context.WithCancel(
		context.WithValue(context.Background(), ctxKey("request_id"), "req-1"))

	bus.Publish(reqCtx, testEvent{BaseEvent: NewBaseEvent()})

	<-started
	cancel()

	select {
	case err := <-observed:
		if err != nil {
			t.Fatalf("handler context = %v, want uncanceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("handler never ran")
	}

	if got := <-values; got != "req-1" {
		t.Errorf("handler context value = %v, want request id carried over", got)
	}
}

func TestPublishSyncReturnsFirstHandlerError(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))

	calls := 0
	bus.Subscribe(testEvent{}.EventName(), HandlerFunc(
		func(_ context.Context, _ Event) error {
			calls++
			return context.DeadlineExceeded
		}))
	bus.Subscribe(testEvent{}.EventName(), HandlerFunc(
		func(_ context.Context, _ Event) error {
			calls++
			return nil
		}))

	if err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent()}); err == nil {
		t.Fatal("PublishSync returned nil, want first handler's error")
	}
	if calls != 1 {
		t.Errorf("handlers called = %d, want dispatch to stop at the failing handler", calls)
	}
}
