package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/styleco/storefront/internal/domain/shared"
)

// EventRecorder is an event bus subscriber that keeps what it receives.
// Subscribed with no types it receives everything.
type EventRecorder struct {
	types []string

	mu     sync.Mutex
	events []shared.DomainEvent
	fail   error
}

func NewEventRecorder(eventTypes ...string) *EventRecorder {
	return &EventRecorder{types: eventTypes}
}

func (r *EventRecorder) EventTypes() []string { return r.types }

func (r *EventRecorder) Handle(_ context.Context, event shared.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.fail
}

// FailWith makes later Handle calls return err after recording the event
func (r *EventRecorder) FailWith(err error) {
	r.mu.Lock()
	r.fail = err
	r.mu.Unlock()
}

// Events returns a snapshot in arrival order
func (r *EventRecorder) Events() []shared.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]shared.DomainEvent(nil), r.events...)
}

func (r *EventRecorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Await fails t unless n events arrive within timeout, then returns them
func (r *EventRecorder) Await(t *testing.T, n int, timeout time.Duration) []shared.DomainEvent {
	t.Helper()
	require.Eventually(t, func() bool { return r.Len() >= n }, timeout, 10*time.Millisecond,
		"expected %d events of %v", n, r.types)
	return r.Events()
}

// EventOf returns the first recorded event of type T, as published
func EventOf[T shared.DomainEvent](t *testing.T, r *EventRecorder) T {
	t.Helper()
	for _, e := range r.Events() {
		if typed, ok := e.(T); ok {
			return typed
		}
	}
	var zero T
	require.Failf(t, "event not recorded", "no %T among %d events", zero, r.Len())
	return zero
}
