package shared

import "context"

// EventHandler reacts to published events. EventTypes lists the types it
// wants; an empty list subscribes it to everything.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}

// EventPublisher is what services use to announce order changes
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

type EventSubscriber interface {
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// EventBus is a publisher with a lifecycle that handlers subscribe to
type EventBus interface {
	EventPublisher
	EventSubscriber
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// HandlerFunc turns a plain function into an EventHandler for eventTypes
func HandlerFunc(fn func(ctx context.Context, event DomainEvent) error, eventTypes ...string) EventHandler {
	return &funcHandler{fn: fn, types: eventTypes}
}

type funcHandler struct {
	fn    func(ctx context.Context, event DomainEvent) error
	types []string
}

func (h *funcHandler) Handle(ctx context.Context, event DomainEvent) error {
	return h.fn(ctx, event)
}

func (h *funcHandler) EventTypes() []string {
	return h.types
}
