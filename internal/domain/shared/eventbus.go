package shared

import "context"

// EventHandler consumes domain events delivered by the bus.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes names the event types the handler wants. An empty slice
	// subscribes it to everything.
	EventTypes() []string
}

// EventPublisher is the write side of the bus; aggregates hand their
// collected events here after a successful commit.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber is the read side of the bus.
type EventSubscriber interface {
	// Subscribe registers a handler for the given event types, or for all
	// events when none are listed.
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// EventBus combines both sides with lifecycle control.
type EventBus interface {
	EventPublisher
	EventSubscriber
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
