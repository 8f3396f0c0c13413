package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity is the identity and timestamps every stored row carries
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewBaseEntity() BaseEntity {
	now := time.Now().UTC()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now().UTC()
}

// EventSource is an entity that raises events. They wait in the entity
// until the service that saved it takes and publishes them.
type EventSource struct {
	BaseEntity
	pending []DomainEvent
}

func NewEventSource() EventSource {
	return EventSource{BaseEntity: NewBaseEntity()}
}

func (s *EventSource) Record(event DomainEvent) {
	s.pending = append(s.pending, event)
}

// PendingEvents peeks at the queue
func (s *EventSource) PendingEvents() []DomainEvent {
	return s.pending
}

// TakeEvents empties the queue, so an event is published at most once
func (s *EventSource) TakeEvents() []DomainEvent {
	taken := s.pending
	s.pending = nil
	return taken
}
