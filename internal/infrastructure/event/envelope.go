package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/styleco/storefront/internal/domain/shared"
)

// Envelope is the wire shape of an event pushed to clients
type Envelope struct {
	ID          uuid.UUID       `json:"id"`
	Type        string          `json:"type"`
	AggregateID uuid.UUID       `json:"aggregate_id"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Payload     json.RawMessage `json:"payload"`
}

// Encode wraps ev in an Envelope and marshals it
func Encode(ev shared.DomainEvent) ([]byte, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", ev.EventType(), err)
	}
	return json.Marshal(Envelope{
		ID:          ev.EventID(),
		Type:        ev.EventType(),
		AggregateID: ev.AggregateID(),
		OccurredAt:  ev.OccurredAt(),
		Payload:     payload,
	})
}
