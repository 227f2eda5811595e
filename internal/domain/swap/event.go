package swap

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventCreated       EventType = "swap.created"
	EventStatusChanged EventType = "swap.status_changed"
	EventDeleted       EventType = "swap.deleted"
	EventFeedback      EventType = "swap.feedback"
)

type Event struct {
	Type           EventType `json:"type"`
	RequestID      uuid.UUID `json:"request_id"`
	RequesterID    uuid.UUID `json:"requester_id"`
	ProviderID     uuid.UUID `json:"provider_id"`
	Status         Status    `json:"status"`
	PreviousStatus Status    `json:"previous_status,omitempty"`
	ActorID        uuid.UUID `json:"actor_id"`
	OccurredAt     time.Time `json:"occurred_at"`
}

func (e Event) Participants() []uuid.UUID {
	return []uuid.UUID{e.RequesterID, e.ProviderID}
}

// Publisher receives events after a mutation has committed. Publishing is
// best effort and must not block the caller.
type Publisher interface {
	Publish(ctx context.Context, evt Event)
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) {}
