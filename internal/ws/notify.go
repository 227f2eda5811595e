package ws

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"skill-swap/internal/domain/swap"
)

var errHubBusy = errors.New("websocket hub busy")

type SwapUpdatedMessage struct {
	Type           string `json:"type"`
	RequestID      string `json:"request_id"`
	Status         string `json:"status"`
	PreviousStatus string `json:"previous_status,omitempty"`
	ActorID        string `json:"actor_id"`
	Timestamp      string `json:"timestamp"`
}

// Notifier pushes swap events to both participants' open connections.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) Name() string { return "websocket" }

func (n *Notifier) Deliver(_ context.Context, evt swap.Event) error {
	if n == nil || n.hub == nil {
		return nil
	}
	msg := SwapUpdatedMessage{
		Type:           string(evt.Type),
		RequestID:      evt.RequestID.String(),
		Status:         string(evt.Status),
		PreviousStatus: string(evt.PreviousStatus),
		ActorID:        evt.ActorID.String(),
		Timestamp:      evt.OccurredAt.UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if !n.hub.SendToUsers(evt.Participants(), b) {
		return errHubBusy
	}
	return nil
}
