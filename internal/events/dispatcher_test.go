package events

import (
	"context"
	"errors"
	"sync"
	"testing"

	"skill-swap/internal/domain/swap"
	"skill-swap/internal/pkg/workerpool"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	name string
	err  error

	mu  sync.Mutex
	got []swap.Event
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Deliver(_ context.Context, evt swap.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, evt)
	return s.err
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.got)
}

func TestDispatcher_FansOutToEverySink(t *testing.T) {
	ws := &recordingSink{name: "ws"}
	bus := &recordingSink{name: "nats", err: errors.New("down")}
	d := NewDispatcher(workerpool.New(2, 16), nil, nil, ws, nil, bus)
	d.Start(context.Background())

	for i := 0; i < 3; i++ {
		d.Publish(context.Background(), swap.Event{Type: swap.EventCreated, RequestID: uuid.New()})
	}
	d.Close()

	require.Equal(t, 3, ws.count())
	require.Equal(t, 3, bus.count())
}

func TestDispatcher_DropsWhenQueueFull(t *testing.T) {
	sink := &recordingSink{name: "ws"}
	d := NewDispatcher(workerpool.New(1, 1), nil, nil, sink)

	// Workers not started: the single slot fills and the rest are dropped.
	d.Publish(context.Background(), swap.Event{Type: swap.EventCreated})
	d.Publish(context.Background(), swap.Event{Type: swap.EventDeleted})

	d.Start(context.Background())
	d.Close()
	require.Equal(t, 1, sink.count())
}
