// Package events fans committed swap events out to realtime sinks on a
// bounded worker pool so request latency never depends on them.
package events

import (
	"context"
	"errors"
	"log"
	"time"

	"skill-swap/internal/domain/swap"
	"skill-swap/internal/metrics"
	"skill-swap/internal/pkg/workerpool"
)

type Sink interface {
	Name() string
	Deliver(ctx context.Context, evt swap.Event) error
}

type Dispatcher struct {
	pool    *workerpool.Pool
	sinks   []Sink
	metrics metrics.Recorder
	logger  *log.Logger
	timeout time.Duration
	done    <-chan struct{}
}

func NewDispatcher(pool *workerpool.Pool, rec metrics.Recorder, logger *log.Logger, sinks ...Sink) *Dispatcher {
	if rec == nil {
		rec = metrics.Nop{}
	}
	if logger == nil {
		logger = log.Default()
	}
	active := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			active = append(active, s)
		}
	}
	return &Dispatcher{pool: pool, sinks: active, metrics: rec, logger: logger, timeout: 5 * time.Second}
}

// Start runs the pool workers until ctx ends or Close drains the queue.
func (d *Dispatcher) Start(ctx context.Context) {
	results := d.pool.Run(ctx)
	done := make(chan struct{})
	d.done = done
	go func() {
		defer close(done)
		for range results {
		}
	}()
}

// Close stops accepting events and waits for queued deliveries.
func (d *Dispatcher) Close() {
	d.pool.Close()
	if d.done != nil {
		<-d.done
	}
}

// Publish never blocks. When the queue is full the delivery is dropped.
func (d *Dispatcher) Publish(_ context.Context, evt swap.Event) {
	d.metrics.RecordSwapEvent(string(evt.Type))
	for _, sink := range d.sinks {
		err := d.pool.TrySubmit(func(ctx context.Context) error {
			dctx, cancel := context.WithTimeout(ctx, d.timeout)
			defer cancel()
			err := sink.Deliver(dctx, evt)
			d.metrics.RecordDelivery(sink.Name(), err == nil)
			if err != nil {
				d.logger.Printf("Event delivery failed | sink=%s type=%s request_id=%s err=%v", sink.Name(), evt.Type, evt.RequestID, err)
			}
			return err
		})
		if err != nil {
			d.metrics.RecordDropped(string(evt.Type))
			if errors.Is(err, workerpool.ErrPoolFull) {
				d.logger.Printf("Event dropped | sink=%s type=%s reason=queue_full", sink.Name(), evt.Type)
			} else {
				d.logger.Printf("Event dropped | sink=%s type=%s err=%v", sink.Name(), evt.Type, err)
			}
		}
	}
}
