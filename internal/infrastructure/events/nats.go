package events

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"skill-swap/internal/domain/swap"

	"github.com/nats-io/nats.go"
)

// Conn is the publishing side of *nats.Conn.
type Conn interface {
	Publish(subject string, data []byte) error
}

func Connect(url, name string, logger *log.Logger) (*nats.Conn, error) {
	if logger == nil {
		logger = log.Default()
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errors.New("nats url is empty")
	}
	return nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Printf("NATS disconnected | err=%v", err)
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Printf("NATS reconnected | url=%s", c.ConnectedUrl())
		}),
	)
}

// NATSPublisher forwards swap events as JSON to "<prefix>.<event>", e.g.
// skillsync.swaps.status_changed.
type NATSPublisher struct {
	conn   Conn
	prefix string
}

func NewNATSPublisher(conn Conn, prefix string) *NATSPublisher {
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), ".")
	if prefix == "" {
		prefix = "skillsync.swaps"
	}
	return &NATSPublisher{conn: conn, prefix: prefix}
}

func (p *NATSPublisher) Name() string { return "nats" }

func (p *NATSPublisher) Subject(t swap.EventType) string {
	return p.prefix + "." + strings.TrimPrefix(string(t), "swap.")
}

func (p *NATSPublisher) Deliver(ctx context.Context, evt swap.Event) error {
	if p == nil || p.conn == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.conn.Publish(p.Subject(evt.Type), b)
}
