package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "emotion.analyzed"

type natsConn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

// NATSPublisher exports analysis events as JSON messages on a NATS subject.
type NATSPublisher struct {
	conn    natsConn
	subject string
}

// DialNATS connects to url and returns a publisher for subject.
func DialNATS(url, subject string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("z-mood"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}
	return newNATSPublisher(conn, subject), nil
}

func newNATSPublisher(conn natsConn, subject string) *NATSPublisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &NATSPublisher{conn: conn, subject: subject}
}

// Subject returns the subject events are published on.
func (p *NATSPublisher) Subject() string {
	return p.subject
}

// Publish implements Publisher.
func (p *NATSPublisher) Publish(_ context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", p.subject, err)
	}
	return nil
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
