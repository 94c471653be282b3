package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// NATSForwarder republishes dispatcher events on NATS subjects
// "<prefix>.<event type>". Delivery is best effort.
type NATSForwarder struct {
	conn   *nats.Conn
	prefix string
	logger *zap.Logger
}

// NewNATSForwarder connects to url.
func NewNATSForwarder(url, prefix string, logger *zap.Logger) (*NATSForwarder, error) {
	conn, err := nats.Connect(url, nats.Name("foundit-lostfound"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSForwarder{conn: conn, prefix: strings.Trim(prefix, "."), logger: logger}, nil
}

// Subject returns the NATS subject for an event type.
func (f *NATSForwarder) Subject(eventType EventType) string {
	if f.prefix == "" {
		return string(eventType)
	}
	return f.prefix + "." + string(eventType)
}

// Attach subscribes the forwarder to the given event types.
func (f *NATSForwarder) Attach(dispatcher Dispatcher, types ...EventType) {
	for _, eventType := range types {
		dispatcher.Subscribe(eventType, f.forward)
	}
}

func (f *NATSForwarder) forward(_ context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := f.conn.Publish(f.Subject(event.Type), payload); err != nil {
		f.logger.Warn("nats publish failed", zap.String("event_type", string(event.Type)), zap.Error(err))
		return err
	}
	return nil
}

// Close drains pending publishes and closes the connection.
func (f *NATSForwarder) Close() {
	if f == nil || f.conn == nil {
		return
	}
	if err := f.conn.Drain(); err != nil {
		f.conn.Close()
	}
}
