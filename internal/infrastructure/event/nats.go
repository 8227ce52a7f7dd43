package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/landmarket/backend/internal/domain/shared"
	"github.com/landmarket/backend/internal/infrastructure/config"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const (
	connectWait   = 5 * time.Second
	maxReconnects = 5
	reconnectWait = 2 * time.Second
)

// Connect dials NATS with reconnect handling logged through logger
func Connect(cfg config.NATSConfig, logger *zap.Logger) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("landmarket event publisher"),
		nats.Timeout(connectWait),
		nats.MaxReconnects(maxReconnects),
		nats.ReconnectWait(reconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", cfg.URL, err)
	}
	return nc, nil
}

// natsPublisher is the part of *nats.Conn the forwarder needs
type natsPublisher interface {
	Publish(subject string, data []byte) error
}

// NATSForwarder is a catch-all bus handler that publishes every event as
// JSON on <prefix>.<event type>
type NATSForwarder struct {
	conn   natsPublisher
	prefix string
}

// NewNATSForwarder creates a forwarder publishing under prefix
func NewNATSForwarder(conn *nats.Conn, prefix string) *NATSForwarder {
	return &NATSForwarder{conn: conn, prefix: prefix}
}

// Subject returns the NATS subject for an event type
func (f *NATSForwarder) Subject(eventType string) string {
	if f.prefix == "" {
		return eventType
	}
	return f.prefix + "." + eventType
}

// Handle publishes event
func (f *NATSForwarder) Handle(_ context.Context, event shared.DomainEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.EventType(), err)
	}
	if err := f.conn.Publish(f.Subject(event.EventType()), data); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.EventType(), err)
	}
	return nil
}

// EventTypes returns nil so the forwarder receives every event
func (f *NATSForwarder) EventTypes() []string {
	return nil
}

var _ shared.EventHandler = (*NATSForwarder)(nil)
