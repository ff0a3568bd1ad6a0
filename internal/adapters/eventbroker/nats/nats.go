package nats

import (
	"accountant-assistant/internal/config"
	"accountant-assistant/internal/core/domain"
	"accountant-assistant/internal/core/port"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Publisher is a struct to publish upload notifications on nats jetstream
type Publisher struct {
	logger *slog.Logger
	conn   *nats.Conn
	js     jetstream.JetStream
	config config.NATSConfig
}

var _ port.EventPublisher = (*Publisher)(nil)

// NewNATSPublisher connects to nats and ensures the notification stream exists
func NewNATSPublisher(ctx context.Context, cfg config.NATSConfig, logger *slog.Logger) (*Publisher, error) {

	opts := []nats.Option{
		nats.Name("accountant-assistant-uploads"),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	}
	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to JetStream: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     cfg.StreamName,
		Subjects: []string{cfg.SubjectPrefix + ".>"},
		MaxAge:   24 * time.Hour,
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create stream %s: %w", cfg.StreamName, err)
	}

	return &Publisher{
		conn:   conn,
		js:     js,
		config: cfg,
		logger: logger,
	}, nil
}

// Subject returns the subject a notification is published on
func (p *Publisher) Subject(n domain.Notification) string {
	return Subject(p.config.SubjectPrefix, n)
}

// Subject builds <prefix>.<surface>.<level>
func Subject(prefix string, n domain.Notification) string {
	return fmt.Sprintf("%s.%s.%s", prefix, n.Surface, n.Level)
}

// Notify publishes the notification as json and waits for the stream ack
func (p *Publisher) Notify(ctx context.Context, n domain.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("could not marshal notification: %w", err)
	}

	ack, err := p.js.Publish(ctx, p.Subject(n), data, jetstream.WithMsgID(n.TaskID.String()))
	if err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	p.logger.Debug("notification published", "stream", ack.Stream, "seq", ack.Sequence, "task_id", n.TaskID)
	return nil
}

// Close graceful shutdown
func (p *Publisher) Close() error {
	if p.conn == nil {
		return nil
	}
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return fmt.Errorf("failed to drain NATS connection: %w", err)
	}
	return nil
}
