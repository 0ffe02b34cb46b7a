package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/kikibeach/kiki-pos/internal/domain/event"
	"github.com/kikibeach/kiki-pos/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// Publisher publishes order events to the fanout exchange
type Publisher struct {
	conn *Connection
	log  *logger.Logger
}

// NewPublisher creates a new order event publisher
func NewPublisher(conn *Connection, log *logger.Logger) *Publisher {
	return &Publisher{conn: conn, log: log}
}

// PublishOrderCreated sends a persistent order.created message
func (p *Publisher) PublishOrderCreated(ctx context.Context, evt event.OrderCreated) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	ch, err := p.conn.Channel(ctx)
	if err != nil {
		return fmt.Errorf("failed to reconnect: %w", err)
	}

	err = ch.PublishWithContext(ctx,
		p.conn.Exchange(),            // exchange
		event.OrderCreatedRoutingKey, // routing key (ignored by fanout)
		false,                        // mandatory
		false,                        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Type:         event.OrderCreatedRoutingKey,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	p.log.Debug("message_published", "", "order event published",
		slog.String("exchange", p.conn.Exchange()),
		slog.Uint64("order_id", uint64(evt.OrderID)),
		slog.Int("message_size", len(body)))
	return nil
}
