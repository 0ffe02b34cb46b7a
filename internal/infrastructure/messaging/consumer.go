package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kikibeach/kiki-pos/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
)

const handlerTimeout = 30 * time.Second

// ErrDiscard marks a delivery that can never succeed; it is dropped instead of requeued.
var ErrDiscard = errors.New("discard message")

// MessageHandler processes one delivery body
type MessageHandler func(ctx context.Context, body []byte) error

// Consumer reads the kitchen queue
type Consumer struct {
	conn     *Connection
	log      *logger.Logger
	tag      string
	prefetch int
}

// NewConsumer creates a new kitchen queue consumer
func NewConsumer(conn *Connection, log *logger.Logger, tag string, prefetch int) *Consumer {
	return &Consumer{conn: conn, log: log, tag: tag, prefetch: prefetch}
}

// Run consumes until ctx is cancelled, reconnecting when the channel closes
func (c *Consumer) Run(ctx context.Context, handler MessageHandler) error {
	for {
		err := c.consume(ctx, handler)
		if ctx.Err() != nil {
			c.log.Info("consumer_stopped", "", "consumer stopped", slog.String("queue", c.conn.Queue()))
			return nil
		}
		c.log.Error("consumer_channel_closed", "", "delivery channel closed, reconnecting", err)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(2 * time.Second):
		}
	}
}

func (c *Consumer) consume(ctx context.Context, handler MessageHandler) error {
	ch, err := c.conn.Channel(ctx)
	if err != nil {
		return err
	}
	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	deliveries, err := ch.Consume(
		c.conn.Queue(), // queue
		c.tag,          // consumer
		false,          // auto-ack
		false,          // exclusive
		false,          // no-local
		false,          // no-wait
		nil,            // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.log.Info("consumer_started", "", "consuming kitchen tickets",
		slog.String("queue", c.conn.Queue()), slog.Int("prefetch", c.prefetch))

	for {
		select {
		case <-ctx.Done():
			_ = ch.Cancel(c.tag, false)
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			c.handle(ctx, d, handler)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, d amqp.Delivery, handler MessageHandler) {
	start := time.Now()
	hctx, cancel := context.WithTimeout(ctx, handlerTimeout)
	defer cancel()

	err := handler(hctx, d.Body)
	attrs := []slog.Attr{
		slog.Uint64("delivery_tag", d.DeliveryTag),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	}

	if err == nil {
		c.log.Debug("message_processed", "", "message processed", attrs...)
		if ackErr := d.Ack(false); ackErr != nil {
			c.log.Error("message_ack_failed", "", "failed to ack message", ackErr)
		}
		return
	}

	requeue := !errors.Is(err, ErrDiscard) && !d.Redelivered
	c.log.Error("message_processing_failed", "", "failed to process message", err,
		append(attrs, slog.Bool("requeue", requeue))...)
	if nackErr := d.Nack(false, requeue); nackErr != nil {
		c.log.Error("message_nack_failed", "", "failed to nack message", nackErr)
	}
}
