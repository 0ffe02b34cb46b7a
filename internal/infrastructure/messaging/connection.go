package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/kikibeach/kiki-pos/internal/config"
	"github.com/kikibeach/kiki-pos/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	maxDialAttempts = 5
	kitchenQueueTTL = 15 * time.Minute
	heartbeat       = 10 * time.Second
	dialTimeout     = 30 * time.Second
)

// Connection wraps a RabbitMQ connection and channel with reconnect support
type Connection struct {
	lock     chan struct{}
	conn     *amqp.Connection
	channel  *amqp.Channel
	url      string
	exchange string
	queue    string
	log      *logger.Logger
}

// NewConnection dials RabbitMQ and declares the order topology, retrying with
// backoff until ctx is done
func NewConnection(ctx context.Context, cfg *config.RabbitMQConfig, log *logger.Logger) (*Connection, error) {
	c := &Connection{
		lock:     make(chan struct{}, 1),
		url:      cfg.URL,
		exchange: cfg.Exchange,
		queue:    cfg.Queue,
		log:      log,
	}
	if err := c.connect(ctx, maxDialAttempts); err != nil {
		return nil, fmt.Errorf("failed to establish initial connection: %w", err)
	}
	return c, nil
}

func (c *Connection) connect(ctx context.Context, attempts int) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = c.dial(ctx); err == nil {
			c.log.Info("rabbitmq_connected", "", "connected to RabbitMQ",
				slog.String("exchange", c.exchange), slog.String("queue", c.queue))
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attempt < attempts {
			wait := time.Duration(attempt) * 2 * time.Second
			c.log.Error("rabbitmq_connection_failed", "", "failed to connect to RabbitMQ, retrying", err,
				slog.Int("attempt", attempt), slog.Duration("wait", wait))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
	}
	return fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", attempts, err)
}

func (c *Connection) dial(ctx context.Context) error {
	conn, err := amqp.DialConfig(c.url, amqp.Config{
		Heartbeat: heartbeat,
		Locale:    "en_US",
		Dial:      dialer(ctx),
	})
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}
	if err := declareTopology(ch, c.exchange, c.queue); err != nil {
		ch.Close()
		conn.Close()
		return err
	}
	c.conn, c.channel = conn, ch
	return nil
}

// dialer bounds the TCP dial and the AMQP handshake by ctx. The deadline is
// cleared by the client once the handshake completes.
func dialer(ctx context.Context) func(network, addr string) (net.Conn, error) {
	return func(network, addr string) (net.Conn, error) {
		deadline, ok := ctx.Deadline()
		if !ok {
			deadline = time.Now().Add(dialTimeout)
		}
		d := net.Dialer{Deadline: deadline}
		conn, err := d.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}
		if err := conn.SetDeadline(deadline); err != nil {
			conn.Close()
			return nil, err
		}
		return conn, nil
	}
}

// declareTopology creates the orders fanout exchange and the kitchen queue bound to it
func declareTopology(ch *amqp.Channel, exchange, queue string) error {
	err := ch.ExchangeDeclare(
		exchange, // name
		"fanout", // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	_, err = ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		amqp.Table{
			// tickets older than this are no longer worth printing
			"x-message-ttl": int32(kitchenQueueTTL / time.Millisecond),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	if err := ch.QueueBind(queue, "", exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", queue, err)
	}
	return nil
}

// Channel returns a live channel. A dropped connection is redialed once;
// callers own the retry policy. Waiting for another caller's reconnect and the
// redial itself both give up when ctx is done.
func (c *Connection) Channel(ctx context.Context) (*amqp.Channel, error) {
	select {
	case c.lock <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-c.lock }()

	if c.conn == nil || c.conn.IsClosed() || c.channel == nil || c.channel.IsClosed() {
		c.closeLocked()
		if err := c.connect(ctx, 1); err != nil {
			return nil, err
		}
	}
	return c.channel, nil
}

// Exchange is the fanout exchange order events are published to
func (c *Connection) Exchange() string { return c.exchange }

// Queue is the kitchen ticket queue
func (c *Connection) Queue() string { return c.queue }

// Close closes the channel and connection
func (c *Connection) Close() error {
	c.lock <- struct{}{}
	defer func() { <-c.lock }()
	return c.closeLocked()
}

func (c *Connection) closeLocked() error {
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		if err != nil && err != amqp.ErrClosed {
			return err
		}
	}
	return nil
}
