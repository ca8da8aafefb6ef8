package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wb-go/wbf/zlog"
)

type Config struct {
	Url      string
	Exchange string
	Queue    string
	Prefetch int
}

type Client struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	queue    string
}

// Publisher schedules a message for delivery after delay.
type Publisher interface {
	Publish(ctx context.Context, message []byte, delay time.Duration) error
}

type Consumer interface {
	Consume(ctx context.Context, handler func(context.Context, []byte) error) error
}

// NewRabbit declares a durable x-delayed-message exchange and binds the queue
// to it, so every message can carry its own delay.
func NewRabbit(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.Url)
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to connect to RabbitMQ")
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		zlog.Logger.Error().Err(err).Msg("failed to open RabbitMQ channel")
		return nil, err
	}

	client := &Client{
		conn:     conn,
		channel:  ch,
		exchange: cfg.Exchange,
		queue:    cfg.Queue,
	}

	fail := func(msg string, err error) (*Client, error) {
		zlog.Logger.Error().Err(err).Msg(msg)
		client.Close()
		return nil, fmt.Errorf("%s: %w", msg, err)
	}

	args := amqp.Table{"x-delayed-type": "direct"}
	if err := ch.ExchangeDeclare(cfg.Exchange, "x-delayed-message", true, false, false, false, args); err != nil {
		return fail("failed to declare exchange", err)
	}
	if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
		return fail("failed to declare queue", err)
	}
	if err := ch.QueueBind(cfg.Queue, "", cfg.Exchange, false, nil); err != nil {
		return fail("failed to bind queue", err)
	}
	if cfg.Prefetch > 0 {
		if err := ch.Qos(cfg.Prefetch, 0, false); err != nil {
			return fail("failed to set prefetch", err)
		}
	}

	zlog.Logger.Info().Msgf("RabbitMQ initialized (exchange=%s, queue=%s)", cfg.Exchange, cfg.Queue)
	return client, nil
}

func (c *Client) Close() {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
	zlog.Logger.Info().Msg("RabbitMQ connection closed")
}

func (c *Client) Publish(ctx context.Context, message []byte, delay time.Duration) error {
	headers := amqp.Table{}
	if delay > 0 {
		headers["x-delay"] = int32(delay / time.Millisecond)
	}

	err := c.channel.PublishWithContext(ctx, c.exchange, "", false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         message,
		Timestamp:    time.Now(),
		Headers:      headers,
	})
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to publish message to RabbitMQ")
		return err
	}
	zlog.Logger.Debug().Msgf("Message published to exchange=%s delay=%s", c.exchange, delay)
	return nil
}

// PublishJSON marshals v and publishes it.
func PublishJSON(ctx context.Context, p Publisher, v any, delay time.Duration) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	return p.Publish(ctx, body, delay)
}

// Consume delivers messages to handler until ctx is done. A failed message is
// requeued.
func (c *Client) Consume(ctx context.Context, handler func(context.Context, []byte) error) error {
	msgs, err := c.channel.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to start consuming messages")
		return err
	}

	go func() {
		for d := range msgs {
			if err := handler(ctx, d.Body); err != nil {
				zlog.Logger.Warn().Msgf("failed to process message: %v", err)
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}()

	zlog.Logger.Info().Msgf("Started consuming from queue %s", c.queue)
	return nil
}
