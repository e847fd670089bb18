// Package rabbitmq maintains the broker client used to publish domain
// events.
package rabbitmq

import (
	"context"
	"fmt"
	"net/url"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Client represents the set of APIs needed when working against rabbitmq.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Configs represents all required configs for creating a rabbitmq client.
type Configs struct {
	Host     string
	User     string
	Password string
}

// NewClient dials the rabbitmq server with retries and returns a client.
func NewClient(ctx context.Context, conf Configs) (*Client, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Second*5)
		defer cancel()
	}

	uri := url.URL{
		Scheme: "amqp",
		Host:   conf.Host,
		User:   url.UserPassword(conf.User, conf.Password),
	}

	var conn *amqp.Connection
	for attempt := 1; ; attempt++ {
		var dialErr error
		conn, dialErr = amqp.Dial(uri.String())
		if dialErr == nil {
			break
		}

		time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)

		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("dial: %w", dialErr)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	return &Client{
		conn:    conn,
		channel: ch,
	}, nil
}

// Close closes the channel and the connection.
func (c *Client) Close() error {
	if err := c.channel.Close(); err != nil {
		return fmt.Errorf("channel: %w", err)
	}

	if err := c.conn.Close(); err != nil {
		return fmt.Errorf("connection: %w", err)
	}
	return nil
}

// DeclareQueue creates a durable queue to push messages into.
func (c *Client) DeclareQueue(name string) error {
	_, err := c.channel.QueueDeclare(
		name,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declareQueue: %w", err)
	}
	return nil
}

// Publish enqueues the message into the queue.
func (c *Client) Publish(queue string, msg []byte) error {
	if err := c.channel.Publish(
		"",
		queue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         msg,
		},
	); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// Consumer returns a delivery channel to consume messages from.
func (c *Client) Consumer(queue string) (<-chan amqp.Delivery, error) {
	//one unacknowledged message per consumer at a time
	if err := c.channel.Qos(1, 0, false); err != nil {
		return nil, fmt.Errorf("qos: %w", err)
	}

	msgs, err := c.channel.Consume(
		queue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("consume: %w", err)
	}

	return msgs, nil
}
