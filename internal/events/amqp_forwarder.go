package events

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// AMQPForwarder republishes events to a durable RabbitMQ queue. Each call
// dials its own connection.
type AMQPForwarder struct {
	url    string
	queue  string
	logger *zap.Logger
	dial   func(url string) (amqpChannelConn, error)
}

type amqpChannelConn interface {
	Channel() (*amqp.Channel, error)
	Close() error
}

// NewAMQPForwarder returns nil when url is empty so callers can skip wiring.
func NewAMQPForwarder(url, queue string, logger *zap.Logger) *AMQPForwarder {
	if url == "" {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AMQPForwarder{
		url:    url,
		queue:  queue,
		logger: logger,
		dial: func(url string) (amqpChannelConn, error) {
			return amqp.Dial(url)
		},
	}
}

// Queue returns the destination queue name.
func (f *AMQPForwarder) Queue() string {
	return f.queue
}

// Forward publishes event as a persistent JSON message.
func (f *AMQPForwarder) Forward(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	conn, err := f.dial(f.url)
	if err != nil {
		f.logger.Warn("rabbitmq dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(f.queue, true, false, false, false, nil); err != nil {
		return err
	}

	return ch.PublishWithContext(ctx, "", f.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Type:         string(event.Type),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}
