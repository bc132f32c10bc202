// Package amqp connects hashcrack processes to RabbitMQ.
package amqp

import (
	"context"
	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/ykhdr/hashcrack/internal/amqp/connection"
)

func Dial(ctx context.Context, cfg *Config) (*connection.Connection, error) {
	opts := amqp.Config{
		SASL: []amqp.Authentication{
			&amqp.PlainAuth{
				Username: cfg.Username,
				Password: cfg.Password,
			},
		},
	}
	return connection.New(ctx, cfg.URI, opts, cfg.ReconnectTimeout)
}

// DeclareQueues makes sure the task queue and the result queue exist and
// limits unacknowledged task deliveries to the configured prefetch.
func DeclareQueues(ch *connection.Channel, cfg *Config) error {
	raw := ch.Channel()
	queues := []string{cfg.ConsumerConfig.Queue}
	// results published to the default exchange are routed by queue name
	if cfg.PublisherConfig.Exchange == "" {
		queues = append(queues, cfg.PublisherConfig.RoutingKey)
	}
	for _, name := range queues {
		if _, err := raw.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return errors.Wrapf(err, "declare queue %s", name)
		}
	}
	if cfg.ConsumerConfig.Prefetch > 0 {
		if err := raw.Qos(cfg.ConsumerConfig.Prefetch, 0, false); err != nil {
			return errors.Wrap(err, "set prefetch")
		}
	}
	return nil
}
