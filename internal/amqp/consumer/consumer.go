package consumer

import (
	"context"
	"encoding/json"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"runtime/debug"
)

type Unmarshal func(data []byte, v any) error

// Handler processes one decoded message. It owns the acknowledgement of d.
type Handler[T any] func(ctx context.Context, data *T, d amqp.Delivery) error

type Config struct {
	Unmarshal Unmarshal
	Queue     string
	Consumer  string
	Args      amqp.Table
}

// Source is implemented by *connection.Channel.
type Source interface {
	Consume(ctx context.Context, queue, consumer string, args amqp.Table) <-chan amqp.Delivery
}

type Consumer interface {
	Subscribe(ctx context.Context)
}

type consumer[T any] struct {
	l       zerolog.Logger
	cfg     *Config
	src     Source
	handler Handler[T]
}

func New[T any](src Source, handler Handler[T], cfg *Config) Consumer {
	if cfg.Unmarshal == nil {
		cfg.Unmarshal = json.Unmarshal
	}
	return &consumer[T]{
		cfg:     cfg,
		src:     src,
		handler: handler,
		l: log.With().
			Str("domain", "amqp").
			Str("type", "consumer").
			Type("message", *new(T)).
			Str("queue", cfg.Queue).
			Logger(),
	}
}

// Subscribe handles deliveries one at a time until ctx is done or the
// source stops delivering.
func (c *consumer[T]) Subscribe(ctx context.Context) {
	deliveries := c.src.Consume(ctx, c.cfg.Queue, c.cfg.Consumer, c.cfg.Args)
	c.l.Debug().Msg("consumer subscribed")
	for {
		select {
		case <-ctx.Done():
			c.l.Debug().Msg("consumer stopped")
			return
		case d, ok := <-deliveries:
			if !ok {
				c.l.Debug().Msg("deliveries closed")
				return
			}
			c.process(ctx, d)
		}
	}
}

func (c *consumer[T]) process(ctx context.Context, d amqp.Delivery) {
	defer func() {
		if r := recover(); r != nil {
			c.l.Error().Str("stack", string(debug.Stack())).Msgf("handler panic: %v", r)
			_ = d.Nack(false, false)
		}
	}()
	var data T
	if err := c.cfg.Unmarshal(d.Body, &data); err != nil {
		c.l.Error().Err(err).Bytes("body", d.Body).Msg("dropping undecodable message")
		_ = d.Reject(false)
		return
	}
	if err := c.handler(ctx, &data, d); err != nil {
		c.l.Error().Err(err).Msg("handle message")
	}
}
