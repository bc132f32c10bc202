package publisher

import (
	"context"
	"encoding/json"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"time"
)

type DeliveryMode uint8

const (
	Transient  = DeliveryMode(amqp.Transient)
	Persistent = DeliveryMode(amqp.Persistent)
)

type Marshal func(any) ([]byte, error)

type Config struct {
	Exchange    string
	RoutingKey  string
	Marshal     Marshal
	ContentType string
}

// Sink is implemented by *connection.Channel.
type Sink interface {
	Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) error
}

type Publisher[T any] interface {
	SendMessage(ctx context.Context, message *T, mode DeliveryMode) error
}

type publisher[T any] struct {
	l    zerolog.Logger
	cfg  *Config
	sink Sink
}

func New[T any](sink Sink, cfg *Config) Publisher[T] {
	if cfg.Marshal == nil {
		cfg.Marshal = json.Marshal
	}
	if cfg.ContentType == "" {
		cfg.ContentType = "application/json"
	}
	return &publisher[T]{
		cfg:  cfg,
		sink: sink,
		l: log.With().
			Str("domain", "amqp").
			Str("type", "publisher").
			Type("message", *new(T)).
			Str("exchange", cfg.Exchange).
			Str("routing-key", cfg.RoutingKey).
			Logger(),
	}
}

func (p *publisher[T]) SendMessage(ctx context.Context, message *T, mode DeliveryMode) error {
	body, err := p.cfg.Marshal(message)
	if err != nil {
		return errors.Wrap(err, "marshal message")
	}
	msg := amqp.Publishing{
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now(),
		DeliveryMode: uint8(mode),
		ContentType:  p.cfg.ContentType,
		Body:         body,
	}
	if err := p.sink.Publish(ctx, p.cfg.Exchange, p.cfg.RoutingKey, msg); err != nil {
		return errors.Wrap(err, "send message")
	}
	p.l.Debug().Str("message-id", msg.MessageId).Msg("message sent")
	return nil
}
