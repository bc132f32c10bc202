// Package connection keeps an AMQP connection and its channels open,
// redialing after the broker closes them.
package connection

import (
	"context"
	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrConnectionClosed = errors.New("amqp connection is already closed")
	ErrChannelClosed    = errors.New("amqp channel is already closed")
)

type Connection struct {
	l                zerolog.Logger
	uri              string
	opts             amqp.Config
	reconnectTimeout time.Duration

	m      sync.RWMutex
	conn   *amqp.Connection
	closed atomic.Bool
	cancel context.CancelFunc
}

func New(ctx context.Context, uri string, opts amqp.Config, reconnectTimeout time.Duration) (*Connection, error) {
	raw, err := amqp.DialConfig(uri, opts)
	if err != nil {
		return nil, errors.Wrap(err, "dial amqp")
	}
	ctx, cancel := context.WithCancel(ctx)
	c := &Connection{
		uri:              uri,
		opts:             opts,
		reconnectTimeout: reconnectTimeout,
		conn:             raw,
		cancel:           cancel,
		l: log.With().
			Str("domain", "amqp").
			Str("type", "connection").
			Logger(),
	}
	go c.watch(ctx, raw)
	return c, nil
}

func (c *Connection) Connection() *amqp.Connection {
	c.m.RLock()
	defer c.m.RUnlock()
	return c.conn
}

func (c *Connection) IsClosed() bool {
	return c.closed.Load()
}

func (c *Connection) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrConnectionClosed
	}
	c.cancel()
	if err := c.Connection().Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		return errors.Wrap(err, "close amqp connection")
	}
	return nil
}

// watch redials every time the current connection is closed by the broker
// until ctx is done or Close is called.
func (c *Connection) watch(ctx context.Context, raw *amqp.Connection) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-raw.NotifyClose(make(chan *amqp.Error, 1)):
			if !ok || c.closed.Load() {
				return
			}
			c.l.Warn().Err(err).Msg("connection lost, reconnecting")
		}
		next, ok := redial(ctx, c.l, c.reconnectTimeout, func() (*amqp.Connection, error) {
			return amqp.DialConfig(c.uri, c.opts)
		})
		if !ok {
			return
		}
		c.m.Lock()
		c.conn = next
		c.m.Unlock()
		raw = next
		c.l.Info().Msg("connection restored")
	}
}

func (c *Connection) Channel(ctx context.Context) (*Channel, error) {
	raw, err := c.Connection().Channel()
	if err != nil {
		return nil, errors.Wrap(err, "open amqp channel")
	}
	ctx, cancel := context.WithCancel(ctx)
	ch := &Channel{
		conn:   c,
		ch:     raw,
		cancel: cancel,
		l: log.With().
			Str("domain", "amqp").
			Str("type", "channel").
			Logger(),
	}
	go ch.watch(ctx, raw)
	return ch, nil
}

type Channel struct {
	l    zerolog.Logger
	conn *Connection

	m      sync.RWMutex
	ch     *amqp.Channel
	closed atomic.Bool
	cancel context.CancelFunc
}

func (ch *Channel) Channel() *amqp.Channel {
	ch.m.RLock()
	defer ch.m.RUnlock()
	return ch.ch
}

func (ch *Channel) IsClosed() bool {
	return ch.closed.Load()
}

func (ch *Channel) Close() error {
	if !ch.closed.CompareAndSwap(false, true) {
		return ErrChannelClosed
	}
	ch.cancel()
	if err := ch.Channel().Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		return errors.Wrap(err, "close amqp channel")
	}
	return nil
}

func (ch *Channel) watch(ctx context.Context, raw *amqp.Channel) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-raw.NotifyClose(make(chan *amqp.Error, 1)):
			if ch.closed.Load() {
				return
			}
			if ok {
				ch.l.Warn().Err(err).Msg("channel lost, reopening")
			}
		}
		next, ok := redial(ctx, ch.l, ch.conn.reconnectTimeout, func() (*amqp.Channel, error) {
			return ch.conn.Connection().Channel()
		})
		if !ok {
			return
		}
		ch.m.Lock()
		ch.ch = next
		ch.m.Unlock()
		raw = next
		ch.l.Info().Msg("channel restored")
	}
}

// Consume delivers messages from queue until ctx is done or the channel is
// closed, resubscribing whenever the underlying channel is replaced.
func (ch *Channel) Consume(ctx context.Context, queue, consumer string, args amqp.Table) <-chan amqp.Delivery {
	deliveries := make(chan amqp.Delivery)
	go func() {
		defer close(deliveries)
		for ctx.Err() == nil && !ch.IsClosed() {
			d, err := ch.Channel().ConsumeWithContext(ctx, queue, consumer, false, false, false, false, args)
			if err != nil {
				ch.l.Error().Err(err).Str("queue", queue).Msg("consume failed")
				if !sleep(ctx, ch.conn.reconnectTimeout) {
					return
				}
				continue
			}
			for msg := range d {
				select {
				case deliveries <- msg:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return deliveries
}

func (ch *Channel) Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) error {
	if err := ch.Channel().PublishWithContext(ctx, exchange, key, false, false, msg); err != nil {
		return errors.Wrap(err, "publish")
	}
	return nil
}

func redial[T any](ctx context.Context, l zerolog.Logger, timeout time.Duration, dial func() (T, error)) (T, bool) {
	for {
		v, err := dial()
		if err == nil {
			return v, true
		}
		l.Warn().Err(err).Dur("retry-in", timeout).Msg("reconnect failed")
		if !sleep(ctx, timeout) {
			var zero T
			return zero, false
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
