package dispatcher

import (
	"context"
	"encoding/xml"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	hcamqp "github.com/ykhdr/hashcrack/internal/amqp"
	"github.com/ykhdr/hashcrack/internal/amqp/connection"
	"github.com/ykhdr/hashcrack/internal/amqp/consumer"
	"github.com/ykhdr/hashcrack/internal/amqp/publisher"
	"github.com/ykhdr/hashcrack/pkg/messages"
	"sync"
)

var ErrTaskFailed = errors.New("worker failed the task")

type Validator interface {
	Validate(req *messages.CrackRequest) error
}

// QueueCracker is a Cracker that publishes every request as a
// CrackTaskMessage and waits for the matching CrackTaskResult.
type QueueCracker struct {
	l         zerolog.Logger
	validator Validator
	publisher publisher.Publisher[messages.CrackTaskMessage]
	consumer  consumer.Consumer
	ch        *connection.Channel
	queue     string

	m       sync.Mutex
	pending map[string]chan *messages.CrackTaskResult
}

func newQueueCracker(validator Validator, pub publisher.Publisher[messages.CrackTaskMessage]) *QueueCracker {
	return &QueueCracker{
		validator: validator,
		publisher: pub,
		pending:   make(map[string]chan *messages.CrackTaskResult),
		l: log.With().
			Str("domain", "dispatcher").
			Str("type", "queue-cracker").
			Logger(),
	}
}

// NewQueueCracker declares the task and result queues on a new channel of
// conn. Results are read once Start runs.
func NewQueueCracker(ctx context.Context, conn *connection.Connection, cfg *hcamqp.Config, validator Validator) (*QueueCracker, error) {
	ch, err := conn.Channel(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "open channel")
	}
	if err := hcamqp.DeclareQueues(ch, cfg); err != nil {
		_ = ch.Close()
		return nil, err
	}
	q := newQueueCracker(validator, publisher.New[messages.CrackTaskMessage](ch, cfg.PublisherConfig.ToPublisherConfig(xml.Marshal, "application/xml")))
	q.ch = ch
	q.queue = cfg.ConsumerConfig.Queue
	q.consumer = consumer.New[messages.CrackTaskResult](ch, q.HandleResult, cfg.ConsumerConfig.ToConsumerConfig(xml.Unmarshal, ""))
	return q, nil
}

// Start consumes task results until ctx is done.
func (q *QueueCracker) Start(ctx context.Context) error {
	defer func() { _ = q.ch.Close() }()
	q.l.Info().Str("queue", q.queue).Msg("waiting for task results")
	q.consumer.Subscribe(ctx)
	if err := ctx.Err(); err != nil {
		return err
	}
	return errors.New("result deliveries stopped")
}

func (q *QueueCracker) Validate(req *messages.CrackRequest) error {
	return q.validator.Validate(req)
}

// Crack blocks until a worker reports on req or ctx is done. A result that
// arrives after that is dropped.
func (q *QueueCracker) Crack(ctx context.Context, req *messages.CrackRequest) (*messages.CrackResult, error) {
	id := uuid.NewString()
	done := make(chan *messages.CrackTaskResult, 1)
	q.m.Lock()
	q.pending[id] = done
	q.m.Unlock()
	defer func() {
		q.m.Lock()
		delete(q.pending, id)
		q.m.Unlock()
	}()

	if err := q.publisher.SendMessage(ctx, messages.NewTaskMessage(id, req), publisher.Persistent); err != nil {
		return nil, errors.Wrap(err, "publish task")
	}
	q.l.Debug().Str("request-id", id).Msg("task published")
	select {
	case res := <-done:
		return fromTaskResult(res)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// HandleResult hands res to the Crack call waiting for it and acknowledges d.
func (q *QueueCracker) HandleResult(_ context.Context, res *messages.CrackTaskResult, d amqp.Delivery) error {
	q.m.Lock()
	done, ok := q.pending[res.RequestId]
	q.m.Unlock()
	if ok {
		select {
		case done <- res:
		default:
			q.l.Warn().Str("request-id", res.RequestId).Msg("duplicate task result")
		}
	} else {
		q.l.Warn().Str("request-id", res.RequestId).Msg("no job waits for task result")
	}
	return errors.Wrap(d.Ack(false), "ack result")
}

func fromTaskResult(res *messages.CrackTaskResult) (*messages.CrackResult, error) {
	out := &messages.CrackResult{
		Algorithm: res.Algorithm,
		Source:    res.Source,
		Length:    res.Length,
		Checked:   res.Checked,
		ElapsedMs: res.ElapsedMs,
	}
	switch res.Status {
	case messages.StatusReady:
		if len(res.Found) == 0 {
			return nil, errors.Wrap(ErrTaskFailed, "ready result without a candidate")
		}
		out.Found = true
		out.Candidate = res.Found[0]
		return out, nil
	case messages.StatusNotFound:
		return out, nil
	case messages.StatusError:
		return nil, errors.Wrap(ErrTaskFailed, res.Reason)
	default:
		return nil, errors.Wrapf(ErrTaskFailed, "unexpected status %s", res.Status)
	}
}
