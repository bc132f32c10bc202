package worker

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
)

type Cracker interface {
	Crack(ctx context.Context, req *messages.CrackRequest) (*messages.CrackResult, error)
}

// Service cracks the tasks it receives from the task queue and publishes
// one CrackTaskResult per task.
type Service struct {
	l         zerolog.Logger
	cracker   Cracker
	workers   int
	publisher publisher.Publisher[messages.CrackTaskResult]
}

func NewService(cracker Cracker, workers int) *Service {
	return &Service{
		cracker: cracker,
		workers: workers,
		l: log.With().
			Str("domain", "worker").
			Logger(),
	}
}

// Start consumes tasks over conn until ctx is done.
func (s *Service) Start(ctx context.Context, conn *connection.Connection, cfg *hcamqp.Config) error {
	ch, err := conn.Channel(ctx)
	if err != nil {
		return errors.Wrap(err, "open channel")
	}
	defer func() { _ = ch.Close() }()
	if err := hcamqp.DeclareQueues(ch, cfg); err != nil {
		return err
	}
	s.publisher = publisher.New[messages.CrackTaskResult](ch, cfg.PublisherConfig.ToPublisherConfig(xml.Marshal, "application/xml"))
	c := consumer.New[messages.CrackTaskMessage](ch, s.Handle, cfg.ConsumerConfig.ToConsumerConfig(xml.Unmarshal, ""))
	s.l.Info().Str("queue", cfg.ConsumerConfig.Queue).Int("workers", s.workers).Msg("worker is running")
	c.Subscribe(ctx)
	if err := ctx.Err(); err != nil {
		return err
	}
	return errors.New("task deliveries stopped")
}

// Handle publishes the outcome of msg and then acknowledges d. Tasks
// interrupted by shutdown are requeued instead.
func (s *Service) Handle(ctx context.Context, msg *messages.CrackTaskMessage, d amqp.Delivery) error {
	result, err := s.crack(ctx, msg)
	if err != nil {
		_ = d.Nack(false, true)
		return err
	}
	if err := s.publisher.SendMessage(ctx, result, publisher.Persistent); err != nil {
		_ = d.Nack(false, true)
		return errors.Wrap(err, "publish result")
	}
	return errors.Wrap(d.Ack(false), "ack task")
}

func (s *Service) crack(ctx context.Context, msg *messages.CrackTaskMessage) (*messages.CrackTaskResult, error) {
	l := s.l.With().Str("request-id", msg.RequestId).Logger()
	l.Debug().
		Str("hash", msg.Hash).
		Int("min-length", msg.MinLength).
		Int("max-length", msg.MaxLength).
		Msg("cracking task")
	result := &messages.CrackTaskResult{
		Id:        uuid.NewString(),
		RequestId: msg.RequestId,
		Found:     []string{},
	}
	res, err := s.cracker.Crack(ctx, msg.Request(s.workers))
	switch {
	case err != nil && ctx.Err() != nil:
		return nil, errors.Wrap(err, "task interrupted")
	case err != nil:
		l.Warn().Err(err).Msg("task failed")
		result.Status = messages.StatusError
		result.Reason = err.Error()
	case res.Found:
		result.Status = messages.StatusReady
		result.Found = append(result.Found, res.Candidate)
	default:
		result.Status = messages.StatusNotFound
	}
	if res != nil {
		result.Algorithm = res.Algorithm
		result.Source = res.Source
		result.Length = res.Length
		result.Checked = res.Checked
		result.ElapsedMs = res.ElapsedMs
	}
	return result, nil
}
