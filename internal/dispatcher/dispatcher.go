package dispatcher

import (
	"context"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/ykhdr/hashcrack/config"
	"github.com/ykhdr/hashcrack/internal/job"
	"github.com/ykhdr/hashcrack/internal/jobstore"
	"github.com/ykhdr/hashcrack/pkg/messages"
	"runtime/debug"
	"time"
)

var ErrQueueFull = errors.New("request queue is full")

type Cracker interface {
	Validate(req *messages.CrackRequest) error
	Crack(ctx context.Context, req *messages.CrackRequest) (*messages.CrackResult, error)
}

// Dispatcher queues crack jobs and runs them one at a time. Every search
// already uses all configured workers, so jobs are not run concurrently.
type Dispatcher struct {
	l               zerolog.Logger
	queue           chan *job.Info
	dispatchTimeout time.Duration
	requestTimeout  time.Duration
	cracker         Cracker
	store           jobstore.Store
}

func New(cfg *config.DispatcherConfig, cracker Cracker, store jobstore.Store) *Dispatcher {
	return &Dispatcher{
		queue:           make(chan *job.Info, cfg.RequestQueueSize),
		dispatchTimeout: cfg.DispatchTimeout,
		requestTimeout:  cfg.RequestTimeout,
		cracker:         cracker,
		store:           store,
		l: log.With().
			Str("domain", "dispatcher").
			Logger(),
	}
}

// Dispatch validates req, records a NEW job and queues it. It gives up with
// ErrQueueFull when the queue stays full for the dispatch timeout.
func (d *Dispatcher) Dispatch(ctx context.Context, req *messages.CrackRequest) (job.Id, error) {
	if err := d.cracker.Validate(req); err != nil {
		return "", err
	}
	info := job.New(job.Id(uuid.NewString()), req)
	if err := d.store.Save(ctx, info); err != nil {
		return "", errors.Wrap(err, "save job")
	}
	timer := time.NewTimer(d.dispatchTimeout)
	defer timer.Stop()
	select {
	case d.queue <- info:
		d.l.Debug().Str("job-id", string(info.ID)).Msg("job queued")
		return info.ID, nil
	case <-timer.C:
	case <-ctx.Done():
	}
	if err := d.store.Delete(context.WithoutCancel(ctx), info.ID); err != nil {
		d.l.Warn().Err(err).Str("job-id", string(info.ID)).Msg("failed to drop rejected job")
	}
	return "", ErrQueueFull
}

func (d *Dispatcher) Start(ctx context.Context) error {
	d.l.Info().Int("queue-size", cap(d.queue)).Msg("dispatcher is running")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case info := <-d.queue:
			d.run(ctx, info)
		}
	}
}

func (d *Dispatcher) run(ctx context.Context, info *job.Info) {
	l := d.l.With().Str("job-id", string(info.ID)).Logger()
	info.Status = messages.StatusInProgress
	info.UpdatedAt = time.Now().UTC()
	d.save(ctx, l, info)

	jobCtx, cancel := context.WithTimeout(ctx, d.requestTimeout)
	res, err := d.crack(jobCtx, l, info.Request)
	cancel()
	if errors.Is(err, context.DeadlineExceeded) {
		err = errors.Errorf("request timed out after %s", d.requestTimeout)
	}
	info.Finish(res, err)
	if err != nil {
		l.Warn().Err(err).Msg("job failed")
	} else {
		l.Info().Str("status", string(info.Status)).Msg("job finished")
	}
	// the outcome must be stored even when the manager is shutting down
	d.save(context.WithoutCancel(ctx), l, info)
}

// crack turns a panic of the cracker into a failed job so the queue keeps
// draining.
func (d *Dispatcher) crack(ctx context.Context, l zerolog.Logger, req *messages.CrackRequest) (res *messages.CrackResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			l.Error().Str("stack", string(debug.Stack())).Msgf("cracker panic: %v", r)
			res, err = nil, errors.Errorf("crack panicked: %v", r)
		}
	}()
	return d.cracker.Crack(ctx, req)
}

func (d *Dispatcher) save(ctx context.Context, l zerolog.Logger, info *job.Info) {
	if err := d.store.Save(ctx, info); err != nil {
		l.Error().Err(err).Str("status", string(info.Status)).Msg("failed to save job")
	}
}
