package hashcrack

import (
	"context"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/ykhdr/hashcrack/internal/bruteforce"
	"github.com/ykhdr/hashcrack/internal/candidate"
	"github.com/ykhdr/hashcrack/internal/digest"
	"github.com/ykhdr/hashcrack/internal/hashcrack/strategy"
	"github.com/ykhdr/hashcrack/internal/potfile"
	"github.com/ykhdr/hashcrack/pkg/messages"
	"runtime"
	"strings"
	"time"
)

const autoAlgorithm = "auto"

var ErrInvalidRequest = errors.New("invalid crack request")

type Service struct {
	l                zerolog.Logger
	potfile          potfile.Store
	workers          int
	progress         bruteforce.ProgressFunc
	progressInterval uint64
}

type Option func(*Service)

// WithPotfile makes the service answer known hashes from store and record
// every recovered candidate in it.
func WithPotfile(store potfile.Store) Option {
	return func(s *Service) {
		s.potfile = store
	}
}

// WithWorkers sets the worker count used when a request does not name one.
func WithWorkers(workers int) Option {
	return func(s *Service) {
		if workers > 0 {
			s.workers = workers
		}
	}
}

func WithProgress(fn bruteforce.ProgressFunc, interval uint64) Option {
	return func(s *Service) {
		s.progress = fn
		s.progressInterval = interval
	}
}

func NewService(opts ...Option) *Service {
	s := &Service{
		workers: runtime.NumCPU(),
		l: log.With().
			Str("domain", "hashcrack").
			Str("type", "service").
			Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Crack resolves the request and searches for a preimage of its hash.
// A search that completes without a match is not an error.
func (s *Service) Crack(ctx context.Context, req *messages.CrackRequest) (*messages.CrackResult, error) {
	task, strategyType, err := s.task(req)
	if err != nil {
		return nil, err
	}
	l := s.l.With().
		Str("algorithm", string(task.Algorithm.Name())).
		Str("strategy", strategyType.String()).
		Logger()

	start := time.Now()
	if res, ok := s.lookup(ctx, l, task); ok {
		res.ElapsedMs = time.Since(start).Milliseconds()
		return res, nil
	}

	l.Info().Int("min-length", task.MinLength).Int("max-length", task.MaxLength).Msg("cracking hash")
	res, err := strategy.NewStrategy(strategyType).Crack(ctx, task)
	if err != nil {
		if errors.Is(err, bruteforce.ErrInvalidOptions) || errors.Is(err, bruteforce.ErrSearchSpaceTooLarge) {
			return nil, errors.Wrap(ErrInvalidRequest, err.Error())
		}
		return nil, err
	}
	if res.Found {
		l.Info().Str("source", string(res.Source)).Uint64("checked", res.Checked).Msg("hash cracked")
		s.remember(ctx, l, task, res.Candidate)
	} else {
		l.Info().Uint64("checked", res.Checked).Msg("hash not cracked")
	}
	return &messages.CrackResult{
		Found:     res.Found,
		Candidate: res.Candidate,
		Algorithm: string(task.Algorithm.Name()),
		Source:    string(res.Source),
		Length:    res.Length,
		Checked:   res.Checked,
		ElapsedMs: time.Since(start).Milliseconds(),
	}, nil
}

// Validate reports whether req would be accepted by Crack.
func (s *Service) Validate(req *messages.CrackRequest) error {
	task, _, err := s.task(req)
	if err != nil {
		return err
	}
	if _, ok := candidate.Total(len(task.Alphabet), task.MaxLength); !ok {
		return errors.Wrapf(ErrInvalidRequest, "search space of %d symbols up to length %d is too large", len(task.Alphabet), task.MaxLength)
	}
	return nil
}

func (s *Service) task(req *messages.CrackRequest) (*strategy.Task, strategy.Type, error) {
	if req == nil {
		return nil, 0, errors.Wrap(ErrInvalidRequest, "empty request")
	}
	hash := strings.TrimSpace(req.Hash)
	switch {
	case hash == "":
		return nil, 0, errors.Wrap(ErrInvalidRequest, "hash is required")
	case req.Alphabet == "":
		return nil, 0, errors.Wrap(ErrInvalidRequest, "alphabet is required")
	case req.MinLength < 1:
		return nil, 0, errors.Wrapf(ErrInvalidRequest, "min length %d is below 1", req.MinLength)
	case req.MaxLength < req.MinLength:
		return nil, 0, errors.Wrapf(ErrInvalidRequest, "max length %d is below min length %d", req.MaxLength, req.MinLength)
	case req.MaxLength > candidate.MaxLength:
		return nil, 0, errors.Wrapf(ErrInvalidRequest, "max length %d exceeds %d", req.MaxLength, candidate.MaxLength)
	case req.Workers < 0:
		return nil, 0, errors.Wrapf(ErrInvalidRequest, "bad worker count %d", req.Workers)
	}
	alg, err := resolveAlgorithm(req.Algorithm, hash)
	if err != nil {
		return nil, 0, errors.Wrap(ErrInvalidRequest, err.Error())
	}
	strategyType, err := strategy.ParseStrategyName(req.Strategy)
	if err != nil {
		return nil, 0, errors.Wrap(ErrInvalidRequest, err.Error())
	}
	workers := req.Workers
	if workers == 0 {
		workers = s.workers
	}
	if maxWorkers := runtime.NumCPU(); workers > maxWorkers {
		s.l.Debug().Int("requested", workers).Int("workers", maxWorkers).Msg("capping worker count")
		workers = maxWorkers
	}
	return &strategy.Task{
		Target:           digest.Normalize(alg, hash),
		Algorithm:        alg,
		Alphabet:         []byte(req.Alphabet),
		MinLength:        req.MinLength,
		MaxLength:        req.MaxLength,
		Workers:          workers,
		Words:            req.Words,
		Progress:         s.progress,
		ProgressInterval: s.progressInterval,
	}, strategyType, nil
}

func resolveAlgorithm(name, hash string) (digest.Algorithm, error) {
	if n := strings.ToLower(strings.TrimSpace(name)); n == "" || n == autoAlgorithm {
		return digest.Detect(hash)
	}
	return digest.Parse(name)
}

func (s *Service) lookup(ctx context.Context, l zerolog.Logger, task *strategy.Task) (*messages.CrackResult, bool) {
	if s.potfile == nil {
		return nil, false
	}
	e, err := s.potfile.Get(ctx, task.Algorithm, task.Target)
	if errors.Is(err, potfile.ErrNotFound) {
		return nil, false
	}
	if err != nil {
		l.Warn().Err(err).Msg("potfile lookup failed")
		return nil, false
	}
	if !task.Algorithm.Matches([]byte(e.Plaintext), task.Target) {
		l.Warn().Str("entry", e.ID).Msg("potfile entry does not match its hash")
		return nil, false
	}
	l.Info().Msg("hash found in potfile")
	return &messages.CrackResult{
		Found:     true,
		Candidate: e.Plaintext,
		Algorithm: string(task.Algorithm.Name()),
		Source:    string(strategy.SourcePotfile),
		Length:    len(e.Plaintext),
	}, true
}

func (s *Service) remember(ctx context.Context, l zerolog.Logger, task *strategy.Task, candidate string) {
	if s.potfile == nil {
		return
	}
	if err := s.potfile.Save(ctx, potfile.NewEntry(task.Algorithm, task.Target, candidate)); err != nil {
		l.Warn().Err(err).Msg("potfile save failed")
	}
}
