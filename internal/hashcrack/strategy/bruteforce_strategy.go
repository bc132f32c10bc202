package strategy

import (
	"context"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/ykhdr/hashcrack/internal/bruteforce"
	"time"
)

type bruteForceStrategy struct {
	l zerolog.Logger
}

func newBruteForceStrategy(logger zerolog.Logger) *bruteForceStrategy {
	return &bruteForceStrategy{
		l: logger.
			With().
			Str("domain", "hashcrack").
			Str("type", "strategy").
			Str("strategy", bruteForceStrategyName).
			Logger(),
	}
}

func (s *bruteForceStrategy) Crack(ctx context.Context, task *Task) (Result, error) {
	s.l.Debug().
		Str("algorithm", string(task.Algorithm.Name())).
		Int("alphabet-size", len(task.Alphabet)).
		Int("min-length", task.MinLength).
		Int("max-length", task.MaxLength).
		Int("workers", task.Workers).
		Msg("cracking hash")

	start := time.Now()
	res, err := bruteforce.Run(ctx, bruteforce.Options{
		Alphabet:         task.Alphabet,
		Target:           task.Target,
		Comparator:       task.Algorithm,
		MinLength:        task.MinLength,
		MaxLength:        task.MaxLength,
		Workers:          task.Workers,
		Progress:         task.Progress,
		ProgressInterval: task.ProgressInterval,
	})
	result := Result{
		Candidate: res.Candidate,
		Found:     res.Found,
		Length:    res.Length,
		Checked:   res.Checked,
		Elapsed:   time.Since(start),
	}
	if err != nil {
		return result, errors.Wrap(err, "brute force")
	}
	if res.Found {
		result.Source = SourceBruteForce
		s.l.Debug().Int("length", res.Length).Uint64("checked", res.Checked).Msg("found candidate")
	}
	return result, nil
}
