package strategy

import (
	"context"
	"github.com/rs/zerolog"
	"time"
)

// autoStrategy tries the wordlist first and falls back to brute force
// over the whole length range when the list has no match.
type autoStrategy struct {
	l          zerolog.Logger
	wordlist   Strategy
	bruteForce Strategy
}

func newAutoStrategy(logger zerolog.Logger) *autoStrategy {
	return &autoStrategy{
		wordlist:   newWordlistStrategy(logger),
		bruteForce: newBruteForceStrategy(logger),
		l: logger.
			With().
			Str("domain", "hashcrack").
			Str("type", "strategy").
			Str("strategy", autoStrategyName).
			Logger(),
	}
}

func (s *autoStrategy) Crack(ctx context.Context, task *Task) (Result, error) {
	start := time.Now()
	if len(task.Words) > 0 {
		res, err := s.wordlist.Crack(ctx, task)
		if err != nil || res.Found {
			res.Elapsed = time.Since(start)
			return res, err
		}
		s.l.Debug().Int("words", len(task.Words)).Msg("wordlist exhausted, falling back to brute force")
	}
	res, err := s.bruteForce.Crack(ctx, task)
	res.Elapsed = time.Since(start)
	return res, err
}
