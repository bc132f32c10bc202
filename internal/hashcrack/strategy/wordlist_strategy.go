package strategy

import (
	"context"
	"github.com/rs/zerolog"
	"github.com/ykhdr/hashcrack/internal/wordlist"
	"time"
)

type wordlistStrategy struct {
	l zerolog.Logger
}

func newWordlistStrategy(logger zerolog.Logger) *wordlistStrategy {
	return &wordlistStrategy{
		l: logger.
			With().
			Str("domain", "hashcrack").
			Str("type", "strategy").
			Str("strategy", wordlistStrategyName).
			Logger(),
	}
}

func (s *wordlistStrategy) Crack(_ context.Context, task *Task) (Result, error) {
	s.l.Debug().
		Str("algorithm", string(task.Algorithm.Name())).
		Int("words", len(task.Words)).
		Msg("scanning wordlist")

	start := time.Now()
	word, ok := wordlist.Scan(task.Words, task.Target, task.Algorithm)
	result := Result{Elapsed: time.Since(start)}
	if ok {
		result.Candidate, result.Found, result.Source, result.Length = word, true, SourceWordlist, len(word)
	}
	return result, nil
}
