// Package bruteforce enumerates every candidate of each length in a range,
// splitting the index space of a length across parallel workers that stop
// as soon as one of them finds a match.
package bruteforce

import (
	"context"
	"github.com/pkg/errors"
	"github.com/ykhdr/hashcrack/internal/candidate"
	"golang.org/x/sync/errgroup"
	"sync"
	"sync/atomic"
	"time"
)

const (
	DefaultProgressInterval uint64 = 100_000

	// ctxPollMask sets how often a worker looks at its context.
	ctxPollMask = 1<<12 - 1
)

var (
	ErrInvalidOptions      = errors.New("invalid brute-force options")
	ErrSearchSpaceTooLarge = errors.New("search space does not fit in 64 bits")
)

// Comparator is satisfied by digest.Algorithm.
type Comparator interface {
	Matches(candidate []byte, target string) bool
}

// Progress is reported by workers while a length is being searched.
// Checked is the number of candidates of Length tried so far by all
// workers, rounded down to the reporting interval.
type Progress struct {
	Length  int
	Checked uint64
	Total   uint64
	Elapsed time.Duration
}

type ProgressFunc func(Progress)

type Options struct {
	Alphabet   []byte
	Target     string
	Comparator Comparator
	MinLength  int
	MaxLength  int
	Workers    int

	// Progress, when set, is called by each worker at most once per
	// ProgressInterval indices. It may be called concurrently.
	Progress         ProgressFunc
	ProgressInterval uint64
}

type Result struct {
	Candidate string
	Found     bool
	Length    int
	// Checked counts candidates compared over every length and worker.
	Checked uint64
}

func (o *Options) validate() error {
	switch {
	case len(o.Alphabet) == 0:
		return errors.Wrap(ErrInvalidOptions, "empty alphabet")
	case o.MinLength < 1 || o.MaxLength < o.MinLength:
		return errors.Wrapf(ErrInvalidOptions, "bad length range [%d, %d]", o.MinLength, o.MaxLength)
	case o.MaxLength > candidate.MaxLength:
		return errors.Wrapf(ErrInvalidOptions, "max length %d exceeds %d", o.MaxLength, candidate.MaxLength)
	case o.Workers < 1:
		return errors.Wrapf(ErrInvalidOptions, "bad worker count %d", o.Workers)
	case o.Comparator == nil:
		return errors.Wrap(ErrInvalidOptions, "no comparator")
	}
	if _, ok := candidate.Total(len(o.Alphabet), o.MaxLength); !ok {
		return errors.Wrapf(ErrSearchSpaceTooLarge, "%d symbols, length %d", len(o.Alphabet), o.MaxLength)
	}
	return nil
}

// cell holds the cancellation flag and the result of one Run. Only the
// worker that flips found from false to true writes the candidate.
type cell struct {
	found     atomic.Bool
	m         sync.Mutex
	candidate string
}

func (c *cell) claim(candidate []byte) bool {
	if !c.found.CompareAndSwap(false, true) {
		return false
	}
	c.m.Lock()
	c.candidate = string(candidate)
	c.m.Unlock()
	return true
}

func (c *cell) result() (string, bool) {
	c.m.Lock()
	defer c.m.Unlock()
	return c.candidate, c.found.Load()
}

type search struct {
	opts     *Options
	interval uint64
	cell     cell
}

// Run searches lengths MinLength..MaxLength in increasing order and returns
// at the first length that yields a match. Not finding anything is not an
// error. ctx is only consulted to abandon the run early.
func Run(ctx context.Context, opts Options) (Result, error) {
	if err := opts.validate(); err != nil {
		return Result{}, err
	}
	s := &search{opts: &opts, interval: opts.ProgressInterval}
	if s.interval == 0 {
		s.interval = DefaultProgressInterval
	}
	var res Result
	for length := opts.MinLength; length <= opts.MaxLength; length++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		total, _ := candidate.Total(len(opts.Alphabet), length)
		checked, err := s.searchLength(ctx, length, total)
		res.Checked += checked
		if c, found := s.cell.result(); found {
			res.Candidate, res.Found, res.Length = c, true, length
			return res, nil
		}
		if err != nil {
			return res, err
		}
	}
	return res, nil
}

// searchLength runs one worker per range and waits for all of them.
func (s *search) searchLength(ctx context.Context, length int, total uint64) (uint64, error) {
	var (
		g          errgroup.Group
		checked    atomic.Uint64
		progressed atomic.Uint64
	)
	started := time.Now()
	for _, r := range Partition(total, s.opts.Workers) {
		g.Go(func() error {
			n, err := s.scan(ctx, r, length, total, started, &progressed)
			checked.Add(n)
			return err
		})
	}
	err := g.Wait()
	return checked.Load(), err
}

func (s *search) scan(
	ctx context.Context, r Range, length int, total uint64, started time.Time, progressed *atomic.Uint64,
) (uint64, error) {
	buf := make([]byte, length)
	alphabet, target, cmp := s.opts.Alphabet, s.opts.Target, s.opts.Comparator
	var checked uint64
	lastReport := r.Start
	for i := r.Start; i < r.End; i++ {
		if s.cell.found.Load() {
			break
		}
		if (i-r.Start)&ctxPollMask == ctxPollMask {
			if err := ctx.Err(); err != nil {
				return checked, err
			}
		}
		c := candidate.Encode(buf, i, alphabet)
		checked++
		if cmp.Matches(c, target) {
			s.cell.claim(c)
			break
		}
		if s.opts.Progress != nil && i-lastReport >= s.interval {
			s.opts.Progress(Progress{
				Length:  length,
				Checked: progressed.Add(i - lastReport),
				Total:   total,
				Elapsed: time.Since(started),
			})
			lastReport = i
		}
	}
	return checked, nil
}
