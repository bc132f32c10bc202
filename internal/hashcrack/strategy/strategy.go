package strategy

import (
	"context"
	"github.com/ykhdr/hashcrack/internal/bruteforce"
	"github.com/ykhdr/hashcrack/internal/digest"
	"time"
)

type Source string

const (
	SourceNone       Source = ""
	SourceWordlist   Source = "wordlist"
	SourceBruteForce Source = "brute-force"
	SourcePotfile    Source = "potfile"
)

// Task is a validated search request. Alphabet, Target and Words are
// shared read-only with every worker and must not change while Crack runs.
type Task struct {
	Target    string
	Algorithm digest.Algorithm
	Alphabet  []byte
	MinLength int
	MaxLength int
	Workers   int
	Words     []string

	Progress         bruteforce.ProgressFunc
	ProgressInterval uint64
}

type Result struct {
	Candidate string
	Found     bool
	Source    Source
	Length    int
	Checked   uint64
	Elapsed   time.Duration
}

type Strategy interface {
	Crack(ctx context.Context, task *Task) (Result, error)
}
