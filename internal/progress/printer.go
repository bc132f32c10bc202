// Package progress renders search progress as a single terminal line.
package progress

import (
	"fmt"
	"github.com/ykhdr/hashcrack/internal/bruteforce"
	"io"
	"sync"
	"time"
)

// Printer serializes progress reports from concurrent workers. Reports that
// are older than the last printed one for the same length are dropped.
type Printer struct {
	m       sync.Mutex
	w       io.Writer
	length  int
	checked uint64
	dirty   bool
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Report is a bruteforce.ProgressFunc.
func (p *Printer) Report(pr bruteforce.Progress) {
	p.m.Lock()
	defer p.m.Unlock()
	if pr.Length == p.length && pr.Checked <= p.checked {
		return
	}
	p.length, p.checked, p.dirty = pr.Length, pr.Checked, true
	_, _ = fmt.Fprintf(p.w, "\r%s", Line(pr))
}

// Done ends the progress line, if one was printed.
func (p *Printer) Done() {
	p.m.Lock()
	defer p.m.Unlock()
	if p.dirty {
		_, _ = fmt.Fprintln(p.w)
		p.dirty = false
	}
}

func Line(pr bruteforce.Progress) string {
	var percent float64
	if pr.Total > 0 {
		percent = float64(pr.Checked) / float64(pr.Total) * 100
	}
	var rate float64
	if secs := pr.Elapsed.Seconds(); secs > 0 {
		rate = float64(pr.Checked) / secs
	}
	eta := "?"
	if rate > 0 && pr.Total >= pr.Checked {
		eta = (time.Duration(float64(pr.Total-pr.Checked) / rate * float64(time.Second))).Round(time.Second).String()
	}
	return fmt.Sprintf("length %d: %5.1f%% %d/%d %.0f/s eta %s",
		pr.Length, percent, pr.Checked, pr.Total, rate, eta)
}
