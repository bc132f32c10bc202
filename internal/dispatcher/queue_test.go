package dispatcher

import (
	"context"
	"errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/ykhdr/hashcrack/internal/amqp/publisher"
	"github.com/ykhdr/hashcrack/internal/jobstore"
	"github.com/ykhdr/hashcrack/pkg/messages"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

type tasks struct {
	sent chan *messages.CrackTaskMessage
	err  error
}

func newTasks() *tasks {
	return &tasks{sent: make(chan *messages.CrackTaskMessage, 4)}
}

func (p *tasks) SendMessage(_ context.Context, msg *messages.CrackTaskMessage, _ publisher.DeliveryMode) error {
	if p.err != nil {
		return p.err
	}
	p.sent <- msg
	return nil
}

type acknowledger struct {
	acked atomic.Bool
}

func (a *acknowledger) Ack(uint64, bool) error {
	a.acked.Store(true)
	return nil
}

func (a *acknowledger) Nack(uint64, bool, bool) error { return nil }

func (a *acknowledger) Reject(uint64, bool) error { return nil }

// answer replies to the next published task with res and reports whether
// the delivery was acknowledged.
func answer(q *QueueCracker, pub *tasks, res messages.CrackTaskResult) <-chan bool {
	acked := make(chan bool, 1)
	go func() {
		msg := <-pub.sent
		res.RequestId = msg.RequestId
		a := &acknowledger{}
		err := q.HandleResult(context.Background(), &res, amqp.Delivery{Acknowledger: a})
		acked <- err == nil && a.acked.Load()
	}()
	return acked
}

func pendingCount(q *QueueCracker) int {
	q.m.Lock()
	defer q.m.Unlock()
	return len(q.pending)
}

func TestQueueCrackerResults(t *testing.T) {
	cases := []struct {
		name   string
		result messages.CrackTaskResult
		found  bool
		err    error
	}{
		{"ready", messages.CrackTaskResult{Status: messages.StatusReady, Found: []string{"abc"}, Algorithm: "md5", Checked: 12}, true, nil},
		{"not found", messages.CrackTaskResult{Status: messages.StatusNotFound, Found: []string{}, Checked: 39}, false, nil},
		{"error", messages.CrackTaskResult{Status: messages.StatusError, Reason: "unknown algorithm"}, false, ErrTaskFailed},
		{"ready without candidate", messages.CrackTaskResult{Status: messages.StatusReady}, false, ErrTaskFailed},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			pub := newTasks()
			q := newQueueCracker(&cracker{}, pub)
			acked := answer(q, pub, c.result)
			res, err := q.Crack(context.Background(), &messages.CrackRequest{Hash: "h", Alphabet: "abc", MinLength: 1, MaxLength: 3})
			if !<-acked {
				t.Error("result was not acknowledged")
			}
			if c.err != nil {
				if !errors.Is(err, c.err) {
					t.Fatalf("expected %v, got %v", c.err, err)
				}
				if c.result.Reason != "" && !strings.Contains(err.Error(), c.result.Reason) {
					t.Errorf("reason lost: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if res.Found != c.found || res.Checked != c.result.Checked || res.Algorithm != c.result.Algorithm {
				t.Fatalf("got %+v", res)
			}
			if c.found && res.Candidate != "abc" {
				t.Errorf("candidate %q", res.Candidate)
			}
			if n := pendingCount(q); n != 0 {
				t.Errorf("%d requests still pending", n)
			}
		})
	}
}

func TestQueueCrackerPublishesTask(t *testing.T) {
	pub := newTasks()
	q := newQueueCracker(&cracker{}, pub)
	req := &messages.CrackRequest{Hash: "h", Algorithm: "sha1", Alphabet: "xyz", MinLength: 2, MaxLength: 4, Words: []string{"w"}}
	ok := make(chan bool)
	go func() {
		msg := <-pub.sent
		got := msg.Request(1)
		ok <- msg.RequestId != "" && got.Hash == "h" && got.Algorithm == "sha1" && got.Alphabet == "xyz" &&
			got.MinLength == 2 && got.MaxLength == 4 && len(got.Words) == 1
	}()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, _ = q.Crack(ctx, req)
	if !<-ok {
		t.Error("published task does not carry the request")
	}
}

func TestQueueCrackerTimeout(t *testing.T) {
	pub := newTasks()
	q := newQueueCracker(&cracker{}, pub)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := q.Crack(ctx, &messages.CrackRequest{Hash: "h"}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
	if n := pendingCount(q); n != 0 {
		t.Fatalf("%d requests still pending", n)
	}

	// the late result is acknowledged and dropped
	msg := <-pub.sent
	a := &acknowledger{}
	late := &messages.CrackTaskResult{RequestId: msg.RequestId, Status: messages.StatusReady, Found: []string{"x"}}
	if err := q.HandleResult(context.Background(), late, amqp.Delivery{Acknowledger: a}); err != nil || !a.acked.Load() {
		t.Errorf("late result: err %v, acked %v", err, a.acked.Load())
	}
}

func TestQueueCrackerPublishFailure(t *testing.T) {
	pub := newTasks()
	pub.err = errors.New("broker down")
	q := newQueueCracker(&cracker{}, pub)
	if _, err := q.Crack(context.Background(), &messages.CrackRequest{Hash: "h"}); err == nil {
		t.Fatal("expected error")
	}
	if n := pendingCount(q); n != 0 {
		t.Errorf("%d requests still pending", n)
	}
}

func TestDispatchOverQueue(t *testing.T) {
	store := jobstore.NewMemoryStore()
	pub := newTasks()
	q := newQueueCracker(&cracker{}, pub)
	d := New(testConfig(2), q, store)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = d.Start(ctx) }()

	if _, err := d.Dispatch(ctx, &messages.CrackRequest{}); !errors.Is(err, errInvalid) {
		t.Fatalf("expected validation error, got %v", err)
	}
	acked := answer(q, pub, messages.CrackTaskResult{Status: messages.StatusReady, Found: []string{"cab"}, Source: "brute-force"})
	id, err := d.Dispatch(ctx, &messages.CrackRequest{Hash: "h", Alphabet: "abc", MinLength: 1, MaxLength: 3})
	if err != nil {
		t.Fatal(err)
	}
	info := waitDone(t, store, id)
	if info.Status != messages.StatusReady || info.Result.Candidate != "cab" || info.Result.Source != "brute-force" {
		t.Errorf("unexpected job %+v", info)
	}
	if !<-acked {
		t.Error("result was not acknowledged")
	}
}
