package api

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"github.com/ykhdr/hashcrack/config"
	"github.com/ykhdr/hashcrack/internal/consul"
	"github.com/ykhdr/hashcrack/internal/dispatcher"
	"github.com/ykhdr/hashcrack/internal/hashcrack"
	"github.com/ykhdr/hashcrack/internal/jobstore"
	"github.com/ykhdr/hashcrack/pkg/messages"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

type registrar struct {
	services []*consul.Service
	err      error
}

func (r *registrar) Register(string, int) (string, error) {
	return "", nil
}

func (r *registrar) Deregister(string) error {
	return nil
}

func (r *registrar) Healthy(string) ([]*consul.Service, error) {
	return r.services, r.err
}

func newTestServer(t *testing.T, queueSize int, start bool, opts ...Option) *httptest.Server {
	t.Helper()
	store := jobstore.NewMemoryStore()
	d := dispatcher.New(&config.DispatcherConfig{
		RequestQueueSize: queueSize,
		DispatchTimeout:  20 * time.Millisecond,
		RequestTimeout:   time.Minute,
	}, hashcrack.NewService(hashcrack.WithWorkers(2)), store)
	if start {
		ctx, cancel := context.WithCancel(context.Background())
		t.Cleanup(cancel)
		go func() { _ = d.Start(ctx) }()
	}
	srv := httptest.NewServer(NewServer("", d, store, opts...).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func postCrack(t *testing.T, srv *httptest.Server, body string) (*http.Response, map[string]string) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/hash/crack", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	return resp, out
}

func getStatus(t *testing.T, srv *httptest.Server, id string) (int, *messages.StatusResponse) {
	t.Helper()
	resp, err := http.Get(srv.URL + "/api/hash/status?requestId=" + id)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	var out messages.StatusResponse
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, &out
}

func TestCrackAndStatus(t *testing.T) {
	srv := newTestServer(t, 4, true)
	resp, out := postCrack(t, srv, `{"hash":"`+md5Hex("ba")+`","alphabet":"abc","minLength":1,"maxLength":2}`)
	if resp.StatusCode != http.StatusOK || out["requestId"] == "" {
		t.Fatalf("status %d, body %v", resp.StatusCode, out)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type %q", ct)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		code, status := getStatus(t, srv, out["requestId"])
		if code != http.StatusOK {
			t.Fatalf("status code %d", code)
		}
		if status.Status == messages.StatusReady {
			if status.Data == nil || *status.Data != "ba" {
				t.Fatalf("unexpected data %v", status.Data)
			}
			break
		}
		if status.Status == messages.StatusError || status.Status == messages.StatusNotFound || time.Now().After(deadline) {
			t.Fatalf("unexpected status %+v", status)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCrackBadRequests(t *testing.T) {
	srv := newTestServer(t, 4, false)
	for _, body := range []string{
		`{"hash":`,
		`{"hash":"","alphabet":"abc","minLength":1,"maxLength":2}`,
		`{"hash":"` + md5Hex("a") + `","alphabet":"abc","minLength":3,"maxLength":2}`,
		`{"hash":"` + md5Hex("a") + `","algorithm":"whirlpool","alphabet":"abc","minLength":1,"maxLength":2}`,
	} {
		resp, out := postCrack(t, srv, body)
		if resp.StatusCode != http.StatusBadRequest || out["error"] == "" {
			t.Errorf("%s: status %d, body %v", body, resp.StatusCode, out)
		}
	}
}

func TestCrackQueueFull(t *testing.T) {
	srv := newTestServer(t, 1, false)
	body := `{"hash":"` + md5Hex("a") + `","alphabet":"abc","minLength":1,"maxLength":2}`
	if resp, _ := postCrack(t, srv, body); resp.StatusCode != http.StatusOK {
		t.Fatalf("first request status %d", resp.StatusCode)
	}
	if resp, _ := postCrack(t, srv, body); resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("second request status %d", resp.StatusCode)
	}
}

func TestStatusErrors(t *testing.T) {
	srv := newTestServer(t, 1, false)
	if code, _ := getStatus(t, srv, ""); code != http.StatusBadRequest {
		t.Errorf("missing id: %d", code)
	}
	if code, _ := getStatus(t, srv, "unknown"); code != http.StatusNotFound {
		t.Errorf("unknown id: %d", code)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, 1, false)
	resp, err := http.Get(srv.URL + "/api/health")
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status %d", resp.StatusCode)
	}
}

func TestWorkers(t *testing.T) {
	reg := &registrar{services: []*consul.Service{{ID: "w1", Address: "10.0.0.2", Port: 8080}}}
	srv := newTestServer(t, 1, false, WithWorkers(reg, config.WorkerServiceName))
	resp, err := http.Get(srv.URL + "/api/workers")
	if err != nil {
		t.Fatal(err)
	}
	var out map[string][]string
	_ = json.NewDecoder(resp.Body).Decode(&out)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK || len(out["workers"]) != 1 || out["workers"][0] != "http://10.0.0.2:8080" {
		t.Fatalf("status %d, body %v", resp.StatusCode, out)
	}

	down := newTestServer(t, 1, false, WithWorkers(&registrar{err: errors.New("consul down")}, config.WorkerServiceName))
	resp, err = http.Get(down.URL + "/api/workers")
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status %d when consul fails", resp.StatusCode)
	}
}
