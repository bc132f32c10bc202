package mongo

import (
	"bytes"
	"encoding/json"
	"errors"
	"github.com/rs/zerolog"
	"testing"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	buf.Reset()
	return entry
}

func TestLogSinkLevels(t *testing.T) {
	var buf bytes.Buffer
	sink := newLogSink(zerolog.New(&buf).Level(zerolog.DebugLevel))

	sink.Info(1, "connected", "host", "mongo:27017", "attempt", 2)
	entry := decodeLine(t, &buf)
	if entry["level"] != "info" || entry["host"] != "mongo:27017" || entry["attempt"] != float64(2) {
		t.Errorf("unexpected info entry %v", entry)
	}

	sink.Info(2, "command started", "odd")
	entry = decodeLine(t, &buf)
	if entry["level"] != "debug" {
		t.Errorf("unexpected debug entry %v", entry)
	}
	if v, ok := entry["odd"]; !ok || v != nil {
		t.Errorf("dangling key should be logged as null, got %v", entry)
	}

	sink.Info(3, "ignored")
	if buf.Len() != 0 {
		t.Errorf("level 3 should be dropped, got %q", buf.String())
	}

	sink.Error(errors.New("boom"), "failed", 42, "skipped", "db", "hashcrack")
	entry = decodeLine(t, &buf)
	if entry["level"] != "error" || entry["error"] != "boom" || entry["db"] != "hashcrack" {
		t.Errorf("unexpected error entry %v", entry)
	}
}
