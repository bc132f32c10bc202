package logging

import (
	"bytes"
	"encoding/json"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"os"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   DebugLevel,
		"DEBUG":   DebugLevel,
		" info ":  InfoLevel,
		"warn":    Level(zerolog.WarnLevel),
		"error":   Level(zerolog.ErrorLevel),
		"":        InfoLevel,
		"verbose": InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestSetupWritesJSON(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)
	var buf bytes.Buffer
	Setup(InfoLevel, &buf)
	log.Debug().Msg("hidden")
	log.Info().Str("domain", "test").Msg("visible")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "visible" || entry["domain"] != "test" {
		t.Errorf("unexpected entry %v", entry)
	}
	if _, ok := entry["time"]; !ok {
		t.Error("missing timestamp")
	}
	if _, ok := entry["caller"]; !ok {
		t.Error("missing caller")
	}
}

func TestOutput(t *testing.T) {
	if Output("stderr") != os.Stderr {
		t.Error("stderr not resolved")
	}
	if Output("") != os.Stdout || Output("anything") != os.Stdout {
		t.Error("default output is not stdout")
	}
}
