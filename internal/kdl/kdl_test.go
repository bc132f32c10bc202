package kdl

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type settings struct {
	Name  string `kdl:"name"`
	Count int    `kdl:"count"`
}

func TestDecodeKeepsDefaults(t *testing.T) {
	got, err := Decode([]byte(`count 7`), settings{Name: "default", Count: 1})
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "default" || got.Count != 7 {
		t.Errorf("got %+v", got)
	}
}

func TestDecodeInvalid(t *testing.T) {
	defaults := settings{Name: "default"}
	got, err := Decode([]byte(`count {`), defaults)
	if err == nil {
		t.Fatal("expected an error")
	}
	if got != defaults {
		t.Errorf("defaults not returned on error: %+v", got)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.kdl")
	if err := os.WriteFile(path, []byte("name \"file\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path, settings{Count: 2})
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "file" || got.Count != 2 {
		t.Errorf("got %+v", got)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.kdl"), settings{}); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}
