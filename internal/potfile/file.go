package potfile

import (
	"bufio"
	"context"
	"encoding/hex"
	"fmt"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/ykhdr/hashcrack/internal/digest"
	"os"
	"strings"
	"sync"
	"time"
)

const hexPrefix, hexSuffix = "$HEX[", "]"

// fileStore keeps entries in an append-only text file, one
// "algorithm:hash:plaintext" line per entry. Plaintexts that are not
// printable ASCII are written as $HEX[...].
type fileStore struct {
	l       zerolog.Logger
	path    string
	m       sync.RWMutex
	entries map[string]*Entry
}

func OpenFileStore(path string) (Store, error) {
	s := &fileStore{
		path:    path,
		entries: make(map[string]*Entry),
		l: log.With().
			Str("domain", "potfile").
			Str("path", path).
			Logger(),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *fileStore) load() error {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "open potfile")
	}
	defer func() { _ = f.Close() }()
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		if sc.Text() == "" {
			continue
		}
		e, err := parseLine(sc.Text())
		if err != nil {
			s.l.Warn().Err(err).Int("line", line).Msg("skipping potfile line")
			continue
		}
		s.entries[e.ID] = e
	}
	if err := sc.Err(); err != nil {
		return errors.Wrap(err, "read potfile")
	}
	s.l.Debug().Int("entries", len(s.entries)).Msg("potfile loaded")
	return nil
}

func (s *fileStore) Get(_ context.Context, alg digest.Algorithm, hash string) (*Entry, error) {
	s.m.RLock()
	defer s.m.RUnlock()
	e, ok := s.entries[Key(alg.Name(), digest.Normalize(alg, hash))]
	if !ok {
		return nil, ErrNotFound
	}
	return e.Copy(), nil
}

func (s *fileStore) Save(_ context.Context, entry *Entry) error {
	s.m.Lock()
	defer s.m.Unlock()
	if old, ok := s.entries[entry.ID]; ok && old.Plaintext == entry.Plaintext {
		return nil
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return errors.Wrap(err, "open potfile for append")
	}
	if _, err := fmt.Fprintln(f, formatLine(entry)); err != nil {
		_ = f.Close()
		return errors.Wrap(err, "append potfile entry")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "close potfile")
	}
	s.entries[entry.ID] = entry.Copy()
	return nil
}

func formatLine(e *Entry) string {
	return string(e.Algorithm) + ":" + e.Hash + ":" + encodePlaintext(e.Plaintext)
}

func parseLine(line string) (*Entry, error) {
	parts := strings.SplitN(line, ":", 3)
	if len(parts) != 3 {
		return nil, errors.New("expected algorithm:hash:plaintext")
	}
	alg, err := digest.Parse(parts[0])
	if err != nil {
		return nil, err
	}
	plaintext, err := decodePlaintext(parts[2])
	if err != nil {
		return nil, err
	}
	e := NewEntry(alg, parts[1], plaintext)
	e.CrackedAt = time.Time{}
	return e, nil
}

func encodePlaintext(p string) string {
	if strings.HasPrefix(p, hexPrefix) {
		return hexPrefix + hex.EncodeToString([]byte(p)) + hexSuffix
	}
	for i := 0; i < len(p); i++ {
		if p[i] < 0x20 || p[i] > 0x7e {
			return hexPrefix + hex.EncodeToString([]byte(p)) + hexSuffix
		}
	}
	return p
}

func decodePlaintext(p string) (string, error) {
	if !strings.HasPrefix(p, hexPrefix) || !strings.HasSuffix(p, hexSuffix) {
		return p, nil
	}
	raw, err := hex.DecodeString(p[len(hexPrefix) : len(p)-len(hexSuffix)])
	if err != nil {
		return "", errors.Wrap(err, "decode $HEX plaintext")
	}
	return string(raw), nil
}
