package potfile

import (
	"context"
	"github.com/ykhdr/hashcrack/internal/digest"
	"sync"
)

type memoryStore struct {
	m       sync.RWMutex
	entries map[string]*Entry
}

func NewMemoryStore() Store {
	return &memoryStore{entries: make(map[string]*Entry)}
}

func (s *memoryStore) Get(_ context.Context, alg digest.Algorithm, hash string) (*Entry, error) {
	s.m.RLock()
	defer s.m.RUnlock()
	e, ok := s.entries[Key(alg.Name(), digest.Normalize(alg, hash))]
	if !ok {
		return nil, ErrNotFound
	}
	return e.Copy(), nil
}

func (s *memoryStore) Save(_ context.Context, entry *Entry) error {
	s.m.Lock()
	defer s.m.Unlock()
	s.entries[entry.ID] = entry.Copy()
	return nil
}
