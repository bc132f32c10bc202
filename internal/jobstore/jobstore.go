package jobstore

import (
	"context"
	"github.com/pkg/errors"
	"github.com/ykhdr/hashcrack/internal/job"
	"sync"
)

var ErrNotFound = errors.New("job not found")

type Store interface {
	Get(ctx context.Context, id job.Id) (*job.Info, error)
	Save(ctx context.Context, info *job.Info) error
	Delete(ctx context.Context, id job.Id) error
}

type memoryStore struct {
	m    sync.RWMutex
	data map[job.Id]*job.Info
}

func NewMemoryStore() Store {
	return &memoryStore{data: make(map[job.Id]*job.Info)}
}

func (s *memoryStore) Get(_ context.Context, id job.Id) (*job.Info, error) {
	s.m.RLock()
	defer s.m.RUnlock()
	info, ok := s.data[id]
	if !ok {
		return nil, ErrNotFound
	}
	return info.Copy(), nil
}

func (s *memoryStore) Save(_ context.Context, info *job.Info) error {
	s.m.Lock()
	defer s.m.Unlock()
	s.data[info.ID] = info.Copy()
	return nil
}

func (s *memoryStore) Delete(_ context.Context, id job.Id) error {
	s.m.Lock()
	defer s.m.Unlock()
	delete(s.data, id)
	return nil
}
