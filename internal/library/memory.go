package library

import (
	"context"
	"sync"
	"time"

	"github.com/dgallion1/papervox/internal/pack"
)

type memEntry struct {
	pack    *pack.Pack
	addedAt time.Time
}

// MemoryStore is a Store that lives for the life of the process.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memEntry
	order   []string // insertion order, oldest first
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Add(_ context.Context, p *pack.Pack) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[p.ID]; ok {
		return false, nil
	}
	s.entries[p.ID] = memEntry{pack: p, addedAt: s.now().UTC()}
	s.order = append(s.order, p.ID)
	return true, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*pack.Pack, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e.pack, nil
}

func (s *MemoryStore) List(_ context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		e := s.entries[s.order[i]]
		out = append(out, Entry{Summary: e.pack.Summarize(), AddedAt: e.addedAt})
	}
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return ErrNotFound
	}
	delete(s.entries, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) Close() error { return nil }
