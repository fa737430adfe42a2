package persist

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	data    []byte
	updated time.Time
}

// MemoryStore keeps slots in memory. Used for tests and when saving is off.
type MemoryStore struct {
	mu    sync.Mutex
	slots map[string]memEntry
	now   func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		slots: make(map[string]memEntry),
		now:   time.Now,
	}
}

func (s *MemoryStore) Load(_ context.Context, slot string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.slots[slot]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(e.data))
	copy(out, e.data)
	return out, nil
}

func (s *MemoryStore) Save(_ context.Context, slot string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, len(data))
	copy(buf, data)
	s.slots[slot] = memEntry{data: buf, updated: s.now()}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.slots, slot)
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]SlotInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots := make([]SlotInfo, 0, len(s.slots))
	for name, e := range s.slots {
		slots = append(slots, SlotInfo{Slot: name, UpdatedAt: e.updated})
	}
	sortSlots(slots)
	return slots, nil
}

func (s *MemoryStore) Close() error { return nil }
