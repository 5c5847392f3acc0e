// README: In-memory driver store with availability compare-and-set.
package driver

import (
	"context"
	"sync"

	"hitch/internal/types"
)

type MemoryStore struct {
	mu       sync.RWMutex
	byID     map[types.ID]*Driver
	phoneIdx map[string]types.ID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:     make(map[types.ID]*Driver),
		phoneIdx: make(map[string]types.ID),
	}
}

func (m *MemoryStore) Create(ctx context.Context, d *Driver) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.phoneIdx[d.Phone]; taken {
		return ErrPhoneTaken
	}
	cp := *d
	m.byID[d.ID] = &cp
	m.phoneIdx[d.Phone] = d.ID
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id types.ID) (*Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *MemoryStore) Update(ctx context.Context, d *Driver) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byID[d.ID]
	if !ok {
		return ErrNotFound
	}
	if owner, taken := m.phoneIdx[d.Phone]; taken && owner != d.ID {
		return ErrPhoneTaken
	}
	delete(m.phoneIdx, cur.Phone)
	// availability stays whatever the registry holds, not what the caller sent
	cp := *d
	cp.Available = cur.Available
	m.byID[d.ID] = &cp
	m.phoneIdx[d.Phone] = d.ID
	return nil
}

func (m *MemoryStore) SetAvailability(ctx context.Context, id types.ID, from, to bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.byID[id]
	if !ok {
		return false, ErrNotFound
	}
	if d.Available != from {
		return false, nil
	}
	d.Available = to
	return true, nil
}
