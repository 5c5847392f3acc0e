// README: In-memory passenger store with a phone uniqueness index.
package passenger

import (
	"context"
	"sync"

	"hitch/internal/types"
)

type MemoryStore struct {
	mu       sync.RWMutex
	byID     map[types.ID]*Passenger
	phoneIdx map[string]types.ID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:     make(map[types.ID]*Passenger),
		phoneIdx: make(map[string]types.ID),
	}
}

func (m *MemoryStore) Create(ctx context.Context, p *Passenger) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.phoneIdx[p.Phone]; taken {
		return ErrPhoneTaken
	}
	cp := *p
	m.byID[p.ID] = &cp
	m.phoneIdx[p.Phone] = p.ID
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id types.ID) (*Passenger, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryStore) Update(ctx context.Context, p *Passenger) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byID[p.ID]
	if !ok {
		return ErrNotFound
	}
	if owner, taken := m.phoneIdx[p.Phone]; taken && owner != p.ID {
		return ErrPhoneTaken
	}
	delete(m.phoneIdx, cur.Phone)
	cp := *p
	m.byID[p.ID] = &cp
	m.phoneIdx[p.Phone] = p.ID
	return nil
}
