// README: In-memory request store with status+version compare-and-set.
package request

import (
	"context"
	"sync"
	"time"

	"hitch/internal/types"
)

type MemoryStore struct {
	mu       sync.RWMutex
	byID     map[types.ID]*RideRequest
	events   []*Event
	eventSeq int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[types.ID]*RideRequest)}
}

func (m *MemoryStore) Create(ctx context.Context, r *RideRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.byID[r.ID] = &cp
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id types.ID) (*RideRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

// UpdateStatus applies the transition only when the stored status and
// version still match what the caller read, mirroring the SQL store's
// WHERE status = $from AND status_version = $v guard.
func (m *MemoryStore) UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok {
		return false, ErrNotFound
	}
	if r.Status != from || r.StatusVersion != version {
		return false, nil
	}
	r.Status = to
	r.StatusVersion++
	return true, nil
}

func (m *MemoryStore) ListByStatus(ctx context.Context, st Status) ([]*RideRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*RideRequest
	for _, r := range m.byID {
		if r.Status == st {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MemoryStore) HasActiveByPassenger(ctx context.Context, passengerID types.ID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.byID {
		if r.PassengerID == passengerID && r.Status == StatusSearching {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) AppendEvent(ctx context.Context, e *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventSeq++
	cp := *e
	cp.ID = m.eventSeq
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	m.events = append(m.events, &cp)
	return nil
}
