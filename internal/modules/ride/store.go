// README: In-memory ride store with status+version compare-and-set.
package ride

import (
	"context"
	"sort"
	"sync"
	"time"

	"hitch/internal/types"
)

type MemoryStore struct {
	mu       sync.RWMutex
	byID     map[types.ID]*Ride
	events   []*Event
	eventSeq int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[types.ID]*Ride)}
}

func (m *MemoryStore) Create(ctx context.Context, r *Ride) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.byID[r.ID] = &cp
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id types.ID) (*Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *MemoryStore) UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int, finalPrice *float64) (bool, error) {
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
	r.UpdatedAt = time.Now()
	if finalPrice != nil {
		v := *finalPrice
		r.FinalPrice = &v
	}
	return true, nil
}

func (m *MemoryStore) ListByPassenger(ctx context.Context, passengerID types.ID) ([]*Ride, error) {
	return m.list(func(r *Ride) bool { return r.PassengerID == passengerID })
}

func (m *MemoryStore) ListByDriver(ctx context.Context, driverID types.ID) ([]*Ride, error) {
	return m.list(func(r *Ride) bool { return r.DriverID == driverID })
}

func (m *MemoryStore) list(match func(*Ride) bool) ([]*Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Ride
	for _, r := range m.byID {
		if match(r) {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) HasActiveByPassenger(ctx context.Context, passengerID types.ID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.byID {
		if r.PassengerID == passengerID && !r.Status.Terminal() {
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
