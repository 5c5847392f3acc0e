// README: In-memory roster of available drivers per category.
package matching

import (
	"context"
	"sync"

	"hitch/internal/observability"
	"hitch/internal/types"
)

// Roster tracks which drivers are free for matching, keyed by category.
// The driver registry keeps it current through its claim/release path.
type Roster interface {
	Add(ctx context.Context, id types.ID, cat types.Category) error
	Remove(ctx context.Context, id types.ID) error
	List(ctx context.Context, cat types.Category) ([]types.ID, error)
}

type MemoryRoster struct {
	mu   sync.RWMutex
	byID map[types.ID]types.Category
}

func NewMemoryRoster() *MemoryRoster {
	return &MemoryRoster{byID: make(map[types.ID]types.Category)}
}

func (m *MemoryRoster) Add(ctx context.Context, id types.ID, cat types.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		observability.DriversAvailable.Inc()
	}
	m.byID[id] = cat
	return nil
}

func (m *MemoryRoster) Remove(ctx context.Context, id types.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; ok {
		observability.DriversAvailable.Dec()
		delete(m.byID, id)
	}
	return nil
}

func (m *MemoryRoster) List(ctx context.Context, cat types.Category) ([]types.ID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []types.ID
	for id, c := range m.byID {
		if c == cat {
			out = append(out, id)
		}
	}
	return out, nil
}
