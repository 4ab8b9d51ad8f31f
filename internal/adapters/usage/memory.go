package usage

import (
	"context"
	"sync"

	"github.com/glintlauncher/glint/internal/ports"
)

// MemoryStore is an in-memory usage store for tests and ephemeral runs.
type MemoryStore struct {
	mu     sync.RWMutex
	counts map[string]uint64
}

// NewMemoryStore creates an empty in-memory usage store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counts: make(map[string]uint64)}
}

// Increment implements ports.UsageStore.
func (m *MemoryStore) Increment(_ context.Context, entityID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[entityID]++
	return nil
}

// Snapshot implements ports.UsageStore.
func (m *MemoryStore) Snapshot(_ context.Context) (map[string]uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[string]uint64, len(m.counts))
	for k, v := range m.counts {
		counts[k] = v
	}
	return counts, nil
}

// Close implements ports.UsageStore.
func (m *MemoryStore) Close() error {
	return nil
}

var _ ports.UsageStore = (*MemoryStore)(nil)
