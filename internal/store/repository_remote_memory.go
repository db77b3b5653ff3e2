package store

import (
	"context"
	"slices"
	"sync"
)

// memoryRemoteRepository keeps the reference server's records in memory.
// It is used when the server runs without a database and in tests.
type memoryRemoteRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]StoredRecord
}

func NewMemoryRemoteRepository(seed ...StoredRecord) RemoteRecordRepository {
	repo := &memoryRemoteRepository{byID: make(map[string]StoredRecord, len(seed))}
	for _, r := range seed {
		repo.put(r)
	}
	return repo
}

func (m *memoryRemoteRepository) ListRecords(_ context.Context) ([]StoredRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]StoredRecord, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.byID[id])
	}
	return out, nil
}

func (m *memoryRemoteRepository) GetRecords(_ context.Context, ids []string) (map[string]StoredRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]StoredRecord, len(ids))
	for _, id := range ids {
		if r, ok := m.byID[id]; ok {
			out[id] = r
		}
	}
	return out, nil
}

func (m *memoryRemoteRepository) ApplyChanges(ctx context.Context, upserts []StoredRecord, deleted []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range upserts {
		m.put(r)
	}
	for _, id := range deleted {
		if _, ok := m.byID[id]; !ok {
			continue
		}
		delete(m.byID, id)
		m.order = slices.DeleteFunc(m.order, func(s string) bool { return s == id })
	}
	return nil
}

func (m *memoryRemoteRepository) put(r StoredRecord) {
	if _, ok := m.byID[r.ID]; !ok {
		m.order = append(m.order, r.ID)
	}
	m.byID[r.ID] = r
}
