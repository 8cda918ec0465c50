package cart

import (
	"context"
	"sync"
)

// MemoryRecordStore keeps the cart record in process memory. It backs tests
// and ephemeral runs where durability is not wanted.
type MemoryRecordStore struct {
	mu     sync.Mutex
	value  []byte
	exists bool
}

// NewMemoryRecordStore creates an empty in-memory record store.
func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{}
}

func (m *MemoryRecordStore) Read(ctx context.Context) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.exists {
		return nil, false, nil
	}
	value := make([]byte, len(m.value))
	copy(value, m.value)
	return value, true, nil
}

func (m *MemoryRecordStore) Write(ctx context.Context, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.value = make([]byte, len(value))
	copy(m.value, value)
	m.exists = true
	return nil
}

func (m *MemoryRecordStore) Delete(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.value = nil
	m.exists = false
	return nil
}
