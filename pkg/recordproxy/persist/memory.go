package persist

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps documents in process memory. Data is lost when the
// process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	name   string
	docs   map[string]storedDoc
	closed bool
}

type storedDoc struct {
	data     []byte
	revision int64
	updated  time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string]storedDoc),
	}
}

// Put implements Store.
func (m *MemoryStore) Put(_ context.Context, key string, doc []byte) (Info, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return Info{}, ErrStoreClosed
	}

	// Copy to avoid retaining the caller's slice.
	stored := make([]byte, len(doc))
	copy(stored, doc)

	d := storedDoc{
		data:     stored,
		revision: m.docs[key].revision + 1,
		updated:  time.Now().UTC(),
	}
	m.docs[key] = d
	return d.info(key), nil
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	d, ok := m.docs[key]
	if !ok {
		return nil, ErrNotFound
	}
	result := make([]byte, len(d.data))
	copy(result, d.data)
	return result, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	if _, ok := m.docs[key]; !ok {
		return ErrNotFound
	}
	delete(m.docs, key)
	return nil
}

// List implements Store.
func (m *MemoryStore) List(_ context.Context, prefix string) ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	infos := make([]Info, 0, len(m.docs))
	for key, d := range m.docs {
		if strings.HasPrefix(key, prefix) {
			infos = append(infos, d.info(key))
		}
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Key < infos[j].Key
	})
	return infos, nil
}

// Close implements Store. Closing a shared store opened by name removes it
// from the shared set.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	m.docs = nil
	if m.name != "" {
		sharedMemory.Remove(m.name)
	}
	return nil
}

// Len returns the number of stored documents.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

func (d storedDoc) info(key string) Info {
	return Info{
		Key:      key,
		Revision: d.revision,
		Updated:  d.updated,
		Size:     int64(len(d.data)),
	}
}
