package snapshot

import (
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory snapshot store.
// Data is lost when the process exits, which is the intended lifetime for
// session-scoped snapshots.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string]map[string]storedSnapshot // sessionID -> snapshotID -> snapshot
	closed bool
}

// storedSnapshot holds snapshot data with metadata for List().
type storedSnapshot struct {
	data      []byte
	sequence  int
	timestamp time.Time
}

// NewMemoryStore creates a new in-memory snapshot store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]map[string]storedSnapshot),
	}
}

// Save implements Store.
func (m *MemoryStore) Save(sessionID, snapshotID string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	if m.data[sessionID] == nil {
		m.data[sessionID] = make(map[string]storedSnapshot)
	}

	// Determine sequence number
	seq := 1
	for _, snap := range m.data[sessionID] {
		if snap.sequence >= seq {
			seq = snap.sequence + 1
		}
	}

	// Copy data to avoid retaining caller's slice
	stored := make([]byte, len(data))
	copy(stored, data)

	m.data[sessionID][snapshotID] = storedSnapshot{
		data:      stored,
		sequence:  seq,
		timestamp: time.Now().UTC(),
	}

	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(sessionID, snapshotID string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	session, ok := m.data[sessionID]
	if !ok {
		return nil, ErrNotFound
	}

	snap, ok := session[snapshotID]
	if !ok {
		return nil, ErrNotFound
	}

	// Return a copy to prevent modification
	result := make([]byte, len(snap.data))
	copy(result, snap.data)
	return result, nil
}

// List implements Store.
func (m *MemoryStore) List(sessionID string) ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	session, ok := m.data[sessionID]
	if !ok {
		return nil, nil
	}

	infos := make([]Info, 0, len(session))
	for snapshotID, snap := range session {
		infos = append(infos, Info{
			SessionID:  sessionID,
			SnapshotID: snapshotID,
			Sequence:   snap.sequence,
			Timestamp:  snap.timestamp,
			Size:       int64(len(snap.data)),
		})
	}

	// Sort by sequence
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Sequence < infos[j].Sequence
	})

	return infos, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(sessionID, snapshotID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	if session, ok := m.data[sessionID]; ok {
		delete(session, snapshotID)
	}
	return nil
}

// DeleteSession implements Store.
func (m *MemoryStore) DeleteSession(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.data, sessionID)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.data = nil
	return nil
}

// Len returns the total number of snapshots across all sessions.
// Useful for testing.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, session := range m.data {
		count += len(session)
	}
	return count
}
