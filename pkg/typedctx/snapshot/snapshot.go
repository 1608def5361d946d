package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/randalmurphal/typedctx/pkg/typedctx"
)

// Version is the current snapshot format version.
// Increment when making breaking changes to the snapshot structure.
const Version = 1

// Snapshot is a persisted structured projection of registry entries.
type Snapshot struct {
	// Metadata
	Version   int       `json:"version"`
	SessionID string    `json:"session_id"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`

	// Entries maps registry keys to their structured projections.
	Entries map[string]typedctx.Value `json:"entries"`
}

// New creates a snapshot of the given entry projections.
// The snapshot ID is auto-generated.
func New(sessionID string, entries map[string]typedctx.Value) *Snapshot {
	return &Snapshot{
		Version:   Version,
		SessionID: sessionID,
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Entries:   entries,
	}
}

// Marshal serializes a snapshot to JSON.
func (s *Snapshot) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// Unmarshal deserializes a snapshot from JSON.
// Returns ErrVersionMismatch if the format version is not the current one.
func Unmarshal(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if s.Version != Version {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrVersionMismatch, s.Version, Version)
	}
	return &s, nil
}

// Capture packages the given entry projections into a snapshot and saves it.
// Entry projections come from typedctx.ReadStructured, which keeps the
// structured capability check at the caller's call site.
func Capture(store Store, sessionID string, entries map[string]typedctx.Value) (*Snapshot, error) {
	snap := New(sessionID, entries)
	data, err := snap.Marshal()
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := store.Save(sessionID, snap.ID, data); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}
	return snap, nil
}

// Load retrieves and decodes a snapshot from the store.
func Load(store Store, sessionID, snapshotID string) (*Snapshot, error) {
	data, err := store.Load(sessionID, snapshotID)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}

// Latest returns the most recent snapshot for a session.
// Returns ErrNotFound if the session has no snapshots.
func Latest(store Store, sessionID string) (*Snapshot, error) {
	infos, err := store.List(sessionID)
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, ErrNotFound
	}
	last := infos[len(infos)-1]
	return Load(store, sessionID, last.SnapshotID)
}
