// Package snapshot provides session-scoped snapshot storage for registry state.
//
// A snapshot captures the structured projection of selected registry entries
// at a point in time, so a session can inspect or roll back to earlier state.
// Stores are keyed by session: the in-memory store (and SQLite at ":memory:")
// lives and dies with the process.
package snapshot

import (
	"errors"
	"time"
)

// Store persists snapshots for a session.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores a snapshot for a session.
	// Overwrites if a snapshot with the same (sessionID, snapshotID) exists.
	Save(sessionID, snapshotID string, data []byte) error

	// Load retrieves a snapshot.
	// Returns ErrNotFound if the snapshot doesn't exist.
	Load(sessionID, snapshotID string) ([]byte, error)

	// List returns all snapshots for a session, ordered by sequence.
	// Returns empty slice (not error) if the session has no snapshots.
	List(sessionID string) ([]Info, error)

	// Delete removes a specific snapshot.
	// Returns nil if the snapshot doesn't exist.
	Delete(sessionID, snapshotID string) error

	// DeleteSession removes all snapshots for a session.
	// Returns nil if the session has no snapshots.
	DeleteSession(sessionID string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Info provides metadata without loading full snapshot data.
type Info struct {
	SessionID  string
	SnapshotID string
	Sequence   int
	Timestamp  time.Time
	Size       int64
}

// Sentinel errors for snapshot operations.
var (
	// ErrNotFound indicates a snapshot doesn't exist.
	ErrNotFound = errors.New("snapshot not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("snapshot store closed")

	// ErrVersionMismatch indicates the snapshot format version is incompatible.
	ErrVersionMismatch = errors.New("snapshot version mismatch")
)
