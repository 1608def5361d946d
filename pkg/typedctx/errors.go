package typedctx

import (
	"errors"
	"fmt"
)

// Sentinel errors for registry access.
var (
	// ErrDuplicateKey indicates Insert was called with a key that is already present.
	ErrDuplicateKey = errors.New("key already present")

	// ErrNotFound indicates an operation referenced an absent key.
	ErrNotFound = errors.New("key not found")

	// ErrTypeMismatch indicates the stored concrete type does not match the asserted type.
	ErrTypeMismatch = errors.New("stored type does not match expected type")
)

// Sentinel errors for structured projection.
var (
	// ErrStructure indicates a value could not be projected to its structured form.
	ErrStructure = errors.New("failed to project value to structured form")

	// ErrRestructure indicates a structured value could not be rebuilt into the
	// concrete type, typically because a transform produced an incompatible shape.
	ErrRestructure = errors.New("failed to rebuild value from structured form")
)

// DuplicateKeyError reports an Insert against an existing key.
// The registry is unchanged when this error is returned.
type DuplicateKeyError struct {
	// Key is the key that was already present.
	Key string
}

// Error implements the error interface.
func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("key %q already present, use Read or WriteWith instead", e.Key)
}

// Unwrap returns ErrDuplicateKey for errors.Is support.
func (e *DuplicateKeyError) Unwrap() error {
	return ErrDuplicateKey
}

// AccessError reports a failed typed access to a registry entry.
// Err is ErrNotFound or ErrTypeMismatch; use errors.Is to branch on it.
type AccessError struct {
	// Key is the key that was accessed.
	Key string
	// Expected is the asserted type name (set for type mismatches).
	Expected string
	// Stored is the concrete type name of the entry (set for type mismatches).
	Stored string
	// Err is the underlying sentinel.
	Err error
}

// Error implements the error interface.
func (e *AccessError) Error() string {
	if errors.Is(e.Err, ErrTypeMismatch) {
		return fmt.Sprintf("value with key %q is %s, not expected type %s", e.Key, e.Stored, e.Expected)
	}
	return fmt.Sprintf("there is no entry with key %q", e.Key)
}

// Unwrap returns the underlying sentinel for errors.Is/As support.
func (e *AccessError) Unwrap() error {
	return e.Err
}
