package typedctx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// Value is a generic structured representation of a stored value: a tree of
// map[string]any objects, []any sequences, and JSON primitive leaves
// (string, float64, bool, nil). It is the shape encoding/json produces when
// decoding into any.
type Value = any

// Structured is the capability interface for types whose values can be
// projected to and rebuilt from a structured Value. Types that are not
// meaningfully serializable simply do not implement it, which makes calling
// the structured helpers on them a compile error rather than a runtime one.
//
// Restructure mutates the receiver, so the interface is implemented on the
// pointer type. Implementations are usually two one-liners over the
// MarshalStructure/UnmarshalStructure helpers:
//
//	func (s *Stuff) Structure() (typedctx.Value, error) {
//	    return typedctx.MarshalStructure(s)
//	}
//
//	func (s *Stuff) Restructure(v typedctx.Value) error {
//	    return typedctx.UnmarshalStructure(v, s)
//	}
type Structured interface {
	// Structure returns the structured projection of the receiver.
	// It must succeed for any value reachable by normal construction.
	Structure() (Value, error)

	// Restructure overwrites the receiver from a structured value.
	// On failure the receiver is left unchanged.
	Restructure(Value) error
}

// MarshalStructure projects v into its structured form via an encoding/json
// round trip. Struct fields follow the type's json tags.
func MarshalStructure(v any) (Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStructure, err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStructure, err)
	}
	return out, nil
}

// UnmarshalStructure rebuilds out (a non-nil pointer) from a structured
// value. Unknown fields in val are rejected, since they indicate the value no
// longer matches the type's schema. The rebuild is atomic: on failure out is
// left untouched.
func UnmarshalStructure(val Value, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: destination must be a non-nil pointer, got %T", ErrRestructure, out)
	}

	data, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRestructure, err)
	}

	// Decode into a fresh value first so a failed rebuild cannot leave the
	// destination partially written.
	fresh := reflect.New(rv.Elem().Type())
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(fresh.Interface()); err != nil {
		return fmt.Errorf("%w: %v", ErrRestructure, err)
	}

	rv.Elem().Set(fresh.Elem())
	return nil
}

// ToStructured returns the structured projection of v.
func ToStructured(v Structured) (Value, error) {
	return v.Structure()
}

// UpdateStructured projects v to its structured form, applies transform, and
// rebuilds v in place from the result. If the transformed value no longer
// matches v's schema, the rebuild fails with an error wrapping ErrRestructure
// and v is left unchanged.
func UpdateStructured(v Structured, transform func(Value) Value) error {
	val, err := v.Structure()
	if err != nil {
		return err
	}
	return v.Restructure(transform(val))
}

// ReadStructured returns the structured projection of the entry at key.
// T must name the stored concrete type; the second type parameter is
// inferred and requires *T to carry the Structured capability, so entries of
// non-structured types are rejected at compile time.
//
// Unlike Read, absent key and type mismatch are reported distinctly, as a
// *AccessError wrapping ErrNotFound or ErrTypeMismatch.
func ReadStructured[T any, PT interface {
	Structured
	*T
}](r *Registry, key string) (Value, error) {
	r.mu.RLock()
	v, ok := r.entries[key]
	r.mu.RUnlock()

	if !ok {
		return nil, &AccessError{Key: key, Err: ErrNotFound}
	}
	t, ok := v.(T)
	if !ok {
		return nil, &AccessError{
			Key:      key,
			Expected: typeName[T](),
			Stored:   fmt.Sprintf("%T", v),
			Err:      ErrTypeMismatch,
		}
	}
	return PT(&t).Structure()
}

// UpdateStructuredWith applies a structured transform to the entry at key
// and persists the result, combining WriteWith and UpdateStructured. The
// registry entry is only replaced when the whole round trip succeeds.
func UpdateStructuredWith[T any, PT interface {
	Structured
	*T
}](r *Registry, key string, transform func(Value) Value) error {
	var uerr error
	if err := WriteWith(r, key, func(t *T) {
		uerr = UpdateStructured(PT(t), transform)
	}); err != nil {
		return err
	}
	return uerr
}
