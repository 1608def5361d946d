package config

import (
	"fmt"

	"github.com/randalmurphal/typedctx/pkg/typedctx"
)

// EntryFactory builds a registry entry from its declared structured value.
type EntryFactory func(val typedctx.Value) (any, error)

// Factory returns an EntryFactory for a structured-capable type T.
// The declared value is rebuilt through the type's Restructure method, so a
// declaration that does not match T's schema fails the seed.
func Factory[T any, PT interface {
	typedctx.Structured
	*T
}]() EntryFactory {
	return func(val typedctx.Value) (any, error) {
		var t T
		if err := PT(&t).Restructure(val); err != nil {
			return nil, err
		}
		return t, nil
	}
}

// Seed inserts the entries declared under the "entries" key of cfg into the
// registry. Each entry names its type and its structured value:
//
//	entries:
//	  stuff:
//	    type: stuff
//	    value:
//	      foo: 42
//	      bar: hello
//
// factories maps declared type names to constructors; unknown type names and
// duplicate keys fail the seed. The registry may be left partially seeded on
// failure, matching Insert's per-key semantics.
func Seed(r *typedctx.Registry, cfg Config, factories map[string]EntryFactory) error {
	entries := cfg.Map("entries", nil)
	for key, decl := range entries {
		spec, ok := decl.(map[string]any)
		if !ok {
			return fmt.Errorf("entry %q: expected a mapping, got %T", key, decl)
		}

		entry := New(spec)
		typeName := entry.String("type", "")
		if typeName == "" {
			return fmt.Errorf("entry %q: missing type", key)
		}
		factory, ok := factories[typeName]
		if !ok {
			return fmt.Errorf("entry %q: unknown type %q", key, typeName)
		}

		value, err := factory(entry.Any("value", nil))
		if err != nil {
			return fmt.Errorf("entry %q: %w", key, err)
		}
		if err := r.Insert(key, value); err != nil {
			return fmt.Errorf("entry %q: %w", key, err)
		}
	}
	return nil
}
