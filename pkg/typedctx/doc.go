/*
Package typedctx provides a keyed in-memory store for heterogeneous typed
values with type-checked access and an opt-in structured projection.

# Overview

A Registry maps unique string keys to values of arbitrary concrete types.
The static type is erased at the Insert boundary and re-asserted on every
typed access, so a mismatch between what a caller expects and what an entry
holds is a handled failure, never undefined behavior.

The design has three deliberate properties:

  - Reads cannot mutate. Read hands back a copy of the entry, so locally
    modifying the result never changes what the registry holds.
  - Writes go through one door. WriteWith is the only operation that
    persists a change: it runs a caller-supplied mutator against the entry
    under the registry's write lock and stores the result back.
  - Structured access is a property of the type, not the registry. Types
    that implement Structured can be projected to a generic Value tree and
    rebuilt from it; types that opt out simply lack the methods, and the
    structured helpers will not compile against them.

# Basic Usage

Insert, read, and mutate entries:

	type Stuff struct {
	    Foo int    `json:"foo"`
	    Bar string `json:"bar"`
	}

	reg := typedctx.New()
	if err := reg.Insert("stuff", Stuff{Foo: 42, Bar: "hello"}); err != nil {
	    log.Fatal(err)
	}

	// Typed read returns a copy.
	s, ok := typedctx.Read[Stuff](reg, "stuff")

	// WriteWith persists a mutation.
	err := typedctx.WriteWith(reg, "stuff", func(s *Stuff) {
	    s.Bar = "persisted"
	})

Read returns false both for a missing key and for a wrong asserted type; the
two cases are intentionally collapsed. WriteWith reports them distinctly via
*AccessError, wrapping ErrNotFound or ErrTypeMismatch.

# Structured Projection

Types opting into structured access implement the two Structured methods,
usually via the MarshalStructure/UnmarshalStructure helpers:

	func (s *Stuff) Structure() (typedctx.Value, error) {
	    return typedctx.MarshalStructure(s)
	}

	func (s *Stuff) Restructure(v typedctx.Value) error {
	    return typedctx.UnmarshalStructure(v, s)
	}

That unlocks schema-agnostic inspection and transformation:

	val, err := typedctx.ReadStructured[Stuff](reg, "stuff")

	err = typedctx.UpdateStructuredWith[Stuff](reg, "stuff", func(v typedctx.Value) typedctx.Value {
	    obj := v.(map[string]any)
	    obj["foo"] = 1
	    return obj
	})

A type without the capability can still be inserted, read, and written, but
the structured helpers reject it at compile time.

# Thread Safety

All operations are safe for concurrent use. WriteWith holds the write lock
for the duration of the mutator, which gives the mutator exclusive access to
the entry; mutators must not call back into the same registry.
*/
package typedctx
