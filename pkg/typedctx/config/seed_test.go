package config_test

import (
	"testing"

	"github.com/randalmurphal/typedctx/pkg/typedctx"
	"github.com/randalmurphal/typedctx/pkg/typedctx/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seedStuff struct {
	Foo int    `json:"foo"`
	Bar string `json:"bar"`
}

func (s *seedStuff) Structure() (typedctx.Value, error) {
	return typedctx.MarshalStructure(s)
}

func (s *seedStuff) Restructure(v typedctx.Value) error {
	return typedctx.UnmarshalStructure(v, s)
}

func seedFactories() map[string]config.EntryFactory {
	return map[string]config.EntryFactory{
		"stuff": config.Factory[seedStuff](),
	}
}

// TestSeed verifies a registry boots from a YAML-declared entry set.
func TestSeed(t *testing.T) {
	cfg, err := config.FromYAML([]byte(`
entries:
  stuff:
    type: stuff
    value:
      foo: 42
      bar: hello
`))
	require.NoError(t, err)

	reg := typedctx.New()
	require.NoError(t, config.Seed(reg, cfg, seedFactories()))

	s, ok := typedctx.Read[seedStuff](reg, "stuff")
	require.True(t, ok)
	assert.Equal(t, seedStuff{Foo: 42, Bar: "hello"}, s)
}

// TestSeedNoEntries verifies a config without entries is a no-op.
func TestSeedNoEntries(t *testing.T) {
	reg := typedctx.New()
	require.NoError(t, config.Seed(reg, config.New(nil), seedFactories()))
	assert.Equal(t, 0, reg.Len())
}

// TestSeedUnknownType verifies unknown type names fail the seed.
func TestSeedUnknownType(t *testing.T) {
	cfg, err := config.FromYAML([]byte(`
entries:
  widget:
    type: widget
    value: {}
`))
	require.NoError(t, err)

	err = config.Seed(typedctx.New(), cfg, seedFactories())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown type")
}

// TestSeedMissingType verifies entries must declare a type.
func TestSeedMissingType(t *testing.T) {
	cfg, err := config.FromYAML([]byte(`
entries:
  stuff:
    value: {foo: 1, bar: x}
`))
	require.NoError(t, err)

	err = config.Seed(typedctx.New(), cfg, seedFactories())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing type")
}

// TestSeedSchemaViolation verifies a declared value that does not match the
// type's schema is rejected.
func TestSeedSchemaViolation(t *testing.T) {
	cfg, err := config.FromYAML([]byte(`
entries:
  stuff:
    type: stuff
    value:
      foo: not-a-number
      bar: hello
`))
	require.NoError(t, err)

	err = config.Seed(typedctx.New(), cfg, seedFactories())
	require.Error(t, err)
	assert.ErrorIs(t, err, typedctx.ErrRestructure)
}

// TestSeedDuplicateKey verifies seeding over an existing key fails.
func TestSeedDuplicateKey(t *testing.T) {
	cfg, err := config.FromYAML([]byte(`
entries:
  stuff:
    type: stuff
    value: {foo: 1, bar: x}
`))
	require.NoError(t, err)

	reg := typedctx.New()
	require.NoError(t, reg.Insert("stuff", seedStuff{Foo: 9}))

	err = config.Seed(reg, cfg, seedFactories())
	require.Error(t, err)
	assert.ErrorIs(t, err, typedctx.ErrDuplicateKey)

	// The pre-existing entry is untouched.
	s, ok := typedctx.Read[seedStuff](reg, "stuff")
	require.True(t, ok)
	assert.Equal(t, 9, s.Foo)
}
