/*
Package config provides type-safe configuration extraction from map[string]any
and declarative registry seeding.

# Overview

Config wraps a map[string]any and provides typed accessor methods that handle
missing keys and type mismatches gracefully by returning default values.
This is useful for extracting configuration values from YAML/JSON structures
without verbose type assertions and nil checks.

# Basic Usage

Create a Config from any map and extract values with defaults:

	cfg := config.New(map[string]any{
	    "timeout": "30s",
	    "retries": 3,
	    "enabled": true,
	})

	timeout := cfg.Duration("timeout", 10*time.Second) // 30s
	retries := cfg.Int("retries", 5)                   // 3
	enabled := cfg.Bool("enabled", false)              // true
	missing := cfg.String("missing", "default")        // "default"

# File Loading

Load configuration from YAML or JSON files:

	cfg, err := config.FromFile("config.yaml")
	if err != nil {
	    log.Fatal(err)
	}

# Registry Seeding

Seed boots a registry from declared entries. Each declaration names a type
and a structured value; a factory table maps type names to constructors:

	entries:
	  stuff:
	    type: stuff
	    value:
	      foo: 42
	      bar: hello

	factories := map[string]config.EntryFactory{
	    "stuff": config.Factory[Stuff](),
	}
	if err := config.Seed(reg, cfg, factories); err != nil {
	    log.Fatal(err)
	}

Factory only accepts structured-capable types; the declared value is rebuilt
through the type's Restructure method, so schema violations in the file fail
the seed rather than producing a half-formed entry.

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation.
*/
package config
