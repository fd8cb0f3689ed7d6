// Package config loads, normalizes, and validates Relane configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and parses the cipher master key. The Config
// type centralizes every knob the CLI needs: pipeline geometry, workload
// duty patterns, trace storage, and log routing.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, bounds-checked pipeline widths, and clear validation
// errors.
package config
