// Package config loads, normalizes, and validates phototriage configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the PHOTOTRIAGE_INPUT_DIR
// environment fallback. The four destination directories must already exist;
// Load refuses a configuration that points at missing ones so relocation never
// starts against a half-mounted library.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
