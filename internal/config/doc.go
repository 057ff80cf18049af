// Package config loads, normalizes, and validates tanko configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the CLI needs: batch sizing, recognized archive and image extensions,
// cover rendering geometry, remote provider toggles, and logging.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
