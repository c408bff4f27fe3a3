// Package config loads, normalizes, and validates brewbook configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// BREWBOOK_API_TOKEN and BREWBOOK_S3_BUCKET. The Config type centralizes every
// knob the server and CLI need, so the recipe store, summary index, and color
// table are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
