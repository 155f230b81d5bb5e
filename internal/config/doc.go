// Package config loads, normalizes, and validates podcaster configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OPENAI_API_KEY and SUPABASE_URL. The Config type centralizes every knob the
// server and CLI need, so provider credentials, storage targets and pipeline
// limits are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
