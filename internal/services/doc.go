// Package services defines shared utilities consumed by the podcast pipeline
// components and their external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp request IDs, component names, and the active
//     text-generation provider for logging.
//   - Structured error markers plus the Wrap helper so callers can tell
//     validation failures from upstream failures and map them to HTTP status
//     codes.
//
// Backend adapters (text generation, speech synthesis) live in subpackages.
package services
