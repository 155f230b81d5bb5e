// Package api defines wire-format types and converters for the HTTP API. It
// translates registry records and preflight results into transport-friendly
// DTOs so clients do not couple to internal types.
//
// DTOs use camelCase JSON tags. Timestamps use RFC3339 with milliseconds.
// Podcast generation requests and responses travel as podcast.Request and
// podcast.Response, whose JSON shape is the public contract.
package api
