// Package llm provides a chat completion client for OpenAI-compatible
// endpoints (OpenAI, Perplexity, DeepSeek).
//
// # Entry Points
//
// NewClient: construct a client from Config.
// Client.Complete: send system/user prompts, receive generated text.
// Client.HealthCheck: verify API key and model availability.
//
// # Retry Behaviour
//
// A single attempt is made by default. With WithRetryMaxAttempts the client
// retries HTTP 408/429/5xx errors, empty completions and network timeouts
// with exponential backoff (base 1s, max 10s), honouring Retry-After.
// Context cancellation aborts retries immediately.
//
// Non-2xx responses surface as *HTTPStatusError carrying the provider name.
package llm
