// Package textgen exposes the text-generation capability set: one backend per
// provider, selected by name at call time.
package textgen

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"podcaster/internal/config"
	"podcaster/internal/services"
	"podcaster/internal/services/anthropic"
	"podcaster/internal/services/llm"
)

// Generator produces text for a prompt using the named provider.
type Generator interface {
	Generate(ctx context.Context, provider, prompt, system string) (string, error)
}

// Backend is a single provider adapter.
type Backend interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Model() string
}

// Registry routes generation calls to configured backends. It is built once
// per process and shared; backends must be safe for concurrent use.
type Registry struct {
	backends map[string]Backend
	fallback string
}

// NewRegistry returns an empty registry whose default provider is fallback.
func NewRegistry(fallback string) *Registry {
	return &Registry{backends: map[string]Backend{}, fallback: normalizeName(fallback)}
}

// Register adds or replaces the backend for provider.
func (r *Registry) Register(provider string, backend Backend) {
	if backend == nil {
		return
	}
	r.backends[normalizeName(provider)] = backend
}

// Providers lists registered provider names in sorted order.
func (r *Registry) Providers() []string {
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether provider resolves to a registered backend. A blank
// provider resolves to the default.
func (r *Registry) Has(provider string) bool {
	_, err := r.resolve(provider)
	return err == nil
}

// Resolve returns the canonical provider name a request will use.
func (r *Registry) Resolve(provider string) (string, error) {
	name := normalizeName(provider)
	if name == "" {
		name = r.fallback
	}
	if _, err := r.resolve(name); err != nil {
		return "", err
	}
	return name, nil
}

// Model returns the model identifier configured for provider.
func (r *Registry) Model(provider string) string {
	backend, err := r.resolve(provider)
	if err != nil {
		return ""
	}
	return backend.Model()
}

// Generate implements Generator.
func (r *Registry) Generate(ctx context.Context, provider, prompt, system string) (string, error) {
	name, err := r.Resolve(provider)
	if err != nil {
		return "", err
	}
	backend := r.backends[name]
	ctx = services.WithProvider(ctx, name)
	text, err := backend.Complete(ctx, system, prompt)
	if err != nil {
		if ctx.Err() != nil {
			return "", services.Wrap(services.ErrTimeout, "textgen", "generate", fmt.Sprintf("provider %s", name), err)
		}
		return "", services.Wrap(services.ErrExternalTool, "textgen", "generate", fmt.Sprintf("provider %s", name), err)
	}
	return text, nil
}

func (r *Registry) resolve(provider string) (Backend, error) {
	name := normalizeName(provider)
	if name == "" {
		name = r.fallback
	}
	if backend, ok := r.backends[name]; ok {
		return backend, nil
	}
	for _, known := range config.ProviderNames() {
		if known == name {
			return nil, services.Wrap(services.ErrConfiguration, "textgen", "resolve provider",
				fmt.Sprintf("provider %s is not configured (missing api key)", name), nil)
		}
	}
	return nil, services.Wrap(services.ErrValidation, "textgen", "resolve provider",
		fmt.Sprintf("unknown provider %q (supported: %s)", provider, strings.Join(config.ProviderNames(), ", ")), nil)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// FromConfig builds a registry holding every provider with an API key.
func FromConfig(cfg *config.Config) (*Registry, error) {
	registry := NewRegistry(cfg.DefaultProvider)
	for _, name := range config.ProviderNames() {
		p, _ := cfg.Provider(name)
		if strings.TrimSpace(p.APIKey) == "" {
			continue
		}
		if name == config.ProviderAnthropic {
			client, err := anthropic.NewClient(anthropic.Config{
				APIKey:         p.APIKey,
				BaseURL:        p.BaseURL,
				Model:          p.Model,
				MaxTokens:      p.MaxTokens,
				Temperature:    p.Temperature,
				TimeoutSeconds: p.TimeoutSeconds,
			})
			if err != nil {
				return nil, services.Wrap(services.ErrConfiguration, "textgen", "init anthropic", "anthropic client", err)
			}
			registry.Register(name, client)
			continue
		}
		registry.Register(name, llm.NewClient(llm.Config{
			Provider:       name,
			APIKey:         p.APIKey,
			BaseURL:        p.BaseURL,
			Model:          p.Model,
			MaxTokens:      p.MaxTokens,
			Temperature:    p.Temperature,
			TimeoutSeconds: p.TimeoutSeconds,
		}, llm.WithRetryMaxAttempts(p.RetryAttempts)))
	}
	return registry, nil
}
