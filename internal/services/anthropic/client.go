// Package anthropic adapts the langchaingo Anthropic model to the plain
// system/user completion call used by the text-generation registry.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	lcanthropic "github.com/tmc/langchaingo/llms/anthropic"
)

const (
	defaultModel       = "claude-sonnet-4-20250514"
	defaultMaxTokens   = 16000
	defaultTemperature = 0.7
	defaultTimeout     = 300 * time.Second
)

// Config captures Anthropic connection settings.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	MaxTokens      int
	Temperature    float64
	TimeoutSeconds int
}

// Client issues single-turn completions against the Anthropic messages API.
type Client struct {
	model       llms.Model
	modelName   string
	maxTokens   int
	temperature float64
}

// Option customizes the client.
type Option func(*options)

type options struct {
	httpClient *http.Client
}

// WithHTTPClient overrides the HTTP client used by the underlying SDK.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// NewClient constructs the adapter. An API key is required.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, errors.New("anthropic: api key required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	o := options{httpClient: &http.Client{Timeout: timeout}}
	for _, opt := range opts {
		opt(&o)
	}

	lcOpts := []lcanthropic.Option{
		lcanthropic.WithToken(key),
		lcanthropic.WithModel(model),
		lcanthropic.WithHTTPClient(o.httpClient),
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		lcOpts = append(lcOpts, lcanthropic.WithBaseURL(strings.TrimRight(base, "/")))
	}
	llm, err := lcanthropic.New(lcOpts...)
	if err != nil {
		return nil, fmt.Errorf("anthropic: init client: %w", err)
	}
	return newWithModel(llm, model, cfg.MaxTokens, cfg.Temperature), nil
}

func newWithModel(model llms.Model, name string, maxTokens int, temperature float64) *Client {
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	if temperature <= 0 {
		temperature = defaultTemperature
	}
	return &Client{model: model, modelName: name, maxTokens: maxTokens, temperature: temperature}
}

// Provider returns the backend name used in errors and logs.
func (c *Client) Provider() string { return "anthropic" }

// Model returns the configured model identifier.
func (c *Client) Model() string { return c.modelName }

// Complete sends the system and user prompts and returns the first choice.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	userPrompt = strings.TrimSpace(userPrompt)
	if userPrompt == "" {
		return "", errors.New("anthropic complete: prompt required")
	}
	messages := make([]llms.MessageContent, 0, 2)
	if system := strings.TrimSpace(systemPrompt); system != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, system))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, userPrompt))

	resp, err := c.model.GenerateContent(ctx, messages,
		llms.WithMaxTokens(c.maxTokens),
		llms.WithTemperature(c.temperature),
	)
	if err != nil {
		return "", fmt.Errorf("anthropic complete: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", errors.New("anthropic complete: empty choices")
	}
	content := strings.TrimSpace(resp.Choices[0].Content)
	if content == "" {
		return "", fmt.Errorf("anthropic complete: empty content (stop_reason=%q)", resp.Choices[0].StopReason)
	}
	return content, nil
}
