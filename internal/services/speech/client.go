// Package speech synthesizes narration through the OpenAI text-to-speech
// endpoint.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"podcaster/internal/textutil"
)

const (
	defaultBaseURL     = "https://api.openai.com/v1/audio/speech"
	defaultModel       = "tts-1"
	defaultFormat      = "mp3"
	defaultHTTPTimeout = 120 * time.Second

	// MaxInputChars is the endpoint's per-request input limit.
	MaxInputChars = 4096
	// truncateAt leaves room for the closing line appended to long input.
	truncateAt    = 3900
	closingSuffix = "... Thanks for listening to this episode!"
)

// Config captures speech backend settings.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	Format         string
	TimeoutSeconds int
}

// Client calls the speech endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a speech client.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	c := &Client{
		cfg: Config{
			APIKey:  strings.TrimSpace(cfg.APIKey),
			BaseURL: strings.TrimSpace(cfg.BaseURL),
			Model:   strings.TrimSpace(cfg.Model),
			Format:  strings.TrimSpace(cfg.Format),
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cfg.BaseURL == "" {
		c.cfg.BaseURL = defaultBaseURL
	}
	if c.cfg.Model == "" {
		c.cfg.Model = defaultModel
	}
	if c.cfg.Format == "" {
		c.cfg.Format = defaultFormat
	}
	return c
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.cfg.APIKey != ""
}

// HTTPStatusError reports a non-2xx response from the speech endpoint.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("speech request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// PrepareInput bounds text to the endpoint limit. Longer input is cut and
// finished with a closing line so the clip does not end mid-word silently.
func PrepareInput(text string) string {
	text = strings.TrimSpace(text)
	if len([]rune(text)) <= MaxInputChars {
		return text
	}
	return textutil.Truncate(text, truncateAt, closingSuffix)
}

type speechRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	Voice          string `json:"voice"`
	ResponseFormat string `json:"response_format"`
}

// Synthesize returns encoded audio for text spoken by voice. The voice is
// validated before any network call.
func (c *Client) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if err := ValidateVoice(voice); err != nil {
		return nil, err
	}
	input := PrepareInput(text)
	if input == "" {
		return nil, errors.New("speech synthesize: input text required")
	}
	if c.cfg.APIKey == "" {
		return nil, errors.New("speech synthesize: api key required")
	}

	encoded, err := json.Marshal(speechRequest{
		Model:          c.cfg.Model,
		Input:          input,
		Voice:          NormalizeVoice(voice),
		ResponseFormat: c.cfg.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("speech request: encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("speech request: new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech request: http error (timeout=%s): %w", c.httpClient.Timeout, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("speech request: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &HTTPStatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if len(body) == 0 {
		return nil, errors.New("speech request: empty audio payload")
	}
	return body, nil
}
