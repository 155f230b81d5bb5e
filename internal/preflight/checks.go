package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"podcaster/internal/config"
	"podcaster/internal/services/llm"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckStorage validates the configured artifact backend.
func CheckStorage(cfg *config.Config) Result {
	const name = "Audio storage"
	switch cfg.Storage.Backend {
	case config.StorageSupabase:
		if strings.TrimSpace(cfg.Storage.SupabaseURL) == "" || strings.TrimSpace(cfg.Storage.SupabaseKey) == "" {
			return Result{Name: name, Detail: "supabase url or key missing"}
		}
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("supabase bucket %s", cfg.Storage.Bucket)}
	default:
		return CheckDirectoryAccess(name, cfg.Paths.AudioDir)
	}
}

// CheckProvider verifies a text-generation provider. Without live it only
// checks that a key is configured. Live checks against the Anthropic API are
// not supported and fall back to the key check.
func CheckProvider(ctx context.Context, name string, provider config.Provider, live bool) Result {
	if strings.TrimSpace(provider.APIKey) == "" {
		return Result{Name: name, Detail: "API key missing"}
	}
	if !live || name == config.ProviderAnthropic {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("configured (%s)", provider.Model)}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client := llm.NewClient(llm.Config{
		Provider:       name,
		APIKey:         provider.APIKey,
		BaseURL:        provider.BaseURL,
		Model:          provider.Model,
		MaxTokens:      provider.MaxTokens,
		Temperature:    provider.Temperature,
		TimeoutSeconds: provider.TimeoutSeconds,
	}, llm.WithRetryMaxAttempts(1))
	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeLLMError(err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("API reachable (%s)", provider.Model)}
}

// CheckSpeech reports whether audio synthesis is available.
func CheckSpeech(cfg config.Speech) Result {
	const name = "Speech synthesis"
	if strings.TrimSpace(cfg.APIKey) == "" {
		return Result{Name: name, Optional: true, Detail: "API key missing (scripts only)"}
	}
	return Result{Name: name, Passed: true, Optional: true, Detail: fmt.Sprintf("%s via %s", cfg.Model, cfg.BaseURL)}
}

// summarizeLLMError produces a human-readable summary for health check failures.
func summarizeLLMError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (API unreachable)"
	}
	return err.Error()
}
