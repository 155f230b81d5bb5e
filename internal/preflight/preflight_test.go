package preflight

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"podcaster/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	result := CheckDirectoryAccess("test", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed || result.Detail == "" {
		t.Fatalf("expected failure with detail, got %+v", result)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if CheckDirectoryAccess("test", f).Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckProviderKeyOnly(t *testing.T) {
	if CheckProvider(context.Background(), "openai", config.Provider{}, false).Passed {
		t.Fatal("expected failure without key")
	}
	result := CheckProvider(context.Background(), "openai", config.Provider{APIKey: "k", Model: "gpt-4o"}, false)
	if !result.Passed {
		t.Fatalf("expected pass with key, got %s", result.Detail)
	}
}

func TestCheckProviderLive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"bad key"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": "ok"}}},
		})
	}))
	defer srv.Close()

	provider := config.Provider{APIKey: "good", BaseURL: srv.URL, Model: "m", MaxTokens: 10}
	if result := CheckProvider(context.Background(), "openai", provider, true); !result.Passed {
		t.Fatalf("expected pass, got %s", result.Detail)
	}
	provider.APIKey = "bad"
	if result := CheckProvider(context.Background(), "openai", provider, true); result.Passed {
		t.Fatal("expected failure for bad key")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil, Options{}); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_DefaultProviderIsMandatory(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.StagingDir = t.TempDir()
	cfg.Paths.DataDir = t.TempDir()
	cfg.Paths.AudioDir = t.TempDir()
	cfg.Providers.OpenAI.APIKey = ""

	results := RunAll(context.Background(), &cfg, Options{})
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Name != config.ProviderOpenAI {
		t.Fatalf("expected only the default provider to fail, got %+v", failed)
	}

	cfg.Providers.OpenAI.APIKey = "key"
	if failed := Failed(RunAll(context.Background(), &cfg, Options{})); len(failed) != 0 {
		t.Fatalf("expected no mandatory failures, got %+v", failed)
	}
}
