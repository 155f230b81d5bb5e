package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"podcaster/internal/api"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
}

func setupCLITestEnv(t *testing.T, llmURL string) *cliTestEnv {
	t.Helper()
	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	if llmURL == "" {
		llmURL = "http://127.0.0.1:1/v1/chat/completions"
	}
	content := fmt.Sprintf(`default_provider = "openai"

[paths]
audio_dir = %q
staging_dir = %q
data_dir = %q
log_dir = %q

[providers.openai]
api_key = "test"
base_url = %q
`, filepath.Join(base, "audio"), filepath.Join(base, "staging"), filepath.Join(base, "data"), filepath.Join(base, "logs"), llmURL)
	configPath := filepath.Join(base, "config.toml")
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &cliTestEnv{baseDir: base, configPath: configPath}
}

func runCLI(t *testing.T, args []string, configPath, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func fakeCompletionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		payload := map[string]any{"choices": []any{map[string]any{"message": map[string]any{"content": content}}}}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Errorf("encode completion: %v", err)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestGenerateFromStdinRecordsHistory(t *testing.T) {
	server := fakeCompletionServer(t, "HOST 1: Welcome to the show.\nHOST 2: Today we talk about rivers.")
	env := setupCLITestEnv(t, server.URL)

	out, _, err := runCLI(t, []string{"generate", "--json", "--title", "Rivers"}, env.configPath, "Rivers carry water to the sea.")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	var payload struct {
		Script struct {
			Title string `json:"title"`
			Mode  string `json:"mode"`
		} `json:"script"`
		ID         int64  `json:"id"`
		Transcript string `json:"transcript"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if payload.Script.Title != "Rivers" || payload.Script.Mode != "normal-two" {
		t.Fatalf("unexpected script %+v", payload.Script)
	}
	requireContains(t, payload.Transcript, "rivers")
	if payload.ID <= 0 {
		t.Fatalf("expected history id, got %d", payload.ID)
	}

	out, _, err = runCLI(t, []string{"list", "--json"}, env.configPath, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var list api.PodcastListResponse
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Podcasts) != 1 || list.Podcasts[0].Title != "Rivers" || list.Podcasts[0].Origin != "stdin" {
		t.Fatalf("unexpected history %+v", list.Podcasts)
	}

	out, _, err = runCLI(t, []string{"show", fmt.Sprint(payload.ID)}, env.configPath, "")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, out, "Title:     Rivers")
	requireContains(t, out, "Today we talk about rivers.")
}

func TestGenerateFromFileRendersScript(t *testing.T) {
	server := fakeCompletionServer(t, "HOST: Welcome. HOST: Here is the story. HOST: Goodbye.")
	env := setupCLITestEnv(t, server.URL)
	src := filepath.Join(env.baseDir, "notes.md")
	if err := os.WriteFile(src, []byte("# Notes\n\nSome facts about tides."), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	out, _, err := runCLI(t, []string{"generate", "--mode", "normal-one", "--no-history", src}, env.configPath, "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	requireContains(t, out, "Title:    notes")
	requireContains(t, out, "Mode:     normal-one")
	requireContains(t, out, "Alex (alloy)")
}

func TestGenerateRejectsCustomModeWithoutInstructions(t *testing.T) {
	env := setupCLITestEnv(t, "")
	_, _, err := runCLI(t, []string{"generate", "--mode", "custom-one", "--text", "hello"}, env.configPath, "")
	if err == nil || !strings.Contains(err.Error(), "instructions") {
		t.Fatalf("expected instructions error, got %v", err)
	}
}

func TestGenerateRequiresSource(t *testing.T) {
	env := setupCLITestEnv(t, "")
	_, _, err := runCLI(t, []string{"generate", "--text", "hi", "extra.txt"}, env.configPath, "")
	if err == nil {
		t.Fatal("expected error when both --text and a source are given")
	}
	_, _, err = runCLI(t, []string{"generate", "-"}, env.configPath, "")
	if err == nil || !strings.Contains(err.Error(), "stdin was empty") {
		t.Fatalf("expected empty stdin error, got %v", err)
	}
}

func TestListEmptyAndShowMissing(t *testing.T) {
	env := setupCLITestEnv(t, "")
	out, _, err := runCLI(t, []string{"list"}, env.configPath, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "No podcasts generated yet")

	_, _, err = runCLI(t, []string{"show", "42"}, env.configPath, "")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found, got %v", err)
	}
	_, _, err = runCLI(t, []string{"show", "abc"}, env.configPath, "")
	if err == nil || !strings.Contains(err.Error(), "invalid podcast id") {
		t.Fatalf("expected invalid id, got %v", err)
	}
}

func TestVoicesCommand(t *testing.T) {
	out, _, err := runCLI(t, []string{"voices"}, "", "")
	if err != nil {
		t.Fatalf("voices: %v", err)
	}
	requireContains(t, out, "alloy (default)")
	requireContains(t, out, "Modes: normal-one, normal-two, custom-one, custom-two")
}

func TestCheckCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t, "")
	out, _, err := runCLI(t, []string{"check", "--json"}, env.configPath, "")
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	var results []api.CheckResult
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode checks: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected check results")
	}
}

func TestConfigInitValidateShow(t *testing.T) {
	env := setupCLITestEnv(t, "")

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath, "")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	out, _, err = runCLI(t, []string{"config", "show"}, env.configPath, "")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "********")
	if strings.Contains(out, `api_key = "test"`) {
		t.Fatalf("expected api key to be redacted:\n%s", out)
	}

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "", "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, "", ""); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}
}
