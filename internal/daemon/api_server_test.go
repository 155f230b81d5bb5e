package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"podcaster/internal/api"
	"podcaster/internal/config"
	"podcaster/internal/logging"
	"podcaster/internal/podcast"
	"podcaster/internal/registry"
	"podcaster/internal/services"
)

type fakeGenerator struct {
	resp *podcast.Response
	err  error
	last podcast.Request
}

func (g *fakeGenerator) Generate(_ context.Context, req podcast.Request) (*podcast.Response, error) {
	g.last = req
	return g.resp, g.err
}

func (g *fakeGenerator) AudioEnabled() bool { return true }

func serverConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.AudioDir = filepath.Join(base, "audio")
	cfg.Paths.StagingDir = filepath.Join(base, "staging")
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	return &cfg
}

func newTestServer(t *testing.T, cfg *config.Config, gen Generator, store *registry.Store) *httptest.Server {
	t.Helper()
	var history *api.HistoryService
	if store != nil {
		history = api.NewHistoryService(store)
	}
	status := func(context.Context) api.DaemonStatus {
		return api.DaemonStatus{Running: true, Storage: cfg.Storage.Backend}
	}
	srv := newAPIServer(cfg, gen, history, status, logging.NewNop())
	ts := httptest.NewServer(srv.server.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func TestGenerateReturnsScript(t *testing.T) {
	cfg := serverConfig(t)
	gen := &fakeGenerator{resp: &podcast.Response{
		Script:    podcast.Script{Title: "AI Generated Podcast - Normal One Mode", Mode: podcast.ModeNormalOne},
		AudioURL:  "/audio/podcast_1.mp3",
		RequestID: "req-1",
	}}
	ts := newTestServer(t, cfg, gen, nil)

	body := `{"selectedText":"hello world","provider":"openai","podcastMode":"normal-one","includeAudio":true,"voiceSelection":"nova"}`
	resp, err := http.Post(ts.URL+"/api/podcast", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var payload podcast.Response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Script.Title != "AI Generated Podcast - Normal One Mode" || payload.AudioURL != "/audio/podcast_1.mp3" {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if gen.last.Text != "hello world" || gen.last.Voice != "nova" || !gen.last.IncludeAudio {
		t.Fatalf("request not decoded: %+v", gen.last)
	}
}

func TestGenerateMapsErrorsToStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", services.Wrap(services.ErrValidation, "pipeline", "validate", "selected text is required", nil), http.StatusBadRequest},
		{"timeout", services.Wrap(services.ErrTimeout, "pipeline", "generate", "deadline", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"upstream", services.Wrap(services.ErrExternalTool, "textgen", "generate", "", errors.New("502")), http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := serverConfig(t)
			ts := newTestServer(t, cfg, &fakeGenerator{err: tc.err}, nil)
			resp, err := http.Post(ts.URL+"/api/podcast", "application/json", strings.NewReader(`{"selectedText":"x"}`))
			if err != nil {
				t.Fatalf("post: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.StatusCode)
			}
			var payload api.ErrorResponse
			if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if payload.Error == "" {
				t.Fatal("expected error message")
			}
		})
	}
}

func TestGenerateRejectsMalformedBody(t *testing.T) {
	cfg := serverConfig(t)
	gen := &fakeGenerator{}
	ts := newTestServer(t, cfg, gen, nil)
	resp, err := http.Post(ts.URL+"/api/podcast", "application/json", strings.NewReader(`{"selectedText":`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestGenerateRequiresPost(t *testing.T) {
	cfg := serverConfig(t)
	ts := newTestServer(t, cfg, &fakeGenerator{}, nil)
	resp, err := http.Get(ts.URL + "/api/podcast")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}

func TestHistoryEndpoints(t *testing.T) {
	cfg := serverConfig(t)
	store, err := registry.Open(cfg)
	if err != nil {
		t.Fatalf("registry.Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()
	id, err := store.Record(ctx, podcast.Record{
		RequestID:  "req-1",
		Title:      "First",
		Mode:       podcast.ModeNormalTwo,
		Provider:   "openai",
		Transcript: "HOST 1: hi\nHOST 2: hello",
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	ts := newTestServer(t, cfg, &fakeGenerator{}, store)

	resp, err := http.Get(ts.URL + "/api/podcasts?limit=5")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var list api.PodcastListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	resp.Body.Close()
	if len(list.Podcasts) != 1 || list.Podcasts[0].Title != "First" {
		t.Fatalf("unexpected list %+v", list)
	}

	resp, err = http.Get(ts.URL + "/api/podcasts/" + strconv.FormatInt(id, 10))
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	var detail api.PodcastDetailResponse
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	resp.Body.Close()
	if detail.Podcast.Transcript != "HOST 1: hi\nHOST 2: hello" {
		t.Fatalf("unexpected detail %+v", detail)
	}

	for path, want := range map[string]int{
		"/api/podcasts/999":     http.StatusNotFound,
		"/api/podcasts/abc":     http.StatusBadRequest,
		"/api/podcasts?limit=x": http.StatusBadRequest,
	} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != want {
			t.Fatalf("%s: expected %d, got %d", path, want, resp.StatusCode)
		}
	}
}

func TestHistoryUnavailableWithoutStore(t *testing.T) {
	cfg := serverConfig(t)
	ts := newTestServer(t, cfg, &fakeGenerator{}, nil)
	resp, err := http.Get(ts.URL + "/api/podcasts")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
}

func TestVoicesAndStatus(t *testing.T) {
	cfg := serverConfig(t)
	cfg.Speech.DefaultVoice = "echo"
	ts := newTestServer(t, cfg, &fakeGenerator{}, nil)

	resp, err := http.Get(ts.URL + "/api/voices")
	if err != nil {
		t.Fatalf("voices: %v", err)
	}
	var voices api.VoicesResponse
	if err := json.NewDecoder(resp.Body).Decode(&voices); err != nil {
		t.Fatalf("decode voices: %v", err)
	}
	resp.Body.Close()
	if voices.Default != "echo" || len(voices.Voices) != 6 || len(voices.Modes) != 4 {
		t.Fatalf("unexpected voices %+v", voices)
	}

	resp, err = http.Get(ts.URL + "/api/status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	var status api.DaemonStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	resp.Body.Close()
	if !status.Running || status.Storage != config.StorageLocal {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestAudioServedFromLocalDir(t *testing.T) {
	cfg := serverConfig(t)
	if err := os.WriteFile(filepath.Join(cfg.Paths.AudioDir, "podcast_1.mp3"), []byte("ID3audio"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	ts := newTestServer(t, cfg, &fakeGenerator{}, nil)

	resp, err := http.Get(ts.URL + "/audio/podcast_1.mp3")
	if err != nil {
		t.Fatalf("get audio: %v", err)
	}
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(data) != "ID3audio" {
		t.Fatalf("unexpected audio response %d %q", resp.StatusCode, data)
	}

	resp, err = http.Get(ts.URL + "/audio/")
	if err != nil {
		t.Fatalf("get listing: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected directory listing to be hidden, got %d", resp.StatusCode)
	}
}

func TestAudioNotServedForRemoteStorage(t *testing.T) {
	if h := audioHandler(&config.Config{Storage: config.Storage{Backend: config.StorageSupabase}}); h != nil {
		t.Fatal("expected no audio handler for supabase storage")
	}
}
