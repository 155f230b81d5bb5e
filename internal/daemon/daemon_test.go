package daemon_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"podcaster/internal/config"
	"podcaster/internal/daemon"
	"podcaster/internal/logging"
	"podcaster/internal/podcast"
	"podcaster/internal/registry"
)

type stubGenerator struct {
	resp  *podcast.Response
	err   error
	audio bool
	last  podcast.Request
}

func (g *stubGenerator) Generate(_ context.Context, req podcast.Request) (*podcast.Response, error) {
	g.last = req
	return g.resp, g.err
}

func (g *stubGenerator) AudioEnabled() bool { return g.audio }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.AudioDir = filepath.Join(base, "audio")
	cfg.Paths.StagingDir = filepath.Join(base, "staging")
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Server.Bind = "127.0.0.1:0"
	cfg.Providers.OpenAI.APIKey = "test"
	return &cfg
}

func TestDaemonStartStop(t *testing.T) {
	cfg := testConfig(t)
	store, err := registry.Open(cfg)
	if err != nil {
		t.Fatalf("registry.Open: %v", err)
	}
	d, err := daemon.New(cfg, store, &stubGenerator{}, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() {
		d.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	status := d.Status(ctx)
	if !status.Running {
		t.Fatal("expected daemon to report running")
	}
	if d.Addr() == "" {
		t.Fatal("expected listener address")
	}
	if len(status.Checks) == 0 {
		t.Fatal("expected preflight results")
	}
	if len(status.Providers) != 1 || status.Providers[0] != config.ProviderOpenAI {
		t.Fatalf("unexpected providers %v", status.Providers)
	}

	// Second start should fail
	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second start to fail")
	}

	d.Stop()
	time.Sleep(50 * time.Millisecond)
	status = d.Status(ctx)
	if status.Running {
		t.Fatal("expected daemon to be stopped")
	}
}

func TestSecondInstanceBlockedByLock(t *testing.T) {
	cfg := testConfig(t)
	first, err := daemon.New(cfg, nil, &stubGenerator{}, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { first.Close() })

	ctx := context.Background()
	if err := first.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	second, err := daemon.New(cfg, nil, &stubGenerator{}, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if err := second.Start(ctx); err == nil {
		second.Stop()
		t.Fatal("expected lock contention to block second instance")
	}
}

func TestNewRequiresGenerator(t *testing.T) {
	if _, err := daemon.New(testConfig(t), nil, nil, nil); err == nil {
		t.Fatal("expected error without generator")
	}
}
