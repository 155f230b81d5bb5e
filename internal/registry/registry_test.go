package registry_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"podcaster/internal/config"
	"podcaster/internal/podcast"
	"podcaster/internal/registry"
	"podcaster/internal/services"
)

func openStore(t *testing.T) *registry.Store {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.StagingDir = filepath.Join(base, "staging")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.AudioDir = filepath.Join(base, "audio")
	store, err := registry.Open(&cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndGet(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	id, err := store.Record(ctx, podcast.Record{
		RequestID:         "req-1",
		Title:             "AI Generated Podcast - Normal Two Mode",
		Mode:              podcast.ModeNormalTwo,
		Provider:          "openai",
		SourceWords:       3000,
		ScriptWords:       420,
		EstimatedDuration: "3 minutes",
		AudioURL:          "/audio/podcast_1.mp3",
		AudioDegraded:     true,
		Transcript:        "HOST 1: hi",
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	rec, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Mode != podcast.ModeNormalTwo || rec.AudioURL != "/audio/podcast_1.mp3" || !rec.AudioDegraded || rec.Transcript != "HOST 1: hi" {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be set")
	}
}

func TestGetMissing(t *testing.T) {
	store := openStore(t)
	if _, err := store.Get(context.Background(), 42); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		if _, err := store.Record(ctx, podcast.Record{
			RequestID: id, Title: id, Mode: podcast.ModeNormalOne, Provider: "openai",
			EstimatedDuration: "1 minute", Transcript: "text",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	records, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 || records[0].RequestID != "c" || records[1].RequestID != "b" {
		t.Fatalf("unexpected order %+v", records)
	}
	if records[0].Transcript != "" {
		t.Fatal("list should omit transcripts")
	}
	if n, err := store.Count(ctx); err != nil || n != 3 {
		t.Fatalf("Count = %d, %v", n, err)
	}
}

func TestRecordRequiresRequestID(t *testing.T) {
	store := openStore(t)
	if _, err := store.Record(context.Background(), podcast.Record{Title: "x"}); err == nil {
		t.Fatal("expected error without request id")
	}
}

func TestReopenKeepsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "podcaster.db")
	first, err := registry.OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	_ = first.Close()
	second, err := registry.OpenPath(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	_ = second.Close()
}
