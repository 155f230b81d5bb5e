package staging

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"podcaster/internal/logging"
)

func TestCreateMakesUniqueRequestDirs(t *testing.T) {
	root := filepath.Join(t.TempDir(), "staging")
	first, err := Create(root, "abc-123")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := Create(root, "abc-123")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct dirs, got %s twice", first)
	}
	if !strings.HasPrefix(filepath.Base(first), "req-") {
		t.Fatalf("unexpected dir name %s", first)
	}
	if info, err := os.Stat(first); err != nil || !info.IsDir() {
		t.Fatalf("expected directory at %s", first)
	}
}

func TestCreateRequiresRoot(t *testing.T) {
	if _, err := Create("  ", "id"); err == nil {
		t.Fatal("expected error for empty root")
	}
}

func TestRemoveDeletesDirectory(t *testing.T) {
	dir, err := Create(t.TempDir(), "id")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "segment_0001.mp3"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	Remove(dir, logging.NewNop())
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("expected %s removed", dir)
	}
}

func TestCleanStaleInvalidPaths(t *testing.T) {
	for _, dir := range []string{"", "   ", "/nonexistent/path/12345"} {
		result := CleanStale(context.Background(), dir, time.Hour, logging.NewNop())
		if len(result.Removed) != 0 || len(result.Errors) != 0 {
			t.Errorf("expected empty result for path %q", dir)
		}
	}
}

func TestCleanStaleRemovesOldRequestDirs(t *testing.T) {
	root := t.TempDir()
	oldTime := time.Now().Add(-2 * time.Hour)

	oldDir := filepath.Join(root, "req-old")
	foreign := filepath.Join(root, "keep-me")
	recent := filepath.Join(root, "req-recent")
	for _, dir := range []string{oldDir, foreign, recent} {
		if err := os.Mkdir(dir, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	for _, dir := range []string{oldDir, foreign} {
		if err := os.Chtimes(dir, oldTime, oldTime); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
	}

	result := CleanStale(context.Background(), root, time.Hour, logging.NewNop())
	if len(result.Removed) != 1 || result.Removed[0] != oldDir {
		t.Fatalf("unexpected removals %v", result.Removed)
	}
	if _, err := os.Stat(foreign); err != nil {
		t.Fatal("directory without request prefix should survive")
	}
	if _, err := os.Stat(recent); err != nil {
		t.Fatal("recent directory should survive")
	}
}

func TestListReportsSizes(t *testing.T) {
	root := t.TempDir()
	dir, err := Create(root, "id")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.mp3"), []byte("12345"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	dirs, err := List(root)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(dirs) != 1 || dirs[0].Size != 5 {
		t.Fatalf("unexpected listing %+v", dirs)
	}
}
