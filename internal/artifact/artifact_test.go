package artifact

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	storage_go "github.com/supabase-community/storage-go"

	"podcaster/internal/config"
	"podcaster/internal/services"
)

func TestLocalWriteAndDelete(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "audio")
	store, err := NewLocal(dir, "/audio")
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	ref, err := store.Write(context.Background(), "podcast_1.mp3", strings.NewReader("abc"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if ref != "/audio/podcast_1.mp3" {
		t.Fatalf("unexpected ref %q", ref)
	}
	data, err := os.ReadFile(filepath.Join(dir, "podcast_1.mp3"))
	if err != nil || string(data) != "abc" {
		t.Fatalf("unexpected file contents %q (%v)", data, err)
	}
	if err := store.Delete(context.Background(), "podcast_1.mp3"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(context.Background(), "podcast_1.mp3"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestLocalRejectsPathNames(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "/audio")
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	for _, name := range []string{"", "../escape.mp3", "a/b.mp3", " padded.mp3"} {
		if _, err := store.Write(context.Background(), name, strings.NewReader("x")); !errors.Is(err, services.ErrValidation) {
			t.Fatalf("expected validation error for %q, got %v", name, err)
		}
	}
}

func TestLocalImportMovesFile(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "https://cdn.example.com/audio/")
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	src := filepath.Join(t.TempDir(), "segment_0001.mp3")
	if err := os.WriteFile(src, []byte("clip"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ref, err := store.Import(context.Background(), "podcast_2.mp3", src)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if ref != "https://cdn.example.com/audio/podcast_2.mp3" {
		t.Fatalf("unexpected ref %q", ref)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatal("expected source to be moved")
	}
}

type fakeBucket struct {
	uploaded map[string]string
	removed  []string
	failWith error
}

func (f *fakeBucket) UploadFile(bucketID, relativePath string, data io.Reader, _ ...storage_go.FileOptions) (storage_go.FileUploadResponse, error) {
	if f.failWith != nil {
		return storage_go.FileUploadResponse{}, f.failWith
	}
	body, _ := io.ReadAll(data)
	if f.uploaded == nil {
		f.uploaded = map[string]string{}
	}
	f.uploaded[bucketID+"/"+relativePath] = string(body)
	return storage_go.FileUploadResponse{}, nil
}

func (f *fakeBucket) RemoveFile(bucketID string, paths []string) ([]storage_go.FileUploadResponse, error) {
	for _, p := range paths {
		f.removed = append(f.removed, bucketID+"/"+p)
	}
	return nil, nil
}

func (f *fakeBucket) GetPublicUrl(bucketID, filePath string, _ ...storage_go.UrlOptions) storage_go.SignedUrlResponse {
	return storage_go.SignedUrlResponse{SignedURL: "https://proj.supabase.co/storage/v1/object/public/" + bucketID + "/" + filePath}
}

func TestSupabaseUploadsToBucket(t *testing.T) {
	bucket := &fakeBucket{}
	store := newSupabaseWithClient(bucket, "podcasts")

	ref, err := store.Write(context.Background(), "podcast_3.mp3", strings.NewReader("mp3"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if bucket.uploaded["podcasts/podcast_3.mp3"] != "mp3" {
		t.Fatalf("unexpected uploads %v", bucket.uploaded)
	}
	if !strings.HasSuffix(ref, "/public/podcasts/podcast_3.mp3") {
		t.Fatalf("unexpected ref %q", ref)
	}
	if err := store.Delete(context.Background(), "podcast_3.mp3"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(bucket.removed) != 1 || bucket.removed[0] != "podcasts/podcast_3.mp3" {
		t.Fatalf("unexpected removals %v", bucket.removed)
	}
}

func TestSupabaseUploadFailure(t *testing.T) {
	store := newSupabaseWithClient(&fakeBucket{failWith: errors.New("quota exceeded")}, "podcasts")
	_, err := store.Write(context.Background(), "p.mp3", strings.NewReader("x"))
	if !errors.Is(err, services.ErrExternalTool) || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("expected wrapped upload error, got %v", err)
	}
}

func TestFromConfigSelectsBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.AudioDir = t.TempDir()
	store, err := FromConfig(&cfg)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	if _, ok := store.(*Local); !ok {
		t.Fatalf("expected local store, got %T", store)
	}

	cfg.Storage.Backend = config.StorageSupabase
	cfg.Storage.SupabaseURL = ""
	if _, err := FromConfig(&cfg); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}

	cfg.Storage.Backend = "ftp"
	if _, err := FromConfig(&cfg); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for unknown backend, got %v", err)
	}
}
