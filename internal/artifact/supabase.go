package artifact

import (
	"context"
	"fmt"
	"io"
	"strings"

	storage_go "github.com/supabase-community/storage-go"
	supabase "github.com/supabase-community/supabase-go"

	"podcaster/internal/services"
)

const audioContentType = "audio/mpeg"

// bucketClient is the subset of the Supabase Storage client in use.
type bucketClient interface {
	UploadFile(bucketID, relativePath string, data io.Reader, fileOptions ...storage_go.FileOptions) (storage_go.FileUploadResponse, error)
	RemoveFile(bucketID string, paths []string) ([]storage_go.FileUploadResponse, error)
	GetPublicUrl(bucketID, filePath string, urlOptions ...storage_go.UrlOptions) storage_go.SignedUrlResponse
}

// Supabase stores artifacts in a Supabase Storage bucket.
type Supabase struct {
	client bucketClient
	bucket string
}

// NewSupabase connects to the project at url using key.
func NewSupabase(url, key, bucket string) (*Supabase, error) {
	url = strings.TrimSpace(url)
	key = strings.TrimSpace(key)
	bucket = strings.TrimSpace(bucket)
	if url == "" || key == "" || bucket == "" {
		return nil, services.Wrap(services.ErrConfiguration, "artifact", "init", "supabase url, key and bucket are required", nil)
	}
	client, err := supabase.NewClient(url, key, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "artifact", "init", "initialize supabase client", err)
	}
	return newSupabaseWithClient(client.Storage, bucket), nil
}

func newSupabaseWithClient(client bucketClient, bucket string) *Supabase {
	return &Supabase{client: client, bucket: bucket}
}

func (s *Supabase) Ref(name string) string {
	return s.client.GetPublicUrl(s.bucket, name).SignedURL
}

func (s *Supabase) Write(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := validName(name); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	contentType := audioContentType
	upsert := false
	_, err := s.client.UploadFile(s.bucket, name, r, storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "artifact", "upload", fmt.Sprintf("bucket %s", s.bucket), err)
	}
	return s.Ref(name), nil
}

func (s *Supabase) Delete(ctx context.Context, name string) error {
	if err := validName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.client.RemoveFile(s.bucket, []string{name}); err != nil {
		return services.Wrap(services.ErrExternalTool, "artifact", "delete", fmt.Sprintf("bucket %s", s.bucket), err)
	}
	return nil
}
