// Package artifact persists finished podcast audio and hands back the
// reference clients use to fetch it.
//
// Two backends exist: Local writes into a directory served under a public
// URL prefix, Supabase uploads into a Supabase Storage bucket.
package artifact

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"podcaster/internal/config"
	"podcaster/internal/services"
)

// Store persists artifacts by name.
type Store interface {
	Write(ctx context.Context, name string, r io.Reader) (string, error)
	Delete(ctx context.Context, name string) error
	Ref(name string) string
}

// Importer is implemented by stores that can adopt an existing local file
// without re-streaming it.
type Importer interface {
	Import(ctx context.Context, name, srcPath string) (string, error)
}

// FromConfig builds the store selected by cfg.Storage.Backend.
func FromConfig(cfg *config.Config) (Store, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "artifact", "init", "configuration required", nil)
	}
	switch cfg.Storage.Backend {
	case config.StorageSupabase:
		return NewSupabase(cfg.Storage.SupabaseURL, cfg.Storage.SupabaseKey, cfg.Storage.Bucket)
	case config.StorageLocal, "":
		return NewLocal(cfg.Paths.AudioDir, cfg.Server.PublicAudioPrefix)
	default:
		return nil, services.Wrap(services.ErrConfiguration, "artifact", "init",
			fmt.Sprintf("unknown storage backend %q", cfg.Storage.Backend), nil)
	}
}

func validName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || trimmed != name || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return services.Wrap(services.ErrValidation, "artifact", "name", fmt.Sprintf("invalid artifact name %q", name), nil)
	}
	return nil
}

func joinRef(prefix, name string) string {
	prefix = strings.TrimRight(prefix, "/")
	if strings.Contains(prefix, "://") {
		return prefix + "/" + name
	}
	return path.Join("/", prefix, name)
}
