package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"podcaster/internal/fileutil"
	"podcaster/internal/services"
)

// Local stores artifacts in a directory.
type Local struct {
	dir    string
	prefix string
}

// NewLocal creates dir when missing.
func NewLocal(dir, publicPrefix string) (*Local, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, services.Wrap(services.ErrConfiguration, "artifact", "init", "audio_dir is required for local storage", nil)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "artifact", "init", "create audio_dir", err)
	}
	if strings.TrimSpace(publicPrefix) == "" {
		publicPrefix = "/audio"
	}
	return &Local{dir: dir, prefix: publicPrefix}, nil
}

// Dir returns the backing directory.
func (l *Local) Dir() string { return l.dir }

// Path returns the on-disk location for name.
func (l *Local) Path(name string) string { return filepath.Join(l.dir, name) }

func (l *Local) Ref(name string) string { return joinRef(l.prefix, name) }

func (l *Local) Write(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := validName(name); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := fileutil.WriteAtomic(l.Path(name), r); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "artifact", "write", "store audio", err)
	}
	return l.Ref(name), nil
}

// Import moves srcPath into the store under name.
func (l *Local) Import(ctx context.Context, name, srcPath string) (string, error) {
	if err := validName(name); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := fileutil.MoveFile(srcPath, l.Path(name)); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "artifact", "import", fmt.Sprintf("promote %s", filepath.Base(srcPath)), err)
	}
	return l.Ref(name), nil
}

func (l *Local) Delete(_ context.Context, name string) error {
	if err := validName(name); err != nil {
		return err
	}
	if err := os.Remove(l.Path(name)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return services.Wrap(services.ErrNotFound, "artifact", "delete", name, err)
		}
		return err
	}
	return nil
}
