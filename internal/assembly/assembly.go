// Package assembly merges synthesized clips into one persisted podcast
// artifact and removes the intermediate clip files.
package assembly

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"podcaster/internal/artifact"
	"podcaster/internal/logging"
	"podcaster/internal/services"
	"podcaster/internal/synthesis"
)

// Result describes the persisted artifact.
type Result struct {
	Ref      string
	Name     string
	Size     int64
	Segments int
	// Degraded is set when the clips could not be combined and only the
	// first clip was stored.
	Degraded bool
}

var nameCounter atomic.Uint64

// NewName returns a process-wide unique artifact name.
func NewName(now time.Time, ext string) string {
	if ext == "" {
		ext = "mp3"
	}
	fragment := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("podcast_%d_%d_%s.%s", now.UnixMilli(), nameCounter.Add(1), fragment, ext)
}

// Assembler writes clips into an artifact store.
type Assembler struct {
	store     artifact.Store
	logger    *slog.Logger
	extension string
	now       func() time.Time
}

// New constructs an Assembler that persists into store.
func New(store artifact.Store, logger *slog.Logger) *Assembler {
	return &Assembler{
		store:     store,
		logger:    logging.NewComponentLogger(logger, "assembly"),
		extension: "mp3",
		now:       time.Now,
	}
}

// combineError marks failures reading the clips, as opposed to failures in
// the store itself.
type combineError struct{ err error }

func (e *combineError) Error() string { return "combine clips: " + e.err.Error() }
func (e *combineError) Unwrap() error { return e.err }

type clipReader struct {
	r io.Reader
}

func (c clipReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if err != nil && err != io.EOF {
		err = &combineError{err: err}
	}
	return n, err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// Assemble persists clips in order as one artifact. A single clip is
// promoted as-is. When the clips cannot be combined the first clip is stored
// instead and the result is marked degraded. Clip files are removed
// afterwards regardless of outcome.
func (a *Assembler) Assemble(ctx context.Context, clips []synthesis.Clip) (Result, error) {
	if len(clips) == 0 {
		return Result{}, services.Wrap(services.ErrValidation, "assembly", "assemble", "no clips to assemble", nil)
	}
	logger := logging.WithContext(ctx, a.logger)
	defer a.cleanup(logger, clips)

	name := NewName(a.now(), a.extension)
	if len(clips) == 1 {
		ref, err := a.promote(ctx, name, clips[0])
		if err != nil {
			return Result{}, err
		}
		return Result{Ref: ref, Name: name, Size: clips[0].Size, Segments: 1}, nil
	}

	ref, size, err := a.combine(ctx, name, clips)
	if err == nil {
		logger.Info("podcast audio assembled",
			logging.String("artifact", name),
			logging.Int("segments", len(clips)),
			logging.Int64("bytes", size),
		)
		return Result{Ref: ref, Name: name, Size: size, Segments: len(clips)}, nil
	}
	var cerr *combineError
	if !errors.As(err, &cerr) {
		return Result{}, err
	}

	logging.WarnWithContext(logger, "could not combine clips; keeping first segment only", "audio_combine_fallback",
		logging.Int("segments", len(clips)),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check staging_dir disk space and permissions"),
		logging.String(logging.FieldImpact, "podcast audio contains only the first segment"),
	)
	ref, err = a.promote(ctx, name, clips[0])
	if err != nil {
		return Result{}, err
	}
	return Result{Ref: ref, Name: name, Size: clips[0].Size, Segments: 1, Degraded: true}, nil
}

func (a *Assembler) promote(ctx context.Context, name string, clip synthesis.Clip) (string, error) {
	if importer, ok := a.store.(artifact.Importer); ok {
		return importer.Import(ctx, name, clip.Path)
	}
	f, err := os.Open(clip.Path)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "assembly", "promote", "open clip", err)
	}
	defer f.Close()
	return a.store.Write(ctx, name, f)
}

func (a *Assembler) combine(ctx context.Context, name string, clips []synthesis.Clip) (string, int64, error) {
	readers := make([]io.Reader, 0, len(clips))
	for _, clip := range clips {
		f, err := os.Open(clip.Path)
		if err != nil {
			return "", 0, &combineError{err: err}
		}
		defer f.Close()
		readers = append(readers, clipReader{r: f})
	}
	counter := &countingReader{r: io.MultiReader(readers...)}
	ref, err := a.store.Write(ctx, name, counter)
	if err != nil {
		return "", 0, err
	}
	return ref, counter.n, nil
}

func (a *Assembler) cleanup(logger *slog.Logger, clips []synthesis.Clip) {
	for _, clip := range clips {
		if err := os.Remove(clip.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			logging.WarnWithContext(logger, "failed to delete intermediate clip", "clip_cleanup_failed",
				logging.String("path", clip.Path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "remove the file manually"),
				logging.String(logging.FieldImpact, "disk space not reclaimed"),
			)
		}
	}
}
