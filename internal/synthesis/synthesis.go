// Package synthesis turns script units into per-segment audio clips on disk,
// skipping units whose synthesis fails.
package synthesis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"podcaster/internal/fileutil"
	"podcaster/internal/logging"
	"podcaster/internal/services"
)

// Synthesizer converts text into encoded audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// Unit is one piece of text to speak.
type Unit struct {
	Index   int
	Speaker string
	Text    string
	Voice   string
}

// Clip is a synthesized unit written to disk.
type Clip struct {
	Index   int
	Speaker string
	Voice   string
	Path    string
	Size    int64
}

// Failure records a unit that produced no audio.
type Failure struct {
	Index   int
	Speaker string
	Err     error
}

// Report lists produced clips in unit order plus the skipped units.
type Report struct {
	Clips  []Clip
	Failed []Failure
}

// Orchestrator drives a Synthesizer over a list of units.
type Orchestrator struct {
	synth       Synthesizer
	concurrency int
	extension   string
	logger      *slog.Logger
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithConcurrency allows up to n units in flight. The default is 1.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithExtension sets the clip file extension (default "mp3").
func WithExtension(ext string) Option {
	return func(o *Orchestrator) {
		if ext != "" {
			o.extension = ext
		}
	}
}

// New constructs an Orchestrator.
func New(synth Synthesizer, logger *slog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		synth:       synth,
		concurrency: 1,
		extension:   "mp3",
		logger:      logging.NewComponentLogger(logger, "synthesis"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ClipName returns the staging filename for the unit at index.
func ClipName(index int, ext string) string {
	return fmt.Sprintf("segment_%04d.%s", index+1, ext)
}

// Run synthesizes units into dir. Individual failures are logged and
// skipped; when no unit succeeds the returned error joins every failure.
// Context cancellation stops the run.
func (o *Orchestrator) Run(ctx context.Context, units []Unit, dir string) (Report, error) {
	if len(units) == 0 {
		return Report{}, services.Wrap(services.ErrValidation, "synthesis", "run", "no units to synthesize", nil)
	}
	logger := logging.WithContext(ctx, o.logger)
	clips := make([]*Clip, len(units))
	failures := make([]*Failure, len(units))

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(o.concurrency)
	for i, unit := range units {
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			clip, err := o.synthesizeOne(gctx, unit, dir)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logging.WarnWithContext(logger, "segment synthesis failed; skipping", "segment_skipped",
					logging.Int("segment", unit.Index),
					logging.String("speaker", unit.Speaker),
					logging.String("voice", unit.Voice),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check speech api key and quota"),
					logging.String(logging.FieldImpact, "segment omitted from the final audio"),
				)
				failures[i] = &Failure{Index: unit.Index, Speaker: unit.Speaker, Err: err}
				return nil
			}
			clips[i] = &clip
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return Report{}, err
	}

	var report Report
	for i := range units {
		if clips[i] != nil {
			report.Clips = append(report.Clips, *clips[i])
		}
		if failures[i] != nil {
			report.Failed = append(report.Failed, *failures[i])
		}
	}
	logger.Info("segment synthesis complete",
		logging.Int("units", len(units)),
		logging.Int("clips", len(report.Clips)),
		logging.Int("failed", len(report.Failed)),
	)
	if len(report.Clips) == 0 {
		errs := make([]error, 0, len(report.Failed))
		for _, f := range report.Failed {
			errs = append(errs, fmt.Errorf("segment %d: %w", f.Index, f.Err))
		}
		return report, services.Wrap(services.ErrExternalTool, "synthesis", "run",
			fmt.Sprintf("all %d segments failed", len(units)), errors.Join(errs...))
	}
	return report, nil
}

func (o *Orchestrator) synthesizeOne(ctx context.Context, unit Unit, dir string) (Clip, error) {
	started := time.Now()
	audio, err := o.synth.Synthesize(ctx, unit.Text, unit.Voice)
	if err != nil {
		return Clip{}, err
	}
	if len(audio) == 0 {
		return Clip{}, errors.New("empty audio")
	}
	path := filepath.Join(dir, ClipName(unit.Index, o.extension))
	size, err := fileutil.WriteAtomic(path, bytes.NewReader(audio))
	if err != nil {
		return Clip{}, fmt.Errorf("write clip: %w", err)
	}
	o.logger.Debug("segment synthesized",
		logging.Int("segment", unit.Index),
		logging.Int64("bytes", size),
		logging.Duration("elapsed", time.Since(started)),
	)
	return Clip{Index: unit.Index, Speaker: unit.Speaker, Voice: unit.Voice, Path: path, Size: size}, nil
}
