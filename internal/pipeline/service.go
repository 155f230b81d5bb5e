package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"podcaster/internal/artifact"
	"podcaster/internal/assembly"
	"podcaster/internal/chunker"
	"podcaster/internal/config"
	"podcaster/internal/dialogue"
	"podcaster/internal/logging"
	"podcaster/internal/podcast"
	"podcaster/internal/script"
	"podcaster/internal/services"
	"podcaster/internal/services/speech"
	"podcaster/internal/staging"
	"podcaster/internal/summarize"
	"podcaster/internal/synthesis"
	"podcaster/internal/textgen"
	"podcaster/internal/textutil"
)

// Generator is the text-generation capability the pipeline needs.
type Generator interface {
	textgen.Generator
	Resolve(provider string) (string, error)
}

// Recorder persists a summary of each generated episode.
type Recorder interface {
	Record(ctx context.Context, rec podcast.Record) (int64, error)
}

// Deps are the collaborators a Service calls out to. Synthesizer, Store and
// Recorder are optional; without the first two audio requests degrade to
// script-only responses.
type Deps struct {
	Generator   Generator
	Synthesizer synthesis.Synthesizer
	Store       artifact.Store
	Recorder    Recorder
}

// Options tunes pipeline behaviour.
type Options struct {
	Chunking             chunker.Options
	TargetSentences      int
	SummaryConcurrency   int
	SynthesisConcurrency int
	RequestTimeout       time.Duration
	StagingDir           string
	DefaultVoice         string
}

// OptionsFromConfig maps configuration onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Chunking: chunker.Options{
			Threshold: cfg.Pipeline.ChunkThresholdWords,
			ChunkSize: cfg.Pipeline.ChunkSizeWords,
		},
		TargetSentences:      cfg.Pipeline.TargetSummarySentences,
		SummaryConcurrency:   cfg.Pipeline.SummaryConcurrency,
		SynthesisConcurrency: cfg.Pipeline.SynthesisConcurrency,
		RequestTimeout:       time.Duration(cfg.Pipeline.RequestTimeoutSeconds) * time.Second,
		StagingDir:           cfg.Paths.StagingDir,
		DefaultVoice:         cfg.Speech.DefaultVoice,
	}
}

// Service produces podcasts.
type Service struct {
	deps    Deps
	opts    Options
	scripts *script.Generator
	logger  *slog.Logger
}

// NewService constructs a Service.
func NewService(deps Deps, opts Options, logger *slog.Logger) *Service {
	if strings.TrimSpace(opts.DefaultVoice) == "" {
		opts.DefaultVoice = speech.DefaultVoice
	}
	return &Service{
		deps:    deps,
		opts:    opts,
		scripts: script.NewGenerator(deps.Generator, logger),
		logger:  logging.NewComponentLogger(logger, "pipeline"),
	}
}

// AudioEnabled reports whether audio requests can be served.
func (s *Service) AudioEnabled() bool {
	return s.deps.Synthesizer != nil && s.deps.Store != nil
}

// request is a validated Request.
type request struct {
	text           string
	provider       string
	mode           podcast.Mode
	instructions   string
	voice          string
	secondaryVoice string
	includeAudio   bool
	title          string
	origin         string
}

// Validate checks req without calling any backend.
func (s *Service) Validate(req podcast.Request) error {
	_, err := s.validate(req)
	return err
}

func (s *Service) validate(req podcast.Request) (request, error) {
	mode, err := podcast.ParseMode(req.Mode)
	if err != nil {
		return request{}, services.Wrap(services.ErrValidation, "pipeline", "validate", err.Error(), nil)
	}
	if strings.TrimSpace(req.Text) == "" {
		return request{}, services.Wrap(services.ErrValidation, "pipeline", "validate", "source text is required", nil)
	}
	if err := script.Validate(mode, req.Instructions); err != nil {
		return request{}, err
	}
	provider, err := s.deps.Generator.Resolve(req.Provider)
	if err != nil {
		return request{}, err
	}

	voice := speech.NormalizeVoice(req.Voice)
	if voice == "" {
		voice = speech.NormalizeVoice(s.opts.DefaultVoice)
	}
	if err := speech.ValidateVoice(voice); err != nil {
		return request{}, err
	}
	secondary := ""
	if mode.TwoHost() {
		secondary = speech.NormalizeVoice(req.SecondaryVoice)
		if secondary == "" && req.IncludeAudio {
			return request{}, services.Wrap(services.ErrValidation, "pipeline", "validate",
				"secondary voice is required for two-host audio", nil)
		}
		if secondary != "" {
			if err := speech.ValidateVoice(secondary); err != nil {
				return request{}, err
			}
		}
	}
	return request{
		text:           req.Text,
		provider:       provider,
		mode:           mode,
		instructions:   strings.TrimSpace(req.Instructions),
		voice:          voice,
		secondaryVoice: secondary,
		includeAudio:   req.IncludeAudio,
		title:          strings.TrimSpace(req.Title),
		origin:         strings.TrimSpace(req.Origin),
	}, nil
}

// Generate runs the full pipeline for req. Validation problems are reported
// before any backend call. Audio failures never fail the request.
func (s *Service) Generate(ctx context.Context, req podcast.Request) (*podcast.Response, error) {
	requestID := uuid.NewString()
	ctx = services.WithRequestID(ctx, requestID)
	logger := logging.WithContext(ctx, s.logger)

	valid, err := s.validate(req)
	if err != nil {
		logger.Info("podcast request rejected", logging.Error(err))
		return nil, err
	}
	if s.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.RequestTimeout)
		defer cancel()
	}

	started := time.Now()
	sourceWords := textutil.WordCount(valid.text)
	logger.Info("podcast generation started",
		logging.String("mode", valid.mode.String()),
		logging.String(logging.FieldProvider, valid.provider),
		logging.Int("source_words", sourceWords),
		logging.Bool("include_audio", valid.includeAudio),
	)

	text, err := s.condense(ctx, valid)
	if err != nil {
		return nil, err
	}

	generated, err := s.scripts.Generate(ctx, valid.provider, valid.mode, text, valid.instructions)
	if err != nil {
		return nil, timeoutAware(ctx, err)
	}

	sections := script.Partition(generated.Transcript)
	title := valid.title
	if title == "" {
		title = script.Title(valid.mode)
	}
	resp := &podcast.Response{
		Script: podcast.Script{
			Title:             title,
			Introduction:      sections.Introduction,
			MainContent:       sections.MainContent,
			Conclusion:        sections.Conclusion,
			EstimatedDuration: podcast.EstimateDuration(generated.Words),
			Mode:              valid.mode,
			Hosts:             podcast.Hosts(valid.mode, valid.voice, valid.secondaryVoice),
			Transcript:        generated.Transcript,
		},
		RequestID: requestID,
	}

	if valid.includeAudio {
		result, report, err := s.produceAudio(ctx, requestID, valid, generated.Transcript)
		resp.FailedClips = len(report.Failed)
		if err != nil {
			logging.WarnWithContext(logger, "audio generation failed; returning script only", "audio_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check speech backend credentials and audio storage"),
				logging.String(logging.FieldImpact, "response has no audio"),
			)
			resp.AudioError = err.Error()
		} else {
			resp.AudioURL = result.Ref
			resp.AudioDegraded = result.Degraded
			resp.Segments = result.Segments
		}
	}

	s.record(ctx, logger, resp, valid, sourceWords, generated.Words)
	logger.Info("podcast generation complete",
		logging.String("title", title),
		logging.String("duration_estimate", resp.Script.EstimatedDuration),
		logging.Bool("audio", resp.AudioURL != ""),
		logging.Duration("elapsed", time.Since(started)),
	)
	return resp, nil
}

// condense summarizes sources longer than the chunking threshold.
func (s *Service) condense(ctx context.Context, req request) (string, error) {
	threshold := s.opts.Chunking.Threshold
	if threshold <= 0 {
		threshold = chunker.DefaultThreshold
	}
	if !chunker.NeedsChunking(req.text, threshold) {
		return req.text, nil
	}
	chunks := chunker.Split(req.text, s.opts.Chunking)
	summarizer := summarize.New(s.deps.Generator, summarize.Options{
		Provider:        req.provider,
		TargetSentences: s.opts.TargetSentences,
		Concurrency:     s.opts.SummaryConcurrency,
		Chunking:        s.opts.Chunking,
	}, s.logger)
	result, err := summarizer.Summarize(ctx, chunks)
	if err != nil {
		return "", timeoutAware(ctx, err)
	}
	return result.Text, nil
}

// Units converts a transcript into synthesis units. Two-host transcripts are
// split per speaker turn; single-host transcripts are one unit.
func Units(mode podcast.Mode, transcript, voice, secondaryVoice string) []synthesis.Unit {
	if !mode.TwoHost() {
		if strings.TrimSpace(transcript) == "" {
			return nil
		}
		return []synthesis.Unit{{Index: 0, Speaker: dialogue.Host1.String(), Text: transcript, Voice: voice}}
	}
	segments := dialogue.Split(transcript, dialogue.Voices{Host1: voice, Host2: secondaryVoice})
	units := make([]synthesis.Unit, len(segments))
	for i, seg := range segments {
		units[i] = synthesis.Unit{Index: seg.Index, Speaker: seg.Speaker.String(), Text: seg.Text, Voice: seg.Voice}
	}
	return units
}

func (s *Service) produceAudio(ctx context.Context, requestID string, req request, transcript string) (assembly.Result, synthesis.Report, error) {
	if !s.AudioEnabled() {
		return assembly.Result{}, synthesis.Report{}, services.Wrap(services.ErrConfiguration, "pipeline", "audio",
			"speech synthesis or audio storage is not configured", nil)
	}
	units := Units(req.mode, transcript, req.voice, req.secondaryVoice)
	if len(units) == 0 {
		return assembly.Result{}, synthesis.Report{}, services.Wrap(services.ErrValidation, "pipeline", "audio", "script has no speakable lines", nil)
	}

	dir, err := staging.Create(s.opts.StagingDir, requestID)
	if err != nil {
		return assembly.Result{}, synthesis.Report{}, services.Wrap(services.ErrConfiguration, "pipeline", "audio", "create staging dir", err)
	}
	defer staging.Remove(dir, s.logger)

	orchestrator := synthesis.New(s.deps.Synthesizer, s.logger, synthesis.WithConcurrency(s.opts.SynthesisConcurrency))
	report, err := orchestrator.Run(ctx, units, dir)
	if err != nil {
		return assembly.Result{}, report, timeoutAware(ctx, err)
	}
	result, err := assembly.New(s.deps.Store, s.logger).Assemble(ctx, report.Clips)
	if err != nil {
		return assembly.Result{}, report, timeoutAware(ctx, err)
	}
	return result, report, nil
}

func (s *Service) record(ctx context.Context, logger *slog.Logger, resp *podcast.Response, req request, sourceWords, scriptWords int) {
	if s.deps.Recorder == nil {
		return
	}
	id, err := s.deps.Recorder.Record(context.WithoutCancel(ctx), podcast.Record{
		RequestID:         resp.RequestID,
		Title:             resp.Script.Title,
		Mode:              req.mode,
		Provider:          req.provider,
		SourceWords:       sourceWords,
		ScriptWords:       scriptWords,
		EstimatedDuration: resp.Script.EstimatedDuration,
		AudioURL:          resp.AudioURL,
		AudioDegraded:     resp.AudioDegraded,
		Origin:            req.origin,
		Transcript:        resp.Script.Transcript,
		CreatedAt:         time.Now().UTC(),
	})
	if err != nil {
		logging.WarnWithContext(logger, "failed to record podcast history", "history_record_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check data_dir permissions"),
			logging.String(logging.FieldImpact, "episode missing from history"),
		)
		return
	}
	resp.ID = id
}

// timeoutAware tags errors caused by the request deadline.
func timeoutAware(ctx context.Context, err error) error {
	if err == nil || errors.Is(err, services.ErrTimeout) {
		return err
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return services.Wrap(services.ErrTimeout, "pipeline", "generate", "request exceeded deadline", err)
	}
	return err
}
