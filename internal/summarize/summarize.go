// Package summarize compresses chunked source text into a bounded summary,
// one generation call per chunk, degrading to verbatim extraction when a call
// fails.
package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"podcaster/internal/chunker"
	"podcaster/internal/logging"
	"podcaster/internal/textgen"
	"podcaster/internal/textutil"
)

const (
	// DefaultTargetSentences is the combined sentence budget across chunks.
	DefaultTargetSentences = 10
	defaultConcurrency     = 4
	defaultMaxRounds       = 3
)

const systemPrompt = "You condense source material for a podcast writer. Keep facts, names and figures. Respond with plain prose only."

// Summary is the compressed form of one chunk.
type Summary struct {
	Index    int
	Text     string
	Fallback bool
}

// Result is the ordered set of chunk summaries.
type Result struct {
	Summaries []Summary
	// Text joins the summaries with blank lines in chunk order.
	Text string
	// Fallbacks counts chunks that used verbatim extraction.
	Fallbacks int
	// Calls is the number of generation requests issued.
	Calls int
}

// Options configures a Summarizer.
type Options struct {
	Provider        string
	TargetSentences int
	Concurrency     int
	// MaxRounds bounds re-summarization when the joined summary is still
	// longer than Chunking.Threshold words. One disables further rounds.
	MaxRounds int
	Chunking  chunker.Options
}

// Summarizer runs chunk summaries through a text generator.
type Summarizer struct {
	gen    textgen.Generator
	opts   Options
	logger *slog.Logger
}

// New constructs a Summarizer.
func New(gen textgen.Generator, opts Options, logger *slog.Logger) *Summarizer {
	if opts.TargetSentences <= 0 {
		opts.TargetSentences = DefaultTargetSentences
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = defaultMaxRounds
	}
	return &Summarizer{gen: gen, opts: opts, logger: logging.NewComponentLogger(logger, "summarize")}
}

// SentenceBudget returns the per-chunk sentence budget for count chunks.
func SentenceBudget(target, count int) int {
	if count <= 0 {
		return max(1, target)
	}
	return max(1, target/count)
}

// Prompt returns the summarization request for one chunk.
func Prompt(text string, sentences int) string {
	unit := "sentences"
	if sentences == 1 {
		unit = "sentence"
	}
	return fmt.Sprintf("Summarize the following passage in %d %s. Preserve the key points and tone.\n\n%s", sentences, unit, text)
}

// Summarize compresses chunks in order. When the joined summary still
// exceeds the chunking threshold it is re-chunked and summarized again, up to
// MaxRounds, so the output stays near the target length however long the
// source is. Per-chunk failures fall back to the chunk's leading sentences;
// only context cancellation aborts the run.
func (s *Summarizer) Summarize(ctx context.Context, chunks []chunker.Chunk) (Result, error) {
	result, err := s.round(ctx, chunks)
	if err != nil {
		return Result{}, err
	}
	threshold := s.opts.Chunking.Threshold
	if threshold <= 0 {
		threshold = chunker.DefaultThreshold
	}
	for round := 2; round <= s.opts.MaxRounds && textutil.WordCount(result.Text) > threshold; round++ {
		next := chunker.Split(result.Text, s.opts.Chunking)
		s.logger.Info("summary still over threshold; reducing again",
			logging.Int("round", round),
			logging.Int("chunks", len(next)),
			logging.Int("words", textutil.WordCount(result.Text)),
		)
		reduced, err := s.round(ctx, next)
		if err != nil {
			return Result{}, err
		}
		reduced.Calls += result.Calls
		reduced.Fallbacks += result.Fallbacks
		result = reduced
	}
	return result, nil
}

func (s *Summarizer) round(ctx context.Context, chunks []chunker.Chunk) (Result, error) {
	budget := SentenceBudget(s.opts.TargetSentences, len(chunks))
	summaries := make([]Summary, len(chunks))
	logger := logging.WithContext(ctx, s.logger)

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(s.opts.Concurrency)
	for i, chunk := range chunks {
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			text, err := s.gen.Generate(gctx, s.opts.Provider, Prompt(chunk.Text, budget), systemPrompt)
			text = strings.TrimSpace(text)
			if err == nil && text != "" {
				summaries[i] = Summary{Index: chunk.Index, Text: text}
				return nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err == nil {
				err = fmt.Errorf("empty summary")
			}
			logging.WarnWithContext(logger, "chunk summary failed; using leading sentences", "summary_fallback",
				logging.Int("chunk", chunk.Index),
				logging.Int("sentences", budget),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check provider credentials and rate limits"),
				logging.String(logging.FieldImpact, "chunk represented by its opening sentences"),
			)
			summaries[i] = Summary{Index: chunk.Index, Text: textutil.FirstSentences(chunk.Text, budget), Fallback: true}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return Result{}, err
	}

	result := Result{Summaries: summaries, Calls: len(chunks)}
	parts := make([]string, 0, len(summaries))
	for _, summary := range summaries {
		if summary.Fallback {
			result.Fallbacks++
		}
		if summary.Text != "" {
			parts = append(parts, summary.Text)
		}
	}
	result.Text = strings.Join(parts, "\n\n")
	return result, nil
}
