package script

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"podcaster/internal/logging"
	"podcaster/internal/podcast"
	"podcaster/internal/services"
	"podcaster/internal/textgen"
	"podcaster/internal/textutil"
)

// Script is a generated, cleaned transcript.
type Script struct {
	Mode       podcast.Mode
	Provider   string
	Transcript string
	Raw        string
	Words      int
}

// Generator produces scripts through a text-generation backend.
type Generator struct {
	gen    textgen.Generator
	logger *slog.Logger
}

// NewGenerator constructs a Generator.
func NewGenerator(gen textgen.Generator, logger *slog.Logger) *Generator {
	return &Generator{gen: gen, logger: logging.NewComponentLogger(logger, "script")}
}

// Generate validates the request, makes exactly one generation call, and
// cleans the output. Backend errors are returned unchanged apart from the
// provider context added by the registry.
func (g *Generator) Generate(ctx context.Context, provider string, mode podcast.Mode, text, instructions string) (Script, error) {
	if err := Validate(mode, instructions); err != nil {
		return Script{}, err
	}
	if strings.TrimSpace(text) == "" {
		return Script{}, services.Wrap(services.ErrValidation, "script", "generate", "source text is empty", nil)
	}

	prompt := BuildPrompt(mode, text, instructions)
	logger := logging.WithContext(ctx, g.logger)
	started := time.Now()
	raw, err := g.gen.Generate(ctx, provider, prompt.User, prompt.System)
	if err != nil {
		return Script{}, err
	}
	transcript := Clean(raw)
	if transcript == "" {
		return Script{}, services.Wrap(services.ErrExternalTool, "script", "generate", "provider "+provider+" returned an empty script", nil)
	}
	words := textutil.WordCount(transcript)
	logger.Info("script generated",
		logging.String("mode", mode.String()),
		logging.Int("words", words),
		logging.Int("raw_chars", len(raw)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return Script{Mode: mode, Provider: provider, Transcript: transcript, Raw: raw, Words: words}, nil
}
