package script

import (
	"context"
	"errors"
	"strings"
	"testing"

	"podcaster/internal/logging"
	"podcaster/internal/podcast"
	"podcaster/internal/services"
)

type recordingGenerator struct {
	calls    int
	provider string
	prompt   string
	system   string
	reply    string
	err      error
}

func (r *recordingGenerator) Generate(_ context.Context, provider, prompt, system string) (string, error) {
	r.calls++
	r.provider, r.prompt, r.system = provider, prompt, system
	return r.reply, r.err
}

func TestValidateRequiresCustomInstructions(t *testing.T) {
	for _, mode := range []podcast.Mode{podcast.ModeCustomOne, podcast.ModeCustomTwo} {
		err := Validate(mode, "   ")
		if !errors.Is(err, services.ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", mode, err)
		}
		if !strings.Contains(err.Error(), "custom instructions") {
			t.Fatalf("%s: expected error to name custom instructions, got %v", mode, err)
		}
	}
	if err := Validate(podcast.ModeNormalOne, ""); err != nil {
		t.Fatalf("normal mode should not need instructions: %v", err)
	}
}

func TestBuildPromptVariants(t *testing.T) {
	text := "Octopuses have three hearts."

	single := BuildPrompt(podcast.ModeNormalOne, text, "ignored")
	if !strings.Contains(single.User, text) || strings.Contains(single.User, "HOST 1") {
		t.Fatalf("unexpected single-host prompt: %q", single.User)
	}
	if strings.Contains(single.System, "ignored") {
		t.Fatal("templated mode must not include instructions")
	}

	two := BuildPrompt(podcast.ModeNormalTwo, text, "")
	if !strings.Contains(two.User, `"HOST 1:" or "HOST 2:"`) {
		t.Fatalf("two-host prompt missing label format: %q", two.User)
	}

	custom := BuildPrompt(podcast.ModeCustomTwo, text, "Make it funny")
	if !strings.HasSuffix(custom.System, "Make it funny") {
		t.Fatalf("custom system prompt should end with instructions: %q", custom.System)
	}
	if !strings.Contains(custom.User, "Follow these custom instructions: Make it funny.") {
		t.Fatalf("custom user prompt missing instructions: %q", custom.User)
	}
	if !strings.Contains(custom.User, "HOST 2:") {
		t.Fatalf("custom two-host prompt missing label format: %q", custom.User)
	}
}

func TestCleanStripsMarkdown(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"**Bold** move", "Bold move"},
		{"an *italic* word", "an italic word"},
		{"## Heading\ntext", "Heading\ntext"},
		{"use `code` here", "use code here"},
		{"see [the docs](https://example.com)", "see the docs"},
		{"above\n---\nbelow", "above\n\nbelow"},
		{"  ***both***  ", "both"},
		{"HOST 1: plain line", "HOST 1: plain line"},
	}
	for _, tt := range tests {
		if got := Clean(tt.in); got != tt.want {
			t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanIsIdempotent(t *testing.T) {
	inputs := []string{
		"#`` x",
		"**a** *b* `c` [d](e) ----",
		"*---*",
		"# # # title",
		"****",
		"[**x**](y) ## z",
		"HOST 1: **Welcome** to the *show*!\nHOST 2: Thanks -- glad to be here.",
	}
	for _, in := range inputs {
		once := Clean(in)
		if twice := Clean(once); twice != once {
			t.Errorf("Clean not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
}

func TestPartition(t *testing.T) {
	short := Partition("one\n\ntwo\nthree")
	if short.MainContent != "one\n\ntwo\nthree" {
		t.Fatalf("short transcript should stay in main content: %+v", short)
	}
	if short.Introduction != IntroductionPlaceholder || short.Conclusion != ConclusionPlaceholder {
		t.Fatalf("expected placeholders: %+v", short)
	}

	lines := make([]string, 10)
	for i := range lines {
		lines[i] = string(rune('a' + i))
	}
	full := Partition(strings.Join(lines, "\n\n"))
	if full.Introduction != "a\nb" {
		t.Fatalf("unexpected introduction %q", full.Introduction)
	}
	if full.MainContent != "c\nd\ne\nf\ng\nh" {
		t.Fatalf("unexpected main content %q", full.MainContent)
	}
	if full.Conclusion != "i\nj" {
		t.Fatalf("unexpected conclusion %q", full.Conclusion)
	}

	four := Partition("a\nb\nc\nd")
	if four.Introduction != IntroductionPlaceholder || four.MainContent != "a\nb\nc" || four.Conclusion != "d" {
		t.Fatalf("unexpected four-line split: %+v", four)
	}
}

func TestTitle(t *testing.T) {
	if got := Title(podcast.ModeNormalTwo); got != "AI Generated Podcast - Normal Two Mode" {
		t.Fatalf("unexpected title %q", got)
	}
	if got := Title(podcast.ModeCustomOne); got != "AI Generated Podcast - Custom One Mode" {
		t.Fatalf("unexpected title %q", got)
	}
}

func TestGeneratorCleansOutput(t *testing.T) {
	gen := &recordingGenerator{reply: "## Intro\nHOST 1: **Hi** there\nHOST 2: Hello"}
	g := NewGenerator(gen, logging.NewNop())

	s, err := g.Generate(context.Background(), "openai", podcast.ModeNormalTwo, "source", "")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if s.Transcript != "Intro\nHOST 1: Hi there\nHOST 2: Hello" {
		t.Fatalf("unexpected transcript %q", s.Transcript)
	}
	if s.Words != 8 {
		t.Fatalf("unexpected word count %d", s.Words)
	}
	if gen.calls != 1 || gen.provider != "openai" || !strings.Contains(gen.prompt, "source") {
		t.Fatalf("unexpected backend call: %+v", gen)
	}
}

func TestGeneratorRejectsBeforeBackendCall(t *testing.T) {
	gen := &recordingGenerator{reply: "x"}
	g := NewGenerator(gen, logging.NewNop())
	_, err := g.Generate(context.Background(), "openai", podcast.ModeCustomOne, "source", "")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if gen.calls != 0 {
		t.Fatalf("expected no backend calls, got %d", gen.calls)
	}
}

func TestGeneratorPropagatesBackendError(t *testing.T) {
	backendErr := errors.New("anthropic complete: overloaded")
	gen := &recordingGenerator{err: backendErr}
	g := NewGenerator(gen, logging.NewNop())
	_, err := g.Generate(context.Background(), "anthropic", podcast.ModeNormalOne, "source", "")
	if !errors.Is(err, backendErr) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if gen.calls != 1 {
		t.Fatalf("expected a single attempt, got %d", gen.calls)
	}
}
