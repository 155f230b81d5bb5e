package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"podcaster/internal/chunker"
	"podcaster/internal/logging"
	"podcaster/internal/textutil"
)

type fakeGenerator struct {
	mu      sync.Mutex
	calls   int32
	prompts []string
	reply   func(prompt string) (string, error)
}

func (f *fakeGenerator) Generate(_ context.Context, _, prompt, _ string) (string, error) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	return f.reply(prompt)
}

func sentences(prefix string, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("%s sentence number %d has several words.", prefix, i)
	}
	return strings.Join(parts, " ")
}

func TestSentenceBudget(t *testing.T) {
	tests := []struct{ target, count, want int }{
		{10, 1, 10},
		{10, 3, 3},
		{10, 6, 1},
		{10, 20, 1},
		{10, 0, 10},
	}
	for _, tt := range tests {
		if got := SentenceBudget(tt.target, tt.count); got != tt.want {
			t.Errorf("SentenceBudget(%d,%d) = %d, want %d", tt.target, tt.count, got, tt.want)
		}
	}
}

func TestSummarizeOrdersResultsByChunk(t *testing.T) {
	gen := &fakeGenerator{reply: func(prompt string) (string, error) {
		// Later chunks finish first.
		if strings.Contains(prompt, "alpha") {
			time.Sleep(20 * time.Millisecond)
			return "Alpha summary.", nil
		}
		return "Beta summary.", nil
	}}
	chunks := []chunker.Chunk{{Index: 0, Text: "alpha text."}, {Index: 1, Text: "beta text."}}
	s := New(gen, Options{Concurrency: 2}, logging.NewNop())

	res, err := s.Summarize(context.Background(), chunks)
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if res.Text != "Alpha summary.\n\nBeta summary." {
		t.Fatalf("unexpected text %q", res.Text)
	}
	if res.Calls != 2 || gen.calls != 2 {
		t.Fatalf("expected one call per chunk, got %d", gen.calls)
	}
	for _, p := range gen.prompts {
		if !strings.Contains(p, "in 5 sentences") {
			t.Fatalf("expected budget of 5 sentences in prompt, got %q", p)
		}
	}
}

func TestSummarizeFallsBackPerChunk(t *testing.T) {
	gen := &fakeGenerator{reply: func(prompt string) (string, error) {
		if strings.Contains(prompt, "second") {
			return "", errors.New("provider down")
		}
		return "Fine.", nil
	}}
	chunks := []chunker.Chunk{
		{Index: 0, Text: "first chunk."},
		{Index: 1, Text: sentences("second", 6)},
		{Index: 2, Text: "third chunk."},
	}
	s := New(gen, Options{}, logging.NewNop())

	res, err := s.Summarize(context.Background(), chunks)
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if res.Fallbacks != 1 {
		t.Fatalf("expected 1 fallback, got %d", res.Fallbacks)
	}
	want := textutil.FirstSentences(chunks[1].Text, 3)
	if !res.Summaries[1].Fallback || res.Summaries[1].Text != want {
		t.Fatalf("unexpected fallback summary %+v", res.Summaries[1])
	}
	if got := len(textutil.SplitSentences(res.Summaries[1].Text)); got != 3 {
		t.Fatalf("expected 3 fallback sentences, got %d", got)
	}
}

func TestSummarizeCancellationIsFatal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	gen := &fakeGenerator{reply: func(string) (string, error) {
		cancel()
		return "", context.Canceled
	}}
	s := New(gen, Options{Concurrency: 1}, logging.NewNop())
	_, err := s.Summarize(ctx, []chunker.Chunk{{Index: 0, Text: "a."}, {Index: 1, Text: "b."}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSummarizeOutputDoesNotGrowWithChunkCount(t *testing.T) {
	// Every call fails, so each chunk contributes its leading sentences and
	// further rounds must bring the total back under the threshold.
	gen := &fakeGenerator{reply: func(string) (string, error) { return "", errors.New("down") }}
	s := New(gen, Options{Chunking: chunker.Options{Threshold: 500, ChunkSize: 500}}, logging.NewNop())

	var lengths []int
	for _, words := range []int{3000, 12000, 30000, 80000} {
		text := sentences("source", words/7)
		chunks := chunker.Split(text, chunker.Options{})
		res, err := s.Summarize(context.Background(), chunks)
		if err != nil {
			t.Fatalf("Summarize returned error: %v", err)
		}
		lengths = append(lengths, textutil.WordCount(res.Text))
	}
	for i, n := range lengths {
		if n > 500 {
			t.Fatalf("summary %d has %d words, expected at most the threshold", i, n)
		}
	}
}
