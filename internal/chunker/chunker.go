// Package chunker slices long source text into fixed-size word chunks so each
// piece fits comfortably inside a single text-generation request.
package chunker

import "strings"

const (
	// DefaultThreshold is the word count at or below which text is not split.
	DefaultThreshold = 500
	// DefaultChunkSize is the number of words per chunk.
	DefaultChunkSize = 500
)

// Options controls chunking. Zero values select the defaults.
type Options struct {
	Threshold int
	ChunkSize int
}

func (o Options) withDefaults() Options {
	if o.Threshold <= 0 {
		o.Threshold = DefaultThreshold
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	return o
}

// Chunk is a contiguous word-bounded slice of the source.
type Chunk struct {
	Index int
	Text  string
	Words int
}

// NeedsChunking reports whether text exceeds threshold words.
func NeedsChunking(text string, threshold int) bool {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return len(strings.Fields(text)) > threshold
}

// Split returns text unchanged as a single chunk when it is within the
// threshold. Longer text is cut into ChunkSize-word pieces joined by single
// spaces; the last piece may be shorter. Empty text yields no chunks.
func Split(text string, opts Options) []Chunk {
	opts = opts.withDefaults()
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if len(words) <= opts.Threshold {
		return []Chunk{{Index: 0, Text: text, Words: len(words)}}
	}

	chunks := make([]Chunk, 0, (len(words)+opts.ChunkSize-1)/opts.ChunkSize)
	for start := 0; start < len(words); start += opts.ChunkSize {
		end := min(start+opts.ChunkSize, len(words))
		chunks = append(chunks, Chunk{
			Index: len(chunks),
			Text:  strings.Join(words[start:end], " "),
			Words: end - start,
		})
	}
	return chunks
}

// Texts returns the chunk bodies in order.
func Texts(chunks []Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Text
	}
	return out
}
