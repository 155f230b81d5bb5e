package textutil

import (
	"strings"
	"unicode"
)

// WordCount returns the number of whitespace-delimited words in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// SplitSentences breaks text into trimmed sentences. Terminal punctuation is
// kept with its sentence; a run of terminators ("?!", "...") stays together.
func SplitSentences(text string) []string {
	runes := []rune(strings.TrimSpace(text))
	var sentences []string
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) {
			continue
		}
		end := i + 1
		for end < len(runes) && (isTerminator(runes[end]) || isCloser(runes[end])) {
			end++
		}
		if end < len(runes) && !unicode.IsSpace(runes[end]) {
			i = end - 1
			continue
		}
		if s := strings.TrimSpace(string(runes[start:end])); s != "" {
			sentences = append(sentences, s)
		}
		start = end
		i = end - 1
	}
	if start < len(runes) {
		if s := strings.TrimSpace(string(runes[start:])); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// FirstSentences returns the first n sentences of text joined by single
// spaces. n below one is treated as one.
func FirstSentences(text string, n int) string {
	if n < 1 {
		n = 1
	}
	sentences := SplitSentences(text)
	if len(sentences) > n {
		sentences = sentences[:n]
	}
	return strings.Join(sentences, " ")
}

// Truncate cuts text to at most limit runes, appending suffix when a cut is
// made. The suffix is not counted against limit.
func Truncate(text string, limit int, suffix string) string {
	runes := []rune(text)
	if limit < 0 || len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + suffix
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isCloser(r rune) bool {
	return r == '"' || r == '\'' || r == ')' || r == '”' || r == '’'
}
