// Package dialogue attributes two-host transcript lines to speakers.
//
// Two label conventions are recognized: numbered ("HOST 1:", "HOST 2:") and
// named ("ALEX:", "SAM:"). Matching is case-insensitive and tolerates
// surrounding whitespace. Lines without a recognized label belong to host 1.
package dialogue

import (
	"regexp"
	"strings"
)

// Speaker identifies a host.
type Speaker int

const (
	Host1 Speaker = iota + 1
	Host2
)

func (s Speaker) String() string {
	switch s {
	case Host1:
		return "host1"
	case Host2:
		return "host2"
	default:
		return "unknown"
	}
}

// Kind tags a classified line.
type Kind int

const (
	Unlabeled Kind = iota
	LabeledHost1
	LabeledHost2
)

// Label is the result of classifying one line.
type Label struct {
	Kind Kind
	// Text is the line without its speaker label, trimmed.
	Text string
}

// Matcher recognizes one speaker-label convention.
type Matcher interface {
	Match(line string) (speaker Speaker, rest string, ok bool)
}

type prefixMatcher struct {
	pattern  *regexp.Regexp
	speakers map[string]Speaker
}

func (m prefixMatcher) Match(line string) (Speaker, string, bool) {
	groups := m.pattern.FindStringSubmatch(line)
	if groups == nil {
		return 0, "", false
	}
	speaker, ok := m.speakers[strings.ToLower(groups[1])]
	if !ok {
		return 0, "", false
	}
	return speaker, strings.TrimSpace(groups[2]), true
}

// NumberedMatcher recognizes "HOST 1:" and "HOST 2:".
func NumberedMatcher() Matcher {
	return prefixMatcher{
		pattern:  regexp.MustCompile(`(?is)^\s*host\s*([12])\s*:(.*)$`),
		speakers: map[string]Speaker{"1": Host1, "2": Host2},
	}
}

// NamedMatcher recognizes "ALEX:" and "SAM:".
func NamedMatcher() Matcher {
	return prefixMatcher{
		pattern:  regexp.MustCompile(`(?is)^\s*(alex|sam)\s*:(.*)$`),
		speakers: map[string]Speaker{"alex": Host1, "sam": Host2},
	}
}

var defaultMatchers = []Matcher{NumberedMatcher(), NamedMatcher()}

// Classify tags line with its speaker label, if any.
func Classify(line string) Label {
	return classifyWith(defaultMatchers, line)
}

func classifyWith(matchers []Matcher, line string) Label {
	for _, m := range matchers {
		speaker, rest, ok := m.Match(line)
		if !ok {
			continue
		}
		if speaker == Host2 {
			return Label{Kind: LabeledHost2, Text: rest}
		}
		return Label{Kind: LabeledHost1, Text: rest}
	}
	return Label{Kind: Unlabeled, Text: strings.TrimSpace(line)}
}

// Voices assigns synthesis voices to hosts.
type Voices struct {
	Host1 string
	Host2 string
}

func (v Voices) For(s Speaker) string {
	if s == Host2 {
		return v.Host2
	}
	return v.Host1
}

// Segment is one attributed span of transcript text.
type Segment struct {
	Index   int
	Speaker Speaker
	Text    string
	Voice   string
}

// Split attributes every non-blank line of transcript. Labeled lines keep
// their speaker and are dropped when nothing follows the label; unlabeled
// lines go to host 1. Order is preserved and indexes are dense.
func Split(transcript string, voices Voices) []Segment {
	var segments []Segment
	for line := range strings.SplitSeq(transcript, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		label := Classify(line)
		if label.Text == "" {
			continue
		}
		speaker := Host1
		if label.Kind == LabeledHost2 {
			speaker = Host2
		}
		segments = append(segments, Segment{
			Index:   len(segments),
			Speaker: speaker,
			Text:    label.Text,
			Voice:   voices.For(speaker),
		})
	}
	return segments
}

// Speakers counts segments per speaker.
func Speakers(segments []Segment) map[Speaker]int {
	counts := make(map[Speaker]int, 2)
	for _, s := range segments {
		counts[s.Speaker]++
	}
	return counts
}
