package script

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"podcaster/internal/podcast"
)

// Placeholders used when a section would otherwise be empty.
const (
	IntroductionPlaceholder = "Welcome to this episode..."
	ConclusionPlaceholder   = "Thanks for listening!"
)

// Sections is the display split of a transcript.
type Sections struct {
	Introduction string
	MainContent  string
	Conclusion   string
}

// Partition splits transcript by non-blank line count: the first 20% of lines
// introduce, the last 20% conclude, the rest is main content. Three or fewer
// lines all go to main content. The split is a display heuristic only.
func Partition(transcript string) Sections {
	var lines []string
	for line := range strings.SplitSeq(transcript, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	sections := Sections{MainContent: transcript}
	if n := len(lines); n > 3 {
		head := n * 2 / 10
		tail := n * 8 / 10
		sections = Sections{
			Introduction: strings.Join(lines[:head], "\n"),
			MainContent:  strings.Join(lines[head:tail], "\n"),
			Conclusion:   strings.Join(lines[tail:], "\n"),
		}
	}
	if sections.Introduction == "" {
		sections.Introduction = IntroductionPlaceholder
	}
	if sections.Conclusion == "" {
		sections.Conclusion = ConclusionPlaceholder
	}
	return sections
}

var titleCaser = cases.Title(language.Und)

// Title renders the episode title for mode, e.g.
// "AI Generated Podcast - Normal Two Mode".
func Title(mode podcast.Mode) string {
	words := strings.ReplaceAll(string(mode), "-", " ")
	return "AI Generated Podcast - " + titleCaser.String(words) + " Mode"
}
