package script

import (
	"regexp"
	"strings"
)

// Rule is one markdown-stripping pass.
type Rule struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

// Rules is the ordered cleanup pipeline applied to generated scripts.
var Rules = []Rule{
	{Name: "strip-bold", Pattern: regexp.MustCompile(`\*\*(.*?)\*\*`), Replacement: "$1"},
	{Name: "strip-italic", Pattern: regexp.MustCompile(`\*(.*?)\*`), Replacement: "$1"},
	{Name: "strip-headers", Pattern: regexp.MustCompile(`#{1,6}\s`), Replacement: ""},
	{Name: "strip-code", Pattern: regexp.MustCompile("`(.*?)`"), Replacement: "$1"},
	{Name: "strip-links", Pattern: regexp.MustCompile(`\[(.*?)\]\(.*?\)`), Replacement: "$1"},
	{Name: "strip-hr", Pattern: regexp.MustCompile(`-{3,}`), Replacement: ""},
}

// Clean applies Rules in order and trims the result. A later rule can expose
// a pattern an earlier rule would have removed ("#`` x" becomes "# x"), so
// the pass repeats until nothing changes; every match shortens the text, so
// the loop terminates. Clean(Clean(s)) == Clean(s).
func Clean(raw string) string {
	text := raw
	for {
		next := applyRules(text)
		if next == text {
			break
		}
		text = next
	}
	return strings.TrimSpace(text)
}

func applyRules(text string) string {
	for _, rule := range Rules {
		text = rule.Pattern.ReplaceAllString(text, rule.Replacement)
	}
	return text
}
