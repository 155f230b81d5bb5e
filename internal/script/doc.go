// Package script turns source text into a cleaned podcast transcript.
//
// Prompt templates cover the four modes (single narrator or two hosts,
// templated or custom). The raw generation is passed through an ordered list
// of cleanup rules that strip markdown, then split into introduction, main
// content and conclusion for display.
package script
