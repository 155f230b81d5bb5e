package podcast

import "fmt"

// WordsPerMinute is the assumed speaking rate.
const WordsPerMinute = 150

// EstimateDuration renders the listening time for a script of words words,
// rounding up to whole minutes.
func EstimateDuration(words int) string {
	if words < 0 {
		words = 0
	}
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}
