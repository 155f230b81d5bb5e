package podcast

import "time"

// Script is the textual deliverable returned to callers.
type Script struct {
	Title             string `json:"title"`
	Introduction      string `json:"introduction"`
	MainContent       string `json:"mainContent"`
	Conclusion        string `json:"conclusion"`
	EstimatedDuration string `json:"estimatedDuration"`
	Mode              Mode   `json:"mode"`
	Hosts             []Host `json:"hosts"`
	// Transcript is the full cleaned script used for synthesis.
	Transcript string `json:"-"`
}

// Request asks for one podcast episode.
type Request struct {
	Text           string `json:"selectedText"`
	Provider       string `json:"provider"`
	Mode           string `json:"podcastMode"`
	Instructions   string `json:"podcastInstructions,omitempty"`
	Voice          string `json:"voiceSelection,omitempty"`
	SecondaryVoice string `json:"secondaryVoice,omitempty"`
	IncludeAudio   bool   `json:"includeAudio"`
	// Title overrides the generated title when set.
	Title string `json:"title,omitempty"`
	// Origin records where the text came from (URL, file path).
	Origin string `json:"origin,omitempty"`
}

// Response carries the script and, when produced, the audio reference. A
// missing AudioURL with IncludeAudio requested means the audio stage failed
// and AudioError explains why.
type Response struct {
	Script        Script `json:"script"`
	AudioURL      string `json:"audioUrl,omitempty"`
	AudioDegraded bool   `json:"audioDegraded,omitempty"`
	AudioError    string `json:"audioError,omitempty"`
	Segments      int    `json:"segments,omitempty"`
	FailedClips   int    `json:"failedSegments,omitempty"`
	ID            int64  `json:"id,omitempty"`
	RequestID     string `json:"requestId"`
}

// Record is a persisted summary of a generated episode.
type Record struct {
	ID                int64     `json:"id"`
	RequestID         string    `json:"requestId"`
	Title             string    `json:"title"`
	Mode              Mode      `json:"mode"`
	Provider          string    `json:"provider"`
	SourceWords       int       `json:"sourceWords"`
	ScriptWords       int       `json:"scriptWords"`
	EstimatedDuration string    `json:"estimatedDuration"`
	AudioURL          string    `json:"audioUrl,omitempty"`
	AudioDegraded     bool      `json:"audioDegraded,omitempty"`
	Origin            string    `json:"origin,omitempty"`
	Transcript        string    `json:"transcript,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}
