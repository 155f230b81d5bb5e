package api

import (
	"time"

	"podcaster/internal/podcast"
	"podcaster/internal/preflight"
)

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// PodcastSummary describes a generated episode in list views.
type PodcastSummary struct {
	ID                int64  `json:"id"`
	RequestID         string `json:"requestId"`
	Title             string `json:"title"`
	Mode              string `json:"mode"`
	Provider          string `json:"provider"`
	SourceWords       int    `json:"sourceWords"`
	ScriptWords       int    `json:"scriptWords"`
	EstimatedDuration string `json:"estimatedDuration"`
	AudioURL          string `json:"audioUrl,omitempty"`
	AudioDegraded     bool   `json:"audioDegraded,omitempty"`
	Origin            string `json:"origin,omitempty"`
	CreatedAt         string `json:"createdAt,omitempty"`
}

// PodcastDetail adds the transcript to a summary.
type PodcastDetail struct {
	PodcastSummary
	Transcript string `json:"transcript"`
}

// PodcastListResponse wraps a page of history.
type PodcastListResponse struct {
	Podcasts []PodcastSummary `json:"podcasts"`
}

// PodcastDetailResponse wraps one episode.
type PodcastDetailResponse struct {
	Podcast PodcastDetail `json:"podcast"`
}

// VoicesResponse lists the synthesis voices and modes a client may request.
type VoicesResponse struct {
	Voices  []string `json:"voices"`
	Default string   `json:"default"`
	Modes   []string `json:"modes"`
}

// CheckResult mirrors a preflight check.
type CheckResult struct {
	Name     string `json:"name"`
	Passed   bool   `json:"passed"`
	Optional bool   `json:"optional,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running      bool          `json:"running"`
	PID          int           `json:"pid"`
	StartedAt    string        `json:"startedAt,omitempty"`
	RegistryPath string        `json:"registryPath"`
	LockFilePath string        `json:"lockFilePath"`
	Providers    []string      `json:"providers"`
	Audio        bool          `json:"audio"`
	Storage      string        `json:"storage"`
	Podcasts     int           `json:"podcasts"`
	StagingDirs  int           `json:"stagingDirs"`
	Checks       []CheckResult `json:"checks"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FromRecord converts a registry record to its summary DTO.
func FromRecord(rec podcast.Record) PodcastSummary {
	return PodcastSummary{
		ID:                rec.ID,
		RequestID:         rec.RequestID,
		Title:             rec.Title,
		Mode:              string(rec.Mode),
		Provider:          rec.Provider,
		SourceWords:       rec.SourceWords,
		ScriptWords:       rec.ScriptWords,
		EstimatedDuration: rec.EstimatedDuration,
		AudioURL:          rec.AudioURL,
		AudioDegraded:     rec.AudioDegraded,
		Origin:            rec.Origin,
		CreatedAt:         formatTime(rec.CreatedAt),
	}
}

// FromRecords converts a slice of records.
func FromRecords(records []podcast.Record) []PodcastSummary {
	out := make([]PodcastSummary, 0, len(records))
	for _, rec := range records {
		out = append(out, FromRecord(rec))
	}
	return out
}

// FromChecks converts preflight results.
func FromChecks(results []preflight.Result) []CheckResult {
	out := make([]CheckResult, 0, len(results))
	for _, r := range results {
		out = append(out, CheckResult{Name: r.Name, Passed: r.Passed, Optional: r.Optional, Detail: r.Detail})
	}
	return out
}

// ModeNames lists the podcast modes as wire strings.
func ModeNames() []string {
	modes := podcast.Modes()
	out := make([]string, len(modes))
	for i, m := range modes {
		out[i] = m.String()
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}
