package preflight

import (
	"context"

	"podcaster/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string `json:"name"`
	Passed   bool   `json:"passed"`
	Optional bool   `json:"optional,omitempty"`
	Detail   string `json:"detail"`
}

// Options selects which checks RunAll performs.
type Options struct {
	// Live contacts provider APIs instead of only checking for keys.
	Live bool
}

// RunAll executes every applicable check for cfg.
func RunAll(ctx context.Context, cfg *config.Config, opts Options) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Staging directory", cfg.Paths.StagingDir),
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckStorage(cfg),
	}
	for _, name := range config.ProviderNames() {
		provider, _ := cfg.Provider(name)
		result := CheckProvider(ctx, name, provider, opts.Live)
		// Only the default provider is mandatory.
		result.Optional = name != cfg.DefaultProvider
		results = append(results, result)
	}
	results = append(results, CheckSpeech(cfg.Speech))
	return results
}

// Failed returns the mandatory checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed && !r.Optional {
			failed = append(failed, r)
		}
	}
	return failed
}
