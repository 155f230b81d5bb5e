package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable. API keys are not required
// here; missing credentials surface through preflight checks and per-request
// configuration errors so the server can start with a partial provider set.
func (c *Config) Validate() error {
	if err := c.validateProviders(); err != nil {
		return err
	}
	if err := c.validateSpeech(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateProviders() error {
	if _, ok := c.Provider(c.DefaultProvider); !ok {
		return fmt.Errorf("default_provider %q is not one of %s", c.DefaultProvider, strings.Join(ProviderNames(), ", "))
	}
	for _, name := range ProviderNames() {
		p, _ := c.Provider(name)
		if strings.TrimSpace(p.Model) == "" {
			return fmt.Errorf("providers.%s.model must be set", name)
		}
		if p.MaxTokens <= 0 {
			return fmt.Errorf("providers.%s.max_tokens must be positive", name)
		}
		if p.Temperature < 0 || p.Temperature > 2 {
			return fmt.Errorf("providers.%s.temperature must be between 0 and 2", name)
		}
		if name != ProviderAnthropic && strings.TrimSpace(p.BaseURL) == "" {
			return fmt.Errorf("providers.%s.base_url must be set", name)
		}
	}
	return nil
}

func (c *Config) validateSpeech() error {
	if c.Speech.Format != "mp3" {
		return fmt.Errorf("speech.format %q is not supported (only mp3 clips can be concatenated)", c.Speech.Format)
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch c.Storage.Backend {
	case StorageLocal:
		if strings.TrimSpace(c.Paths.AudioDir) == "" {
			return errors.New("paths.audio_dir must be set when storage.backend is local")
		}
		if !strings.HasPrefix(c.Server.PublicAudioPrefix, "/") && !strings.Contains(c.Server.PublicAudioPrefix, "://") {
			return errors.New("server.public_audio_prefix must be an absolute path or URL")
		}
	case StorageSupabase:
		if c.Storage.SupabaseURL == "" {
			return errors.New("storage.supabase_url must be set when storage.backend is supabase (or set SUPABASE_URL)")
		}
		if c.Storage.SupabaseKey == "" {
			return errors.New("storage.supabase_key must be set when storage.backend is supabase (or set SUPABASE_KEY)")
		}
		if c.Storage.Bucket == "" {
			return errors.New("storage.bucket must be set when storage.backend is supabase")
		}
	default:
		return fmt.Errorf("storage.backend %q must be local or supabase", c.Storage.Backend)
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if err := ensurePositiveMap(map[string]int{
		"pipeline.chunk_threshold_words":    c.Pipeline.ChunkThresholdWords,
		"pipeline.chunk_size_words":         c.Pipeline.ChunkSizeWords,
		"pipeline.target_summary_sentences": c.Pipeline.TargetSummarySentences,
		"pipeline.summary_concurrency":      c.Pipeline.SummaryConcurrency,
		"pipeline.synthesis_concurrency":    c.Pipeline.SynthesisConcurrency,
	}); err != nil {
		return err
	}
	if c.Pipeline.RequestTimeoutSeconds < 0 {
		return errors.New("pipeline.request_timeout_seconds must be >= 0")
	}
	if c.Pipeline.StagingMaxAgeHours < 0 {
		return errors.New("pipeline.staging_max_age_hours must be >= 0")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
