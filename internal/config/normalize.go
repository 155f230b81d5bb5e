package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeServer()
	c.normalizeProviders()
	c.normalizeSpeech()
	c.normalizeStorage()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.AudioDir, err = expandPath(c.Paths.AudioDir); err != nil {
		return fmt.Errorf("paths.audio_dir: %w", err)
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeServer() {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultBind
	}
	prefix := strings.TrimSpace(c.Server.PublicAudioPrefix)
	if prefix == "" {
		prefix = defaultPublicAudioPrefix
	}
	c.Server.PublicAudioPrefix = strings.TrimRight(prefix, "/")
}

func (c *Config) normalizeProviders() {
	c.DefaultProvider = strings.ToLower(strings.TrimSpace(c.DefaultProvider))
	if c.DefaultProvider == "" {
		c.DefaultProvider = defaultProvider
	}
	for name, p := range c.providerRefs() {
		defaults := defaultProviderSettings(name)
		p.APIKey = strings.TrimSpace(p.APIKey)
		if p.APIKey == "" {
			if value, ok := os.LookupEnv(providerEnvKeys[name]); ok {
				p.APIKey = strings.TrimSpace(value)
			}
		}
		p.BaseURL = strings.TrimSpace(p.BaseURL)
		if p.BaseURL == "" {
			p.BaseURL = defaults.BaseURL
		}
		p.Model = strings.TrimSpace(p.Model)
		if p.Model == "" {
			p.Model = defaults.Model
		}
		if p.MaxTokens <= 0 {
			p.MaxTokens = defaults.MaxTokens
		}
		if p.TimeoutSeconds <= 0 {
			p.TimeoutSeconds = defaults.TimeoutSeconds
		}
		if p.RetryAttempts <= 0 {
			p.RetryAttempts = defaults.RetryAttempts
		}
	}
}

func (c *Config) normalizeSpeech() {
	c.Speech.APIKey = strings.TrimSpace(c.Speech.APIKey)
	if c.Speech.APIKey == "" {
		c.Speech.APIKey = c.Providers.OpenAI.APIKey
	}
	c.Speech.BaseURL = strings.TrimSpace(c.Speech.BaseURL)
	if c.Speech.BaseURL == "" {
		c.Speech.BaseURL = defaultSpeechBaseURL
	}
	c.Speech.Model = strings.TrimSpace(c.Speech.Model)
	if c.Speech.Model == "" {
		c.Speech.Model = defaultSpeechModel
	}
	c.Speech.Format = strings.ToLower(strings.TrimSpace(c.Speech.Format))
	if c.Speech.Format == "" {
		c.Speech.Format = defaultSpeechFormat
	}
	if c.Speech.TimeoutSeconds <= 0 {
		c.Speech.TimeoutSeconds = defaultSpeechTimeout
	}
	c.Speech.DefaultVoice = strings.ToLower(strings.TrimSpace(c.Speech.DefaultVoice))
	if c.Speech.DefaultVoice == "" {
		c.Speech.DefaultVoice = defaultVoice
	}
}

func (c *Config) normalizeStorage() {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if c.Storage.Backend == "" {
		c.Storage.Backend = StorageLocal
	}
	c.Storage.SupabaseURL = strings.TrimSpace(c.Storage.SupabaseURL)
	if c.Storage.SupabaseURL == "" {
		if value, ok := os.LookupEnv("SUPABASE_URL"); ok {
			c.Storage.SupabaseURL = strings.TrimSpace(value)
		}
	}
	c.Storage.SupabaseKey = strings.TrimSpace(c.Storage.SupabaseKey)
	if c.Storage.SupabaseKey == "" {
		if value, ok := os.LookupEnv("SUPABASE_KEY"); ok {
			c.Storage.SupabaseKey = strings.TrimSpace(value)
		}
	}
	c.Storage.Bucket = strings.TrimSpace(c.Storage.Bucket)
	if c.Storage.Bucket == "" {
		c.Storage.Bucket = defaultBucket
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
