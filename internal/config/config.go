package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	AudioDir   string `toml:"audio_dir"`
	StagingDir string `toml:"staging_dir"`
	DataDir    string `toml:"data_dir"`
	LogDir     string `toml:"log_dir"`
}

// Server contains HTTP API settings.
type Server struct {
	Bind              string `toml:"bind"`
	PublicAudioPrefix string `toml:"public_audio_prefix"`
}

// Provider contains connection settings for one text-generation backend.
type Provider struct {
	APIKey         string  `toml:"api_key"`
	BaseURL        string  `toml:"base_url"`
	Model          string  `toml:"model"`
	MaxTokens      int     `toml:"max_tokens"`
	Temperature    float64 `toml:"temperature"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	RetryAttempts  int     `toml:"retry_attempts"`
}

// Providers holds one entry per supported text-generation backend.
type Providers struct {
	OpenAI     Provider `toml:"openai"`
	Anthropic  Provider `toml:"anthropic"`
	Perplexity Provider `toml:"perplexity"`
	DeepSeek   Provider `toml:"deepseek"`
}

// Speech contains configuration for the speech-synthesis backend.
type Speech struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	Format         string `toml:"format"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	DefaultVoice   string `toml:"default_voice"`
}

// Storage selects where finished podcast audio is persisted.
type Storage struct {
	Backend     string `toml:"backend"`
	SupabaseURL string `toml:"supabase_url"`
	SupabaseKey string `toml:"supabase_key"`
	Bucket      string `toml:"bucket"`
}

// Pipeline contains chunking, concurrency, and timeout knobs.
type Pipeline struct {
	ChunkThresholdWords    int `toml:"chunk_threshold_words"`
	ChunkSizeWords         int `toml:"chunk_size_words"`
	TargetSummarySentences int `toml:"target_summary_sentences"`
	SummaryConcurrency     int `toml:"summary_concurrency"`
	SynthesisConcurrency   int `toml:"synthesis_concurrency"`
	RequestTimeoutSeconds  int `toml:"request_timeout_seconds"`
	StagingMaxAgeHours     int `toml:"staging_max_age_hours"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for podcaster.
//
// Configuration sections by subsystem:
//   - Paths: audio output, staging, data (registry, lock) and log directories
//   - Server: HTTP bind address and public audio prefix
//   - Providers: per-backend text-generation settings
//   - Speech: text-to-speech backend
//   - Storage: local directory or Supabase Storage bucket
//   - Pipeline: chunking thresholds, concurrency, request timeout
//   - Logging: log format and level
type Config struct {
	DefaultProvider string    `toml:"default_provider"`
	Paths           Paths     `toml:"paths"`
	Server          Server    `toml:"server"`
	Providers       Providers `toml:"providers"`
	Speech          Speech    `toml:"speech"`
	Storage         Storage   `toml:"storage"`
	Pipeline        Pipeline  `toml:"pipeline"`
	Logging         Logging   `toml:"logging"`
}

// Provider names accepted by requests and the default_provider setting.
const (
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderPerplexity = "perplexity"
	ProviderDeepSeek   = "deepseek"
)

// ProviderNames lists supported text-generation providers in display order.
func ProviderNames() []string {
	return []string{ProviderOpenAI, ProviderAnthropic, ProviderPerplexity, ProviderDeepSeek}
}

// Provider returns the settings for the named backend.
func (c *Config) Provider(name string) (Provider, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ProviderOpenAI:
		return c.Providers.OpenAI, true
	case ProviderAnthropic:
		return c.Providers.Anthropic, true
	case ProviderPerplexity:
		return c.Providers.Perplexity, true
	case ProviderDeepSeek:
		return c.Providers.DeepSeek, true
	default:
		return Provider{}, false
	}
}

func (c *Config) providerRefs() map[string]*Provider {
	return map[string]*Provider{
		ProviderOpenAI:     &c.Providers.OpenAI,
		ProviderAnthropic:  &c.Providers.Anthropic,
		ProviderPerplexity: &c.Providers.Perplexity,
		ProviderDeepSeek:   &c.Providers.DeepSeek,
	}
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("podcaster.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for server operation. The
// audio directory is only needed when artifacts are stored locally.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.StagingDir, c.Paths.DataDir, c.Paths.LogDir}
	if c.Storage.Backend == StorageLocal {
		dirs = append(dirs, c.Paths.AudioDir)
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// RegistryPath returns the sqlite database file holding podcast history.
func (c *Config) RegistryPath() string {
	return filepath.Join(c.Paths.DataDir, "podcaster.db")
}

// LockPath returns the file used to keep a single server instance running.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "podcasterd.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
