package config

const (
	defaultConfigPath            = "~/.config/podcaster/config.toml"
	defaultAudioDir              = "~/.local/share/podcaster/audio"
	defaultStagingDir            = "~/.local/share/podcaster/staging"
	defaultDataDir               = "~/.local/share/podcaster"
	defaultLogDir                = "~/.local/share/podcaster/logs"
	defaultBind                  = "127.0.0.1:7390"
	defaultPublicAudioPrefix     = "/audio"
	defaultProvider              = ProviderOpenAI
	defaultMaxTokens             = 16000
	defaultTemperature           = 0.7
	defaultProviderTimeout       = 300
	defaultRetryAttempts         = 1
	defaultSpeechBaseURL         = "https://api.openai.com/v1/audio/speech"
	defaultSpeechModel           = "tts-1"
	defaultSpeechFormat          = "mp3"
	defaultSpeechTimeout         = 120
	defaultVoice                 = "alloy"
	defaultBucket                = "podcasts"
	defaultChunkThresholdWords   = 500
	defaultChunkSizeWords        = 500
	defaultTargetSummary         = 10
	defaultSummaryConcurrency    = 4
	defaultSynthesisConcurrency  = 1
	defaultRequestTimeoutSeconds = 900
	defaultStagingMaxAgeHours    = 24
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Storage backends.
const (
	StorageLocal    = "local"
	StorageSupabase = "supabase"
)

// providerDefaults mirrors the models and endpoints each backend ships with.
var providerDefaults = map[string]Provider{
	ProviderOpenAI: {
		BaseURL: "https://api.openai.com/v1/chat/completions",
		Model:   "gpt-4o",
	},
	ProviderAnthropic: {
		Model: "claude-sonnet-4-20250514",
	},
	ProviderPerplexity: {
		BaseURL: "https://api.perplexity.ai/chat/completions",
		Model:   "llama-3.1-sonar-small-128k-online",
	},
	ProviderDeepSeek: {
		BaseURL: "https://api.deepseek.com/chat/completions",
		Model:   "deepseek-chat",
	},
}

// providerEnvKeys lists the environment variables consulted when a provider
// api_key is blank.
var providerEnvKeys = map[string]string{
	ProviderOpenAI:     "OPENAI_API_KEY",
	ProviderAnthropic:  "ANTHROPIC_API_KEY",
	ProviderPerplexity: "PERPLEXITY_API_KEY",
	ProviderDeepSeek:   "DEEPSEEK_API_KEY",
}

func defaultProviderSettings(name string) Provider {
	p := providerDefaults[name]
	p.MaxTokens = defaultMaxTokens
	p.Temperature = defaultTemperature
	p.TimeoutSeconds = defaultProviderTimeout
	p.RetryAttempts = defaultRetryAttempts
	return p
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		DefaultProvider: defaultProvider,
		Paths: Paths{
			AudioDir:   defaultAudioDir,
			StagingDir: defaultStagingDir,
			DataDir:    defaultDataDir,
			LogDir:     defaultLogDir,
		},
		Server: Server{
			Bind:              defaultBind,
			PublicAudioPrefix: defaultPublicAudioPrefix,
		},
		Providers: Providers{
			OpenAI:     defaultProviderSettings(ProviderOpenAI),
			Anthropic:  defaultProviderSettings(ProviderAnthropic),
			Perplexity: defaultProviderSettings(ProviderPerplexity),
			DeepSeek:   defaultProviderSettings(ProviderDeepSeek),
		},
		Speech: Speech{
			BaseURL:        defaultSpeechBaseURL,
			Model:          defaultSpeechModel,
			Format:         defaultSpeechFormat,
			TimeoutSeconds: defaultSpeechTimeout,
			DefaultVoice:   defaultVoice,
		},
		Storage: Storage{
			Backend: StorageLocal,
			Bucket:  defaultBucket,
		},
		Pipeline: Pipeline{
			ChunkThresholdWords:    defaultChunkThresholdWords,
			ChunkSizeWords:         defaultChunkSizeWords,
			TargetSummarySentences: defaultTargetSummary,
			SummaryConcurrency:     defaultSummaryConcurrency,
			SynthesisConcurrency:   defaultSynthesisConcurrency,
			RequestTimeoutSeconds:  defaultRequestTimeoutSeconds,
			StagingMaxAgeHours:     defaultStagingMaxAgeHours,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
