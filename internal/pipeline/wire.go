package pipeline

import (
	"log/slog"

	"podcaster/internal/artifact"
	"podcaster/internal/config"
	"podcaster/internal/logging"
	"podcaster/internal/services/speech"
	"podcaster/internal/textgen"
)

// FromConfig assembles a Service from configuration. recorder may be nil.
func FromConfig(cfg *config.Config, recorder Recorder, logger *slog.Logger) (*Service, error) {
	registry, err := textgen.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	store, err := artifact.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	deps := Deps{Generator: registry, Store: store}
	if recorder != nil {
		deps.Recorder = recorder
	}

	client := speech.NewClient(speech.Config{
		APIKey:         cfg.Speech.APIKey,
		BaseURL:        cfg.Speech.BaseURL,
		Model:          cfg.Speech.Model,
		Format:         cfg.Speech.Format,
		TimeoutSeconds: cfg.Speech.TimeoutSeconds,
	})
	if client.Configured() {
		deps.Synthesizer = client
	} else if logger != nil {
		logging.WarnWithContext(logger, "speech api key missing; audio disabled", "speech_unconfigured",
			logging.String(logging.FieldErrorHint, "set speech.api_key or OPENAI_API_KEY"),
			logging.String(logging.FieldImpact, "podcasts are returned as scripts only"),
		)
	}
	if logger != nil {
		logger.Info("pipeline configured",
			logging.Any("providers", registry.Providers()),
			logging.String("storage", cfg.Storage.Backend),
			logging.Bool("audio", deps.Synthesizer != nil),
		)
	}
	return NewService(deps, OptionsFromConfig(cfg), logger), nil
}
