package main

import (
	"fmt"
	"log/slog"

	"podcaster/internal/config"
	"podcaster/internal/daemon"
	"podcaster/internal/pipeline"
	"podcaster/internal/registry"
)

// bootstrap opens the history registry and wires the pipeline into a daemon.
func bootstrap(cfg *config.Config, logger *slog.Logger) (*daemon.Daemon, error) {
	store, err := registry.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}
	svc, err := pipeline.FromConfig(cfg, store, logger)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("configure pipeline: %w", err)
	}
	d, err := daemon.New(cfg, store, svc, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return d, nil
}
