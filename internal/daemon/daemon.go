package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"podcaster/internal/api"
	"podcaster/internal/config"
	"podcaster/internal/logging"
	"podcaster/internal/podcast"
	"podcaster/internal/preflight"
	"podcaster/internal/registry"
	"podcaster/internal/staging"
)

// Generator produces podcasts for API requests.
type Generator interface {
	Generate(ctx context.Context, req podcast.Request) (*podcast.Response, error)
	AudioEnabled() bool
}

// Daemon coordinates the API server and enforces single-instance execution.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *registry.Store
	generator Generator

	lockPath string
	lock     *flock.Flock
	api      *apiServer

	running   atomic.Bool
	startedAt time.Time
	cancel    context.CancelFunc

	mu     sync.RWMutex
	checks []preflight.Result
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	StartedAt    time.Time
	RegistryPath string
	LockFilePath string
	Providers    []string
	Audio        bool
	Storage      string
	Podcasts     int
	StagingDirs  int
	Checks       []preflight.Result
}

// New constructs a daemon. store may be nil when history is disabled.
func New(cfg *config.Config, store *registry.Store, generator Generator, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || generator == nil {
		return nil, errors.New("daemon requires config and generator")
	}
	lockPath := cfg.LockPath()
	d := &Daemon{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "daemon"),
		store:     store,
		generator: generator,
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
	}
	var history *api.HistoryService
	if store != nil {
		history = api.NewHistoryService(store)
	}
	d.api = newAPIServer(cfg, generator, history, d.apiStatus, logger)
	return d, nil
}

// Start acquires the lock, cleans staging, runs preflight checks and starts
// the API server.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}
	if err := d.cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another podcaster daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	maxAge := time.Duration(d.cfg.Pipeline.StagingMaxAgeHours) * time.Hour
	cleaned := staging.CleanStale(runCtx, d.cfg.Paths.StagingDir, maxAge, d.logger)
	if len(cleaned.Removed) > 0 {
		d.logger.Info("staging cleanup complete", logging.Int("removed", len(cleaned.Removed)))
	}

	checks := preflight.RunAll(runCtx, d.cfg, preflight.Options{})
	for _, failed := range preflight.Failed(checks) {
		logging.WarnWithContext(d.logger, "preflight check failed", "preflight_failed",
			logging.String("check", failed.Name),
			logging.String("detail", failed.Detail),
			logging.String(logging.FieldErrorHint, "run podcaster check for details"),
			logging.String(logging.FieldImpact, "requests depending on this check will fail"),
		)
	}
	d.mu.Lock()
	d.checks = checks
	d.mu.Unlock()

	if err := d.api.start(runCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return err
	}

	d.cancel = cancel
	d.startedAt = time.Now()
	d.running.Store(true)
	d.logger.Info("podcaster daemon started",
		logging.String("lock", d.lockPath),
		logging.String("bind", d.cfg.Server.Bind),
		logging.Bool("audio", d.generator.AudioEnabled()),
	)
	return nil
}

// Stop shuts the API server down and releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("podcaster daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Addr returns the API listener address once started.
func (d *Daemon) Addr() string {
	return d.api.addr()
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		StartedAt:    d.startedAt,
		RegistryPath: d.cfg.RegistryPath(),
		LockFilePath: d.lockPath,
		Audio:        d.generator.AudioEnabled(),
		Storage:      d.cfg.Storage.Backend,
	}
	for _, name := range config.ProviderNames() {
		if p, _ := d.cfg.Provider(name); strings.TrimSpace(p.APIKey) != "" {
			status.Providers = append(status.Providers, name)
		}
	}
	if d.store != nil {
		if n, err := d.store.Count(ctx); err == nil {
			status.Podcasts = n
		}
	}
	if dirs, err := staging.List(d.cfg.Paths.StagingDir); err == nil {
		status.StagingDirs = len(dirs)
	}
	d.mu.RLock()
	status.Checks = append([]preflight.Result(nil), d.checks...)
	d.mu.RUnlock()
	return status
}

func (d *Daemon) apiStatus(ctx context.Context) api.DaemonStatus {
	status := d.Status(ctx)
	payload := api.DaemonStatus{
		Running:      status.Running,
		PID:          status.PID,
		RegistryPath: status.RegistryPath,
		LockFilePath: status.LockFilePath,
		Providers:    status.Providers,
		Audio:        status.Audio,
		Storage:      status.Storage,
		Podcasts:     status.Podcasts,
		StagingDirs:  status.StagingDirs,
		Checks:       api.FromChecks(status.Checks),
	}
	if !status.StartedAt.IsZero() {
		payload.StartedAt = status.StartedAt.UTC().Format(time.RFC3339)
	}
	return payload
}
