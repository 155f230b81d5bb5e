package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"podcaster/internal/api"
	"podcaster/internal/config"
	"podcaster/internal/logging"
	"podcaster/internal/podcast"
	"podcaster/internal/services"
	"podcaster/internal/services/speech"
)

const maxRequestBytes = 16 << 20

type apiServer struct {
	bind         string
	logger       *slog.Logger
	generator    Generator
	history      *api.HistoryService
	status       func(context.Context) api.DaemonStatus
	defaultVoice string

	mu       sync.Mutex
	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, generator Generator, history *api.HistoryService, status func(context.Context) api.DaemonStatus, logger *slog.Logger) *apiServer {
	srv := &apiServer{
		bind:         strings.TrimSpace(cfg.Server.Bind),
		logger:       logger,
		generator:    generator,
		history:      history,
		status:       status,
		defaultVoice: cfg.Speech.DefaultVoice,
	}
	if srv.defaultVoice == "" {
		srv.defaultVoice = speech.DefaultVoice
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/podcast", srv.handleGenerate)
	mux.HandleFunc("GET /api/podcasts", srv.handleList)
	mux.HandleFunc("GET /api/podcasts/{id}", srv.handleDetail)
	mux.HandleFunc("GET /api/voices", srv.handleVoices)
	mux.HandleFunc("GET /api/status", srv.handleStatus)
	if audio := audioHandler(cfg); audio != nil {
		prefix := strings.TrimSuffix(cfg.Server.PublicAudioPrefix, "/")
		mux.Handle("GET "+prefix+"/", http.StripPrefix(prefix, audio))
	}

	// Generation runs synchronously inside the handler, so the write
	// deadline must outlast the pipeline's own request timeout.
	writeTimeout := time.Duration(0)
	if secs := cfg.Pipeline.RequestTimeoutSeconds; secs > 0 {
		writeTimeout = time.Duration(secs)*time.Second + 30*time.Second
	}
	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

// audioHandler serves the local audio directory when audio refs are
// server-relative paths.
func audioHandler(cfg *config.Config) http.Handler {
	if cfg.Storage.Backend != config.StorageLocal {
		return nil
	}
	prefix := strings.TrimSpace(cfg.Server.PublicAudioPrefix)
	if !strings.HasPrefix(prefix, "/") || strings.TrimSuffix(prefix, "/") == "" {
		return nil
	}
	return http.FileServer(noListingFS{http.Dir(cfg.Paths.AudioDir)})
}

// noListingFS hides directory indexes from http.FileServer.
type noListingFS struct {
	fs http.FileSystem
}

func (n noListingFS) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}

func (s *apiServer) start(ctx context.Context) error {
	if s.bind == "" {
		return errors.New("server bind address is empty")
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req podcast.Request
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := decoder.Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.generator.Generate(r.Context(), req)
	if err != nil {
		status := services.HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			s.log().Error("podcast generation failed",
				logging.String(logging.FieldEventType, "generate_failed"),
				logging.String("provider", req.Provider),
				logging.String("mode", req.Mode),
				logging.Error(err),
			)
		}
		s.writeError(w, status, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *apiServer) handleList(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, http.StatusServiceUnavailable, "history unavailable")
		return
	}
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			s.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = value
	}
	items, err := s.history.List(r.Context(), limit)
	if err != nil {
		s.log().Error("list podcasts failed", logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to list podcasts")
		return
	}
	if items == nil {
		items = []api.PodcastSummary{}
	}
	s.writeJSON(w, http.StatusOK, api.PodcastListResponse{Podcasts: items})
}

func (s *apiServer) handleDetail(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, http.StatusServiceUnavailable, "history unavailable")
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		s.writeError(w, http.StatusBadRequest, "invalid podcast id")
		return
	}
	detail, err := s.history.Describe(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "podcast not found")
			return
		}
		s.log().Error("describe podcast failed", logging.Int64("id", id), logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to load podcast")
		return
	}
	if detail == nil {
		s.writeError(w, http.StatusNotFound, "podcast not found")
		return
	}
	s.writeJSON(w, http.StatusOK, api.PodcastDetailResponse{Podcast: *detail})
}

func (s *apiServer) handleVoices(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, api.VoicesResponse{
		Voices:  speech.Voices(),
		Default: s.defaultVoice,
		Modes:   api.ModeNames(),
	})
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if s.status == nil {
		s.writeError(w, http.StatusServiceUnavailable, "status unavailable")
		return
	}
	s.writeJSON(w, http.StatusOK, s.status(r.Context()))
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, api.ErrorResponse{Error: message})
}

func (s *apiServer) log() *slog.Logger {
	if s.logger != nil {
		return s.logger.With(logging.String(logging.FieldComponent, "api-server"))
	}
	return logging.NewNop()
}
