package api

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/disk"
	"github.com/sirupsen/logrus"

	"github.com/nijaru/yt-summarizer/config"
	"github.com/nijaru/yt-summarizer/middleware"
	"github.com/nijaru/yt-summarizer/services/video"
	"github.com/nijaru/yt-summarizer/validation"
)

type Server struct {
	videoSvc  video.Service
	video     *VideoHandler
	config    *config.Config
	logger    *logrus.Logger
	server    *http.Server
	startTime time.Time
}

type ServerOption func(*Server)

// NewServer creates the API server with the provided services and options
func NewServer(cfg *config.Config, opts ...ServerOption) *Server {
	s := &Server{
		config:    cfg,
		logger:    logrus.StandardLogger(),
		startTime: time.Now(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.videoSvc != nil {
		s.video = NewVideoHandler(s.videoSvc, validation.NewValidator(), s.logger)
	}

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      s.routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

func WithServices(videoSvc video.Service) ServerOption {
	return func(s *Server) {
		s.videoSvc = videoSvc
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start() error {
	s.logger.WithField("port", s.config.ServerPort).Info("Starting server")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Method checks happen in the handlers so a wrong method still gets the
	// JSON error body.
	if s.video != nil {
		mux.HandleFunc("/youtube/download_audio", s.video.HandleDownloadAudio)
		mux.HandleFunc("/youtube/extract_text", s.video.HandleExtractText)
		mux.HandleFunc("/youtube/generate_summary", s.video.HandleGenerateSummary)
	}

	mux.HandleFunc("GET /health", s.handleHealth)

	return s.middleware(mux)
}

func (s *Server) middleware(handler http.Handler) http.Handler {
	return middleware.Chain(handler,
		middleware.RequestID(),
		middleware.Recovery(s.logger),
		middleware.Logging(s.logger),
		middleware.CORS(s.config.CORS),
	)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"version":   s.config.Version,
		"uptime":    time.Since(s.startTime).String(),
	}

	if s.config.Debug {
		status["debug"] = true
		status["goroutines"] = runtime.NumGoroutine()
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		status["memory"] = map[string]interface{}{
			"allocated": m.Alloc,
			"total":     m.TotalAlloc,
			"system":    m.Sys,
			"gc_cycles": m.NumGC,
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if usage, err := disk.UsageWithContext(ctx, s.config.Audio.Folder); err == nil {
			status["audio_disk"] = map[string]interface{}{
				"path":        s.config.Audio.Folder,
				"total":       usage.Total,
				"free":        usage.Free,
				"usedPercent": usage.UsedPercent,
			}
		}
	}

	respondJSON(w, http.StatusOK, status)
}
