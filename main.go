package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/nijaru/yt-summarizer/config"
	"github.com/nijaru/yt-summarizer/handlers/api"
	"github.com/nijaru/yt-summarizer/logger"
	"github.com/nijaru/yt-summarizer/media"
	"github.com/nijaru/yt-summarizer/services/video"
	"github.com/nijaru/yt-summarizer/storage"
	"github.com/nijaru/yt-summarizer/summary"
	"github.com/nijaru/yt-summarizer/transcript"
	"github.com/nijaru/yt-summarizer/validation"
)

const transcriptTimeout = 30 * time.Second

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: invalid configuration: %+v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: failed to initialize logger: %+v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		logger.Critical(log, fmt.Sprintf("%+v", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.New(cfg.Audio.Folder, cfg.Audio.Retention, log)
	if err != nil {
		return err
	}
	go store.Run(ctx, cfg.Audio.CleanupInterval)

	extractor := media.NewExtractor(media.Config{
		BinaryPath: cfg.Video.YTDLPPath,
		FFmpegPath: cfg.Video.FFmpegPath,
	}, media.NewExecRunner())

	httpClient, err := transcript.NewHTTPClient(transcriptTimeout)
	if err != nil {
		return err
	}
	transcripts := transcript.NewExtractor(httpClient, transcript.Options{
		Languages: cfg.Video.Languages,
	})

	summarizer, err := summary.NewFromConfig(ctx, cfg.LLM)
	if err != nil {
		return err
	}

	videoService := video.NewService(
		extractor,
		transcripts,
		summarizer,
		store,
		validation.NewValidator(),
		video.Config{
			MaxDuration: cfg.Video.MaxDuration,
			Codec:       cfg.Audio.Codec,
			Quality:     cfg.Audio.Quality,
			Languages:   cfg.Video.Languages,
		},
		log,
	)

	server := api.NewServer(cfg,
		api.WithLogger(log),
		api.WithServices(videoService),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("Server stopped")
	return nil
}
