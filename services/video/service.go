package video

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nijaru/yt-summarizer/errors"
	"github.com/nijaru/yt-summarizer/media"
	"github.com/nijaru/yt-summarizer/models"
	"github.com/nijaru/yt-summarizer/storage"
	"github.com/nijaru/yt-summarizer/validation"
)

// Audio is a downloaded file waiting to be served.
type Audio struct {
	Path        string
	Filename    string
	ContentType string
	Video       *models.Video

	dir *storage.WorkDir
}

// Close removes the work dir holding the file.
func (a *Audio) Close() error {
	if a.dir == nil {
		return nil
	}
	return a.dir.Release()
}

type service struct {
	media       MediaExtractor
	transcripts TranscriptExtractor
	summarizer  Summarizer
	storage     Storage
	validator   *validation.Validator
	gate        *Gate
	config      Config
	logger      logrus.FieldLogger
}

func NewService(
	mediaExtractor MediaExtractor,
	transcripts TranscriptExtractor,
	summarizer Summarizer,
	store Storage,
	validator *validation.Validator,
	config Config,
	logger logrus.FieldLogger,
) Service {
	if config.Codec == "" {
		config.Codec = "mp3"
	}
	if config.Quality == "" {
		config.Quality = "192"
	}
	return &service{
		media:       mediaExtractor,
		transcripts: transcripts,
		summarizer:  summarizer,
		storage:     store,
		validator:   validator,
		gate:        NewGate(mediaExtractor, config.MaxDuration, logger),
		config:      config,
		logger:      logger,
	}
}

// admit runs URL validation and the duration gate. Nothing downstream is
// touched for a URL that fails validation.
func (s *service) admit(ctx context.Context, op, url string) (*models.Video, error) {
	if err := s.validator.ValidateURL(url); err != nil {
		return nil, err
	}

	info, ok := s.gate.WithinLimit(ctx, url)
	if !ok {
		return nil, errors.LimitExceeded(op, nil, LimitMessage(s.config.MaxDuration))
	}
	return models.NewVideo(url, info.Title, info.Uploader, info.Duration), nil
}

func (s *service) DownloadAudio(ctx context.Context, url string) (*Audio, error) {
	const op = "VideoService.DownloadAudio"
	logger := s.logger.WithFields(logrus.Fields{"operation": op, "url": url})

	video, err := s.admit(ctx, op, url)
	if err != nil {
		return nil, err
	}

	dir, err := s.storage.Acquire()
	if err != nil {
		return nil, errors.Internal(op, err, MessageDownloadFailed)
	}

	path, err := s.media.Download(ctx, url, media.DownloadOptions{
		OutputDir: dir.Path,
		Codec:     s.config.Codec,
		Quality:   s.config.Quality,
	})
	if err != nil {
		s.release(dir)
		return nil, errors.Upstream(op, err, MessageDownloadFailed)
	}

	path = media.NormalizeExt(path, s.config.Codec)
	if _, err := os.Stat(path); err != nil {
		s.release(dir)
		return nil, errors.Internal(op, err, MessageDownloadFailed)
	}

	logger.WithField("file", filepath.Base(path)).Info("Audio downloaded")
	return &Audio{
		Path:        path,
		Filename:    filepath.Base(path),
		ContentType: "audio/" + s.config.Codec,
		Video:       video,
		dir:         dir,
	}, nil
}

func (s *service) ExtractText(ctx context.Context, url string) (*models.Video, error) {
	const op = "VideoService.ExtractText"
	logger := s.logger.WithFields(logrus.Fields{"operation": op, "url": url})

	video, err := s.admit(ctx, op, url)
	if err != nil {
		return nil, err
	}

	docs, err := s.transcripts.Extract(ctx, url, s.config.Languages)
	if err != nil {
		return nil, errors.Upstream(op, err, MessageExtractFailed)
	}
	video.Transcription = strings.Join(docs, "")

	logger.WithField("chars", len(video.Transcription)).Info("Transcript extracted")
	return video, nil
}

func (s *service) GenerateSummary(ctx context.Context, url string) (*models.Video, error) {
	const op = "VideoService.GenerateSummary"
	logger := s.logger.WithFields(logrus.Fields{"operation": op, "url": url})

	video, err := s.ExtractText(ctx, url)
	if err != nil {
		return nil, err
	}
	if !video.HasTranscription() {
		return nil, errors.EmptyResult(op, nil, MessageNoTranscription)
	}

	summary, err := s.summarizer.Summarize(ctx, video.Transcription)
	if err != nil {
		return nil, errors.Upstream(op, err, MessageSummaryFailed)
	}
	video.Summary = summary
	if !video.HasSummary() {
		return nil, errors.EmptyResult(op, nil, MessageEmptySummary)
	}

	logger.Info("Summary generated")
	return video, nil
}

func (s *service) release(dir *storage.WorkDir) {
	if err := dir.Release(); err != nil {
		s.logger.WithError(err).Warn("Failed to release work dir")
	}
}
