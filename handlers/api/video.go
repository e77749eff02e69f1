package api

import (
	"mime"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/nijaru/yt-summarizer/errors"
	"github.com/nijaru/yt-summarizer/models"
	"github.com/nijaru/yt-summarizer/services/video"
	"github.com/nijaru/yt-summarizer/validation"
)

type VideoHandler struct {
	service   video.Service
	validator *validation.Validator
	logger    logrus.FieldLogger
}

func NewVideoHandler(service video.Service, validator *validation.Validator, logger logrus.FieldLogger) *VideoHandler {
	return &VideoHandler{
		service:   service,
		validator: validator,
		logger:    logger,
	}
}

var requestOpts = validation.RequestValidationOpts{
	MaxContentLength: maxBodySize,
	AllowedMethods:   []string{http.MethodGet},
	RequireJSON:      true,
}

// request validates the request shape and extracts the url. It writes the
// error response itself and reports whether the handler should continue.
func (h *VideoHandler) request(w http.ResponseWriter, r *http.Request, fallback string) (string, bool) {
	if err := h.validator.ValidateRequest(r, requestOpts); err != nil {
		respondError(w, r, h.logger, "", err, fallback)
		return "", false
	}

	url, err := readURL(r)
	if err != nil {
		respondError(w, r, h.logger, url, err, fallback)
		return "", false
	}
	return url, true
}

// HandleDownloadAudio handles GET /youtube/download_audio
func (h *VideoHandler) HandleDownloadAudio(w http.ResponseWriter, r *http.Request) {
	const op = "VideoHandler.HandleDownloadAudio"

	url, ok := h.request(w, r, video.MessageDownloadFailed)
	if !ok {
		return
	}

	audio, err := h.service.DownloadAudio(r.Context(), url)
	if err != nil {
		respondError(w, r, h.logger, url, err, video.MessageDownloadFailed)
		return
	}
	defer func() {
		if err := audio.Close(); err != nil {
			h.logger.WithError(err).Warn("Failed to remove served audio")
		}
	}()

	file, err := os.Open(audio.Path)
	if err != nil {
		respondError(w, r, h.logger, url, errors.Internal(op, err, video.MessageDownloadFailed), video.MessageDownloadFailed)
		return
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		respondError(w, r, h.logger, url, errors.Internal(op, err, video.MessageDownloadFailed), video.MessageDownloadFailed)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"file":   audio.Filename,
		"remote": r.RemoteAddr,
	}).Info("Serving audio file")

	w.Header().Set("Content-Type", audio.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": audio.Filename}))
	http.ServeContent(w, r, audio.Filename, stat.ModTime(), file)
}

// HandleExtractText handles GET /youtube/extract_text
func (h *VideoHandler) HandleExtractText(w http.ResponseWriter, r *http.Request) {
	url, ok := h.request(w, r, video.MessageExtractFailed)
	if !ok {
		return
	}

	v, err := h.service.ExtractText(r.Context(), url)
	if err != nil {
		respondError(w, r, h.logger, url, err, video.MessageExtractFailed)
		return
	}

	respondJSON(w, http.StatusOK, models.NewTranscriptResponse(v))
}

// HandleGenerateSummary handles GET /youtube/generate_summary
func (h *VideoHandler) HandleGenerateSummary(w http.ResponseWriter, r *http.Request) {
	url, ok := h.request(w, r, video.MessageSummaryFailed)
	if !ok {
		return
	}

	v, err := h.service.GenerateSummary(r.Context(), url)
	if err != nil {
		respondError(w, r, h.logger, url, err, video.MessageSummaryFailed)
		return
	}

	respondJSON(w, http.StatusOK, models.NewSummaryResponse(v))
}
