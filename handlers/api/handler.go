package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nijaru/yt-summarizer/errors"
	"github.com/nijaru/yt-summarizer/middleware"
	"github.com/nijaru/yt-summarizer/models"
	"github.com/nijaru/yt-summarizer/validation"
)

const maxBodySize = 1 << 20

func respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.WithError(err).Error("Failed to encode response")
	}
}

// respondError writes the {message, success} body for err. Client errors are
// logged once with the offending URL; server errors are logged with their
// cause and then with the cause's stack trace.
func respondError(w http.ResponseWriter, r *http.Request, logger logrus.FieldLogger, url string, err error, fallback string) {
	appErr := errors.As(err, fallback)
	entry := logger.WithField("request_id", middleware.RequestIDFromContext(r.Context()))

	if errors.IsServerError(appErr) {
		entry.Errorf("%s: %v", appErr.Message, appErr.Err)
		if stack := appErr.Stack(); stack != "" {
			entry.Error(stack)
		}
	} else {
		entry.Errorf("%s: %s", appErr.Message, url)
	}

	respondJSON(w, appErr.Code, appErr.Body())
}

// readURL takes the url from a JSON body and falls back to the url query
// parameter when the body is absent or carries none.
func readURL(r *http.Request) (string, error) {
	const op = "api.readURL"

	var req models.VideoRequest
	if r.Body != nil && r.ContentLength != 0 {
		err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&req)
		if err != nil && err != io.EOF {
			return "", errors.InvalidInput(op, err, validation.MessageInvalidURL)
		}
	}

	url := strings.TrimSpace(req.URL)
	if url == "" {
		url = strings.TrimSpace(r.URL.Query().Get("url"))
	}
	return url, nil
}
