package validation

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/nijaru/yt-summarizer/errors"
)

const MessageInvalidURL = "Invalid or empty URL provided"

// Syntactic check only; nothing here touches the network.
var youtubeURLPattern = regexp.MustCompile(`^(https?://)?(www\.)?(youtube\.com|youtu\.be)/.+$`)

// ValidURL reports whether rawURL looks like a youtube.com or youtu.be link.
func ValidURL(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	return youtubeURLPattern.MatchString(rawURL)
}

type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateURL performs URL validation
func (v *Validator) ValidateURL(rawURL string) error {
	const op = "Validator.ValidateURL"

	if !ValidURL(rawURL) {
		return errors.InvalidInput(op, nil, MessageInvalidURL)
	}
	return nil
}

// RequestValidationOpts holds options for request validation
type RequestValidationOpts struct {
	MaxContentLength int64
	AllowedMethods   []string
	RequireJSON      bool
}

// ValidateRequest validates HTTP requests
func (v *Validator) ValidateRequest(r *http.Request, opts RequestValidationOpts) error {
	const op = "Validator.ValidateRequest"

	if len(opts.AllowedMethods) > 0 {
		methodAllowed := false
		for _, method := range opts.AllowedMethods {
			if r.Method == method {
				methodAllowed = true
				break
			}
		}
		if !methodAllowed {
			return errors.MethodNotAllowed(op, fmt.Sprintf("Method %s not allowed", r.Method))
		}
	}

	if opts.RequireJSON && r.ContentLength != 0 {
		if contentType := r.Header.Get("Content-Type"); !strings.Contains(contentType, "application/json") {
			return errors.InvalidInput(op, nil, "Content-Type must be application/json")
		}
	}

	if opts.MaxContentLength > 0 && r.ContentLength > opts.MaxContentLength {
		return errors.InvalidInput(op, nil, "Request body too large")
	}

	return nil
}
