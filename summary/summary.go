package summary

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/nijaru/yt-summarizer/config"
)

// Completer sends one system instruction and one user turn to a chat model.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type Summarizer struct {
	backend Completer
	prompt  string
}

func New(backend Completer) *Summarizer {
	return &Summarizer{backend: backend, prompt: SystemPrompt}
}

// NewFromConfig builds the summarizer for the configured provider.
func NewFromConfig(ctx context.Context, cfg config.LLMConfig) (*Summarizer, error) {
	var (
		backend Completer
		err     error
	)

	switch cfg.Provider {
	case config.ProviderGroq, "":
		backend = NewGroq(cfg, &http.Client{Timeout: 60 * time.Second})
	case config.ProviderGemini:
		backend, err = NewGemini(ctx, cfg)
	default:
		err = errors.Errorf("unsupported llm provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return New(backend), nil
}

// Summarize returns the model's summary of transcript with surrounding
// whitespace trimmed. An empty summary is not an error here.
func (s *Summarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	out, err := s.backend.Complete(ctx, s.prompt, transcript)
	if err != nil {
		return "", errors.WithMessage(err, "summarize transcript")
	}
	return strings.TrimSpace(out), nil
}
