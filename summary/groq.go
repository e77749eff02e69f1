package summary

import (
	"context"
	"net/http"

	"github.com/anatolykoptev/go-kit/llm"
	"github.com/pkg/errors"

	"github.com/nijaru/yt-summarizer/config"
)

// groq talks to any OpenAI-compatible chat completions endpoint; Groq is the
// default base URL.
type groq struct {
	client *llm.Client
}

func NewGroq(cfg config.LLMConfig, httpClient *http.Client) Completer {
	client := llm.NewClient(cfg.APIBase, cfg.APIKey, cfg.Model,
		llm.WithMaxTokens(cfg.MaxTokens),
		llm.WithTemperature(cfg.Temperature),
		llm.WithHTTPClient(httpClient),
	)
	return &groq{client: client}
}

func (g *groq) Complete(ctx context.Context, system, user string) (string, error) {
	out, err := g.client.Complete(ctx, system, user)
	if err != nil {
		return "", errors.Wrap(err, "groq chat completion")
	}
	return out, nil
}
