package summary

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	"github.com/nijaru/yt-summarizer/config"
)

type gemini struct {
	client   *genai.Client
	model    string
	generate *genai.GenerateContentConfig
}

func NewGemini(ctx context.Context, cfg config.LLMConfig) (Completer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create gemini client")
	}

	model := cfg.Model
	if model == "" {
		model = config.DefaultGeminiModel
	}

	generate := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(cfg.Temperature)),
	}
	if cfg.MaxTokens > 0 {
		generate.MaxOutputTokens = int32(cfg.MaxTokens)
	}

	return &gemini{client: client, model: model, generate: generate}, nil
}

func (g *gemini) Complete(ctx context.Context, system, user string) (string, error) {
	generate := *g.generate
	generate.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(user), &generate)
	if err != nil {
		return "", errors.Wrap(err, "gemini generate content")
	}
	return responseText(result), nil
}

func responseText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}
