package summary

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"google.golang.org/genai"

	"github.com/nijaru/yt-summarizer/config"
)

type fakeCompleter struct {
	system string
	user   string
	output string
	err    error
}

func (f *fakeCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	f.system = system
	f.user = user
	return f.output, f.err
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		err     error
		want    string
		wantErr bool
	}{
		{name: "trims output", output: "\n  Resumen breve.  \n", want: "Resumen breve."},
		{name: "empty output is not an error", output: "   ", want: ""},
		{name: "backend error", err: fmt.Errorf("status 503"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeCompleter{output: tt.output, err: tt.err}
			got, err := New(backend).Summarize(context.Background(), "the transcript")

			if (err != nil) != tt.wantErr {
				t.Fatalf("Summarize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Summarize() = %q, want %q", got, tt.want)
			}
			if backend.user != "the transcript" {
				t.Errorf("expected transcript as user turn, got %q", backend.user)
			}
			if backend.system != SystemPrompt {
				t.Errorf("expected fixed system prompt")
			}
		})
	}
}

func TestSystemPromptAnswersInSpanish(t *testing.T) {
	for _, want := range []string{"Responde exclusivamente en español", "portugués de Brasil"} {
		if !strings.Contains(SystemPrompt, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
}

func TestNewFromConfig(t *testing.T) {
	if _, err := NewFromConfig(context.Background(), config.LLMConfig{Provider: "openai-ish"}); err == nil {
		t.Error("expected error for unknown provider")
	}

	s, err := NewFromConfig(context.Background(), config.LLMConfig{
		Provider: config.ProviderGroq,
		APIKey:   "key",
		APIBase:  "http://127.0.0.1:1",
		Model:    config.DefaultGroqModel,
	})
	if err != nil {
		t.Fatalf("NewFromConfig() error = %v", err)
	}
	if _, ok := s.backend.(*groq); !ok {
		t.Errorf("expected groq backend, got %T", s.backend)
	}
}

func TestResponseText(t *testing.T) {
	if got := responseText(nil); got != "" {
		t.Errorf("responseText(nil) = %q", got)
	}

	result := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: "Resumen "}, {Text: ""}, {Text: "final."}}},
		}},
	}
	if got := responseText(result); got != "Resumen final." {
		t.Errorf("responseText() = %q", got)
	}
}
