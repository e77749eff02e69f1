package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("LOG_DIR", filepath.Join(dir, "logs"))
	t.Setenv("AUDIO_FOLDER", filepath.Join(dir, "audio"))
	t.Setenv("GROQ_API_KEY", "test-key")
	t.Setenv("LLM_PROVIDER", "groq")
	t.Setenv("CONFIG_FILE", "")
	return dir
}

func TestLoadDefaults(t *testing.T) {
	dir := setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Audio.Codec != "mp3" {
		t.Errorf("expected mp3, got %s", cfg.Audio.Codec)
	}
	if cfg.Audio.Quality != "192" {
		t.Errorf("expected 192, got %s", cfg.Audio.Quality)
	}
	if cfg.Video.MaxDuration != 300*time.Second {
		t.Errorf("expected 300s, got %s", cfg.Video.MaxDuration)
	}
	if len(cfg.Video.Languages) != 3 || cfg.Video.Languages[0] != "es" {
		t.Errorf("unexpected languages %v", cfg.Video.Languages)
	}
	if cfg.WriteTimeout != 0 {
		t.Errorf("expected write timeout disabled, got %s", cfg.WriteTimeout)
	}
	if _, err := os.Stat(filepath.Join(dir, "audio")); err != nil {
		t.Errorf("audio folder was not created: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("READ_TIMEOUT", "10s")
	t.Setenv("MAX_VIDEO_DURATION", "600")
	t.Setenv("TRANSCRIPT_LANGUAGES", "en, es")
	t.Setenv("AUDIO_CODEC", "m4a")
	t.Setenv("LLM_TEMPERATURE", "0.7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServerPort != "9090" {
		t.Errorf("expected 9090, got %s", cfg.ServerPort)
	}
	if cfg.ReadTimeout != 10*time.Second {
		t.Errorf("expected 10s, got %s", cfg.ReadTimeout)
	}
	if cfg.Video.MaxDuration != 600*time.Second {
		t.Errorf("expected 600s, got %s", cfg.Video.MaxDuration)
	}
	if len(cfg.Video.Languages) != 2 || cfg.Video.Languages[1] != "es" {
		t.Errorf("unexpected languages %v", cfg.Video.Languages)
	}
	if cfg.Audio.Codec != "m4a" {
		t.Errorf("expected m4a, got %s", cfg.Audio.Codec)
	}
	if cfg.LLM.Temperature != 0.7 {
		t.Errorf("expected 0.7, got %v", cfg.LLM.Temperature)
	}
}

func TestLoadFileOverlay(t *testing.T) {
	dir := setBaseEnv(t)
	path := filepath.Join(dir, "config.yaml")
	doc := []byte(`
server_port: "7070"
video:
  max_duration: 2m
  languages: [pt]
llm:
  model: llama-3.3-70b-versatile
`)
	if err := os.WriteFile(path, doc, 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LLM_MODEL", "from-env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServerPort != "7070" {
		t.Errorf("expected 7070 from file, got %s", cfg.ServerPort)
	}
	if cfg.Video.MaxDuration != 2*time.Minute {
		t.Errorf("expected 2m from file, got %s", cfg.Video.MaxDuration)
	}
	if len(cfg.Video.Languages) != 1 || cfg.Video.Languages[0] != "pt" {
		t.Errorf("unexpected languages %v", cfg.Video.Languages)
	}
	if cfg.LLM.Model != "from-env" {
		t.Errorf("env should win over file, got %s", cfg.LLM.Model)
	}
	if cfg.Audio.Codec != "mp3" {
		t.Errorf("defaults should survive the overlay, got %s", cfg.Audio.Codec)
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	base := func() *Config {
		cfg := Default()
		cfg.Log.Dir = filepath.Join(dir, "logs")
		cfg.Audio.Folder = filepath.Join(dir, "audio")
		cfg.LLM.APIKey = "key"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid config", mutate: func(c *Config) {}, wantErr: false},
		{name: "missing groq key", mutate: func(c *Config) { c.LLM.APIKey = "" }, wantErr: true},
		{name: "gemini without key", mutate: func(c *Config) { c.LLM.Provider = ProviderGemini }, wantErr: true},
		{name: "gemini with key", mutate: func(c *Config) {
			c.LLM.Provider = ProviderGemini
			c.LLM.GeminiAPIKey = "g"
		}, wantErr: false},
		{name: "unknown provider", mutate: func(c *Config) { c.LLM.Provider = "other" }, wantErr: true},
		{name: "zero duration cap", mutate: func(c *Config) { c.Video.MaxDuration = 0 }, wantErr: true},
		{name: "negative write timeout", mutate: func(c *Config) { c.WriteTimeout = -time.Second }, wantErr: true},
		{name: "no languages", mutate: func(c *Config) { c.Video.Languages = nil }, wantErr: true},
		{name: "empty audio folder", mutate: func(c *Config) { c.Audio.Folder = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGeminiDefaultModel(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("LLM_PROVIDER", "Gemini")
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LLM.Provider != ProviderGemini {
		t.Errorf("expected provider to be lowercased, got %s", cfg.LLM.Provider)
	}
	if cfg.LLM.Model != DefaultGeminiModel {
		t.Errorf("expected %s, got %s", DefaultGeminiModel, cfg.LLM.Model)
	}
}
