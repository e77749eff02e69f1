package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"

	DefaultGroqModel   = "llama-3.1-70b-versatile"
	DefaultGeminiModel = "gemini-2.5-flash"
)

type Config struct {
	// Server settings
	ServerPort      string        `yaml:"server_port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	Debug           bool          `yaml:"debug"`
	Version         string        `yaml:"version"`

	Log   LogConfig   `yaml:"log"`
	Audio AudioConfig `yaml:"audio"`
	Video VideoConfig `yaml:"video"`
	LLM   LLMConfig   `yaml:"llm"`
	CORS  CORSConfig  `yaml:"cors"`
}

type LogConfig struct {
	Dir        string `yaml:"dir"`
	Level      string `yaml:"level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Stdout     bool   `yaml:"stdout"`
}

type AudioConfig struct {
	Folder          string        `yaml:"folder"`
	Codec           string        `yaml:"codec"`
	Quality         string        `yaml:"quality"`
	Retention       time.Duration `yaml:"retention"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

type VideoConfig struct {
	MaxDuration time.Duration `yaml:"max_duration"`
	Languages   []string      `yaml:"languages"`
	YTDLPPath   string        `yaml:"ytdlp_path"`
	FFmpegPath  string        `yaml:"ffmpeg_path"`
}

type LLMConfig struct {
	Provider     string  `yaml:"provider"`
	APIKey       string  `yaml:"api_key"`
	GeminiAPIKey string  `yaml:"gemini_api_key"`
	APIBase      string  `yaml:"api_base"`
	Model        string  `yaml:"model"`
	Temperature  float64 `yaml:"temperature"`
	MaxTokens    int     `yaml:"max_tokens"`
}

type CORSConfig struct {
	Enabled          bool     `yaml:"enabled"`
	AllowedOrigins   []string `yaml:"allowed_origins"`
	AllowedMethods   []string `yaml:"allowed_methods"`
	AllowedHeaders   []string `yaml:"allowed_headers"`
	ExposedHeaders   []string `yaml:"exposed_headers"`
	AllowCredentials bool     `yaml:"allow_credentials"`
	MaxAge           int      `yaml:"max_age"`
}

// Default returns the built-in configuration before any file or environment
// overrides are applied.
func Default() *Config {
	return &Config{
		ServerPort:      "5000",
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    0,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		Version:         "1.0.0",
		Log: LogConfig{
			Dir:        "logs",
			Level:      "debug",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Audio: AudioConfig{
			Folder:          "/services/temp_audios",
			Codec:           "mp3",
			Quality:         "192",
			Retention:       30 * time.Minute,
			CleanupInterval: 5 * time.Minute,
		},
		Video: VideoConfig{
			MaxDuration: 300 * time.Second,
			Languages:   []string{"es", "pt", "en"},
			YTDLPPath:   "yt-dlp",
		},
		LLM: LLMConfig{
			Provider:    ProviderGroq,
			APIBase:     "https://api.groq.com/openai/v1",
			Model:       DefaultGroqModel,
			Temperature: 0.2,
			MaxTokens:   1024,
		},
		CORS: CORSConfig{
			Enabled:        true,
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
			ExposedHeaders: []string{"Content-Disposition", "X-Request-ID"},
			MaxAge:         86400,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file named by
// CONFIG_FILE, and environment variables, in that order of precedence.
func Load() (*Config, error) {
	cfg := Default()

	if path := getEnv("CONFIG_FILE", ""); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFile overlays the YAML document at path onto c.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read config file %s", path)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.Wrapf(err, "parse config file %s", path)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ServerPort = getEnv("SERVER_PORT", c.ServerPort)
	c.ReadTimeout = getEnvAsDuration("READ_TIMEOUT", c.ReadTimeout)
	c.WriteTimeout = getEnvAsDuration("WRITE_TIMEOUT", c.WriteTimeout)
	c.IdleTimeout = getEnvAsDuration("IDLE_TIMEOUT", c.IdleTimeout)
	c.ShutdownTimeout = getEnvAsDuration("SHUTDOWN_TIMEOUT", c.ShutdownTimeout)
	c.Debug = getEnvAsBool("DEBUG", c.Debug)
	c.Version = getEnv("VERSION", c.Version)

	c.Log.Dir = getEnv("LOG_DIR", c.Log.Dir)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.MaxSizeMB = getEnvAsInt("LOG_MAX_SIZE_MB", c.Log.MaxSizeMB)
	c.Log.MaxBackups = getEnvAsInt("LOG_MAX_BACKUPS", c.Log.MaxBackups)
	c.Log.MaxAgeDays = getEnvAsInt("LOG_MAX_AGE_DAYS", c.Log.MaxAgeDays)
	c.Log.Stdout = getEnvAsBool("LOG_STDOUT", c.Log.Stdout)

	c.Audio.Folder = getEnv("AUDIO_FOLDER", c.Audio.Folder)
	c.Audio.Codec = getEnv("AUDIO_CODEC", c.Audio.Codec)
	c.Audio.Quality = getEnv("AUDIO_QUALITY", c.Audio.Quality)
	c.Audio.Retention = getEnvAsDuration("AUDIO_RETENTION", c.Audio.Retention)
	c.Audio.CleanupInterval = getEnvAsDuration("CLEANUP_INTERVAL", c.Audio.CleanupInterval)

	c.Video.MaxDuration = getEnvAsDuration("MAX_VIDEO_DURATION", c.Video.MaxDuration)
	c.Video.Languages = getEnvAsStringSlice("TRANSCRIPT_LANGUAGES", c.Video.Languages)
	c.Video.YTDLPPath = getEnv("YTDLP_PATH", c.Video.YTDLPPath)
	c.Video.FFmpegPath = getEnv("FFMPEG_PATH", c.Video.FFmpegPath)

	c.LLM.Provider = strings.ToLower(getEnv("LLM_PROVIDER", c.LLM.Provider))
	c.LLM.APIKey = getEnv("GROQ_API_KEY", c.LLM.APIKey)
	c.LLM.GeminiAPIKey = getEnv("GEMINI_API_KEY", c.LLM.GeminiAPIKey)
	c.LLM.APIBase = getEnv("LLM_API_BASE", c.LLM.APIBase)
	c.LLM.Model = getEnv("LLM_MODEL", c.LLM.Model)
	if c.LLM.Provider == ProviderGemini && c.LLM.Model == DefaultGroqModel {
		c.LLM.Model = DefaultGeminiModel
	}
	c.LLM.Temperature = getEnvAsFloat("LLM_TEMPERATURE", c.LLM.Temperature)
	c.LLM.MaxTokens = getEnvAsInt("LLM_MAX_TOKENS", c.LLM.MaxTokens)

	c.CORS.Enabled = getEnvAsBool("CORS_ENABLED", c.CORS.Enabled)
	c.CORS.AllowedOrigins = getEnvAsStringSlice("CORS_ALLOWED_ORIGINS", c.CORS.AllowedOrigins)
	c.CORS.AllowedMethods = getEnvAsStringSlice("CORS_ALLOWED_METHODS", c.CORS.AllowedMethods)
	c.CORS.AllowedHeaders = getEnvAsStringSlice("CORS_ALLOWED_HEADERS", c.CORS.AllowedHeaders)
	c.CORS.ExposedHeaders = getEnvAsStringSlice("CORS_EXPOSED_HEADERS", c.CORS.ExposedHeaders)
	c.CORS.AllowCredentials = getEnvAsBool("CORS_ALLOW_CREDENTIALS", c.CORS.AllowCredentials)
	c.CORS.MaxAge = getEnvAsInt("CORS_MAX_AGE", c.CORS.MaxAge)
}

func (c *Config) Validate() error {
	if err := validatePaths(c); err != nil {
		return err
	}
	if err := validateTimeouts(c); err != nil {
		return err
	}
	return validateServices(c)
}

func validatePaths(c *Config) error {
	paths := []struct {
		path string
		name string
	}{
		{c.Log.Dir, "log directory"},
		{c.Audio.Folder, "audio folder"},
	}

	for _, p := range paths {
		if p.path == "" {
			return fmt.Errorf("%s is required", p.name)
		}
		if err := os.MkdirAll(p.path, 0755); err != nil {
			return errors.Wrapf(err, "failed to create %s", p.name)
		}
	}

	return nil
}

func validateTimeouts(c *Config) error {
	if c.ServerPort == "" {
		return errors.New("server port is required")
	}
	if c.ReadTimeout <= 0 {
		return errors.New("read timeout must be positive")
	}
	// zero disables the write deadline so long downloads are not cut off
	if c.WriteTimeout < 0 {
		return errors.New("write timeout must not be negative")
	}
	if c.IdleTimeout <= 0 {
		return errors.New("idle timeout must be positive")
	}
	if c.Audio.Retention <= 0 || c.Audio.CleanupInterval <= 0 {
		return errors.New("audio retention and cleanup interval must be positive")
	}
	return nil
}

func validateServices(c *Config) error {
	if c.Video.MaxDuration <= 0 {
		return errors.New("max video duration must be positive")
	}
	if len(c.Video.Languages) == 0 {
		return errors.New("at least one transcript language is required")
	}
	if c.Video.YTDLPPath == "" {
		return errors.New("yt-dlp path is required")
	}
	if c.Audio.Codec == "" || c.Audio.Quality == "" {
		return errors.New("audio codec and quality are required")
	}

	switch c.LLM.Provider {
	case ProviderGroq:
		if c.LLM.APIKey == "" {
			return errors.New("GROQ_API_KEY is required for the groq provider")
		}
		if c.LLM.APIBase == "" {
			return errors.New("llm api base is required for the groq provider")
		}
	case ProviderGemini:
		if c.LLM.GeminiAPIKey == "" {
			return errors.New("GEMINI_API_KEY is required for the gemini provider")
		}
	default:
		return errors.Errorf("unsupported llm provider %q", c.LLM.Provider)
	}
	if c.LLM.Model == "" {
		return errors.New("llm model is required")
	}

	return nil
}

// Helper functions for reading environment variables
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// Bare integers are read as seconds, so MAX_VIDEO_DURATION=300 works.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}

func getEnvAsStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists {
		if value = strings.TrimSpace(value); value != "" {
			parts := strings.Split(value, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			return parts
		}
	}
	return defaultValue
}
