package config

import (
	"fmt"
	"math"
	"os"
	"strings"

	"golang.org/x/text/language"
)

type Config struct {
	Whisper     WhisperConfig     `yaml:"whisper"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
	LLM         LLMConfig         `yaml:"llm"`
	Cache       CacheConfig       `yaml:"cache"`
	Events      EventsConfig      `yaml:"events"`
	Export      ExportConfig      `yaml:"export"`
}

type WhisperConfig struct {
	BinaryPath string `yaml:"binary_path"`
	ModelsDir  string `yaml:"models_dir"`
	Model      string `yaml:"model"`
	Language   string `yaml:"language"`
	Task       string `yaml:"task"`
	Prompt     string `yaml:"prompt"`
	Threads    int    `yaml:"threads"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
	SampleRate int    `yaml:"sample_rate"`
}

type PathsConfig struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	Temp   string `yaml:"temp"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

type LLMConfig struct {
	Provider       string   `yaml:"provider"`
	Model          string   `yaml:"model"`
	APIKey         string   `yaml:"api_key"`
	APIKeys        []string `yaml:"api_keys"`
	BaseURL        string   `yaml:"base_url"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
	MaxRetries     int      `yaml:"max_retries"`
	MaxTokens      int      `yaml:"max_tokens"`
	IntroLabel     string   `yaml:"intro_label"`
}

type CacheConfig struct {
	Backend string `yaml:"backend"` // memory, sqlite or none
	Path    string `yaml:"path"`
}

type EventsConfig struct {
	Addr string `yaml:"addr"`
}

type ExportConfig struct {
	TranscriptDocx bool `yaml:"transcript_docx"`
}

// Provider environment variables consulted when llm.api_key is empty.
var apiKeyEnv = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"groq":      "GROQ_API_KEY",
	"gemini":    "GEMINI_API_KEY",
}

func (c *Config) Validate() error {
	if c.Whisper.BinaryPath == "" {
		return fmt.Errorf("whisper.binary_path is required")
	}
	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}

	if c.Whisper.Language == "" {
		c.Whisper.Language = "zh"
	}
	if c.Whisper.Language != "auto" {
		if _, err := language.Parse(c.Whisper.Language); err != nil {
			return fmt.Errorf("whisper.language %q: %w", c.Whisper.Language, err)
		}
	}
	if c.Whisper.Task == "" {
		c.Whisper.Task = "transcribe"
	}
	if c.Whisper.Task != "transcribe" && c.Whisper.Task != "translate" {
		return fmt.Errorf("whisper.task must be transcribe or translate, got %q", c.Whisper.Task)
	}
	if c.Whisper.Model == "" {
		c.Whisper.Model = "small"
	}
	if c.Whisper.ModelsDir == "" {
		c.Whisper.ModelsDir = "models"
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 4
	}

	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.FFmpeg.SampleRate == 0 {
		c.FFmpeg.SampleRate = 16000
	}

	if c.Paths.Input == "" {
		c.Paths.Input = "data/input"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 1
	}

	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	if c.LLM.Provider == "" {
		c.LLM.Provider = "openai"
	}
	if _, ok := apiKeyEnv[c.LLM.Provider]; !ok {
		return fmt.Errorf("llm.provider %q is not supported", c.LLM.Provider)
	}
	if c.LLM.TimeoutSeconds == 0 {
		c.LLM.TimeoutSeconds = 120
	}
	if c.LLM.MaxRetries == 0 {
		c.LLM.MaxRetries = 3
	}
	if c.LLM.MaxTokens < 0 || c.LLM.MaxTokens > math.MaxInt32 {
		return fmt.Errorf("llm.max_tokens must be between 0 and %d, got %d", math.MaxInt32, c.LLM.MaxTokens)
	}
	if c.LLM.IntroLabel == "" {
		c.LLM.IntroLabel = "Introduction:"
	}

	switch c.Cache.Backend {
	case "":
		c.Cache.Backend = "memory"
	case "memory", "none":
	case "sqlite":
		if c.Cache.Path == "" {
			c.Cache.Path = "data/cache.db"
		}
	default:
		return fmt.Errorf("cache.backend %q is not supported", c.Cache.Backend)
	}

	return nil
}

// ResolveCredentials fills llm.api_key from the provider's environment
// variable when the file does not set one.
func (c *Config) ResolveCredentials(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if c.LLM.APIKey != "" || len(c.LLM.APIKeys) > 0 {
		return
	}
	if name, ok := apiKeyEnv[c.LLM.Provider]; ok {
		c.LLM.APIKey = strings.TrimSpace(getenv(name))
	}
}

// APIKeyEnv returns the environment variable consulted for provider.
func APIKeyEnv(provider string) string {
	return apiKeyEnv[strings.ToLower(provider)]
}
