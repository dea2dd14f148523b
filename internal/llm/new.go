package llm

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nguyentantai21042004/scribeflow/internal/apperr"
	"github.com/nguyentantai21042004/scribeflow/internal/config"
	"github.com/nguyentantai21042004/scribeflow/internal/logger"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGroq      = "groq"
	ProviderGemini    = "gemini"
)

var defaultModels = map[string]string{
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderAnthropic: "claude-3-5-haiku-latest",
	ProviderGroq:      "llama-3.1-8b-instant",
	ProviderGemini:    "gemini-2.5-flash",
}

var defaultEndpoints = map[string]string{
	ProviderOpenAI:    "https://api.openai.com/v1/chat/completions",
	ProviderAnthropic: "https://api.anthropic.com/v1/messages",
	ProviderGroq:      "https://api.groq.com/openai/v1/chat/completions",
}

// Option customizes provider construction.
type Option func(*options)

type options struct {
	httpClient *http.Client
	sleeper    func(time.Duration)
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// WithHTTPClient overrides the HTTP client used by HTTP-backed providers.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithSleeper overrides how retry sleeps are performed.
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(o *options) {
		o.sleeper = sleeper
	}
}

// WithRetryBackoff overrides the retry backoff delays.
func WithRetryBackoff(baseDelay, maxDelay time.Duration) Option {
	return func(o *options) {
		o.baseDelay = baseDelay
		o.maxDelay = maxDelay
	}
}

// New returns the provider selected by cfg.Provider. Credentials must already
// be resolved into cfg.
func New(cfg config.LLMConfig, log logger.Logger, opts ...Option) (Provider, error) {
	o := options{
		baseDelay: defaultRetryBaseDelay,
		maxDelay:  defaultRetryMaxDelay,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if log == nil {
		log = logger.Nop()
	}

	name := strings.ToLower(strings.TrimSpace(cfg.Provider))
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModels[name]
	}

	switch name {
	case ProviderOpenAI, ProviderGroq, ProviderAnthropic:
		key := strings.TrimSpace(cfg.APIKey)
		if key == "" && len(cfg.APIKeys) > 0 {
			key = strings.TrimSpace(cfg.APIKeys[0])
		}
		if key == "" {
			return nil, missingKey(name)
		}
		t := newTransport(cfg, o, log)
		endpoint := strings.TrimSpace(cfg.BaseURL)
		if endpoint == "" {
			endpoint = defaultEndpoints[name]
		}
		if name == ProviderAnthropic {
			return &implAnthropic{t: t, endpoint: endpoint, apiKey: key, model: model, maxTokens: cfg.MaxTokens}, nil
		}
		return &implOpenAI{name: name, t: t, endpoint: endpoint, apiKey: key, model: model, maxTokens: cfg.MaxTokens}, nil

	case ProviderGemini:
		keys := geminiKeys(cfg)
		if len(keys) == 0 {
			return nil, missingKey(name)
		}
		g := &implGemini{
			apiKeys:   keys,
			model:     model,
			maxTokens: cfg.MaxTokens,
			baseURL:   strings.TrimSpace(cfg.BaseURL),
			logger:    log,
		}
		g.generate = g.generateContent
		return g, nil

	default:
		return nil, apperr.Wrap(apperr.ErrConfiguration, "llm", fmt.Sprintf("unknown provider %q", cfg.Provider), nil)
	}
}

func missingKey(provider string) error {
	msg := "api key required"
	if env := config.APIKeyEnv(provider); env != "" {
		msg = fmt.Sprintf("api key required (set llm.api_key or %s)", env)
	}
	return apperr.Wrap(apperr.ErrConfiguration, "llm "+provider, msg, nil)
}

func geminiKeys(cfg config.LLMConfig) []string {
	var keys []string
	if k := strings.TrimSpace(cfg.APIKey); k != "" {
		keys = append(keys, k)
	}
	for _, k := range cfg.APIKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
