package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nguyentantai21042004/scribeflow/internal/apperr"
	"github.com/nguyentantai21042004/scribeflow/internal/config"
	"github.com/nguyentantai21042004/scribeflow/internal/logger"
)

func noSleep(time.Duration) {}

func TestOpenAICompleteSendsPrompts(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("Authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  rewritten  "}}]}`))
	}))
	defer srv.Close()

	p, err := New(config.LLMConfig{Provider: "openai", APIKey: "sk-test", BaseURL: srv.URL}, logger.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	text, err := p.Complete(context.Background(), "sys", "user text")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if text != "rewritten" {
		t.Errorf("Complete() = %q, want %q", text, "rewritten")
	}
	if got.Model != "gpt-4o-mini" {
		t.Errorf("model = %q, want default", got.Model)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[0].Content != "sys" || got.Messages[1].Content != "user text" {
		t.Errorf("messages = %+v", got.Messages)
	}
}

func TestGroqUsesChatProtocol(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	p, err := New(config.LLMConfig{Provider: "groq", APIKey: "gsk", BaseURL: srv.URL}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if p.Name() != ProviderGroq {
		t.Errorf("Name() = %q", p.Name())
	}
	if text, err := p.Complete(context.Background(), "s", "u"); err != nil || text != "ok" {
		t.Errorf("Complete() = %q, %v", text, err)
	}
}

func TestAnthropicComplete(t *testing.T) {
	var got messagesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "ak" || r.Header.Get("anthropic-version") != anthropicVersion {
			t.Errorf("headers = %v", r.Header)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"part one "},{"type":"text","text":"part two"}]}`))
	}))
	defer srv.Close()

	p, err := New(config.LLMConfig{Provider: "anthropic", APIKey: "ak", BaseURL: srv.URL}, logger.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	text, err := p.Complete(context.Background(), "sys", "hello")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if text != "part one part two" {
		t.Errorf("Complete() = %q", text)
	}
	if got.System != "sys" || got.MaxTokens != anthropicMaxTokens || len(got.Messages) != 1 {
		t.Errorf("request = %+v", got)
	}
}

func TestCompleteRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"slow down"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"finally"}}]}`))
	}))
	defer srv.Close()

	var slept []time.Duration
	p, err := New(
		config.LLMConfig{Provider: "openai", APIKey: "k", BaseURL: srv.URL, MaxRetries: 3},
		logger.Nop(),
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
		WithRetryBackoff(time.Second, 4*time.Second),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	text, err := p.Complete(context.Background(), "s", "u")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if text != "finally" || calls.Load() != 3 {
		t.Errorf("Complete() = %q after %d calls", text, calls.Load())
	}
	if len(slept) != 2 || slept[0] != time.Second || slept[1] != 2*time.Second {
		t.Errorf("sleeps = %v", slept)
	}
}

func TestCompleteDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer srv.Close()

	p, _ := New(config.LLMConfig{Provider: "openai", APIKey: "k", BaseURL: srv.URL, MaxRetries: 3}, nil, WithSleeper(noSleep))
	_, err := p.Complete(context.Background(), "s", "u")
	if !errors.Is(err, apperr.ErrRemoteService) {
		t.Fatalf("Complete() error = %v, want ErrRemoteService", err)
	}
	var statusErr *httpStatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("Complete() error = %v, want wrapped 401", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	for _, provider := range []string{"openai", "anthropic", "groq", "gemini"} {
		_, err := New(config.LLMConfig{Provider: provider}, nil)
		if !errors.Is(err, apperr.ErrConfiguration) {
			t.Errorf("New(%s) error = %v, want ErrConfiguration", provider, err)
		}
	}
	if _, err := New(config.LLMConfig{Provider: "mystery", APIKey: "k"}, nil); !errors.Is(err, apperr.ErrConfiguration) {
		t.Errorf("New(unknown) error = %v", err)
	}
}

func TestGeminiRotatesRateLimitedKeys(t *testing.T) {
	var used []string
	g := &implGemini{
		apiKeys: []string{"k1", "k2", "k3"},
		model:   "gemini-2.5-flash",
		logger:  logger.Nop(),
	}
	g.generate = func(_ context.Context, key, _, _, _ string) (string, error) {
		used = append(used, key)
		if key == "k3" {
			return " answer ", nil
		}
		return "", errors.New("Error 429, RESOURCE_EXHAUSTED")
	}

	text, err := g.Complete(context.Background(), "s", "u")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if text != "answer" {
		t.Errorf("Complete() = %q", text)
	}
	if len(used) != 3 || used[2] != "k3" {
		t.Errorf("keys used = %v", used)
	}
	// Next call starts from the key that worked.
	if _, err := g.Complete(context.Background(), "s", "u"); err != nil || used[3] != "k3" {
		t.Errorf("second call used %v, err %v", used, err)
	}
}

func TestGeminiExhaustsKeys(t *testing.T) {
	g := &implGemini{apiKeys: []string{"a", "b"}, logger: logger.Nop()}
	g.generate = func(context.Context, string, string, string, string) (string, error) {
		return "", errors.New("quota exceeded")
	}
	_, err := g.Complete(context.Background(), "s", "u")
	if !errors.Is(err, apperr.ErrRemoteService) {
		t.Errorf("Complete() error = %v, want ErrRemoteService", err)
	}
}
