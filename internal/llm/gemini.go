package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/scribeflow/internal/apperr"
	"github.com/nguyentantai21042004/scribeflow/internal/logger"
)

type generateFunc func(ctx context.Context, apiKey, model, system, user string) (string, error)

// implGemini rotates through its API keys when one is rate limited.
type implGemini struct {
	mu         sync.Mutex
	apiKeys    []string
	currentKey int
	model      string
	maxTokens  int
	baseURL    string
	logger     logger.Logger
	generate   generateFunc
}

func (g *implGemini) Name() string { return ProviderGemini }

func (g *implGemini) Complete(ctx context.Context, system, user string) (string, error) {
	const op = "gemini complete"
	var lastErr error

	for range len(g.apiKeys) {
		idx, key := g.key()
		text, err := g.generate(ctx, key, g.model, system, user)
		if err == nil {
			text = strings.TrimSpace(text)
			if text == "" {
				return "", apperr.Wrap(apperr.ErrRemoteService, op, "empty response", nil)
			}
			return text, nil
		}
		if errors.Is(err, context.Canceled) {
			return "", err
		}
		if !isRateLimited(err) {
			return "", apperr.Wrap(apperr.ErrRemoteService, op, "", err)
		}
		g.logger.Warn(ctx, "Key %d rate limited, rotating...", idx+1)
		g.rotateKey()
		lastErr = err
	}

	return "", apperr.Wrap(apperr.ErrRemoteService, op, "all API keys exhausted", lastErr)
}

func (g *implGemini) key() (int, string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentKey, g.apiKeys[g.currentKey]
}

func (g *implGemini) rotateKey() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
}

func (g *implGemini) generateContent(ctx context.Context, apiKey, model, system, user string) (string, error) {
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if g.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}

	gc := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	}
	if g.maxTokens > 0 {
		gc.MaxOutputTokens = int32(min(g.maxTokens, math.MaxInt32))
	}

	result, err := client.Models.GenerateContent(ctx, model, genai.Text(user), gc)
	if err != nil {
		return "", err
	}
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", nil
	}
	var b strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			b.WriteString(part.Text)
		}
	}
	return b.String(), nil
}

func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
