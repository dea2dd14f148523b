package llm

import (
	"context"
	"strings"

	"github.com/nguyentantai21042004/scribeflow/internal/apperr"
)

const (
	anthropicVersion   = "2023-06-01"
	anthropicMaxTokens = 4096
)

type implAnthropic struct {
	t         *transport
	endpoint  string
	apiKey    string
	model     string
	maxTokens int
}

type messagesRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	System    string        `json:"system,omitempty"`
	Messages  []chatMessage `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *implAnthropic) Name() string { return ProviderAnthropic }

func (p *implAnthropic) Complete(ctx context.Context, system, user string) (string, error) {
	const op = "anthropic complete"
	maxTokens := p.maxTokens
	if maxTokens <= 0 {
		maxTokens = anthropicMaxTokens
	}
	payload := messagesRequest{
		Model:     p.model,
		MaxTokens: maxTokens,
		System:    system,
		Messages:  []chatMessage{{Role: "user", Content: user}},
	}
	headers := map[string]string{
		"x-api-key":         p.apiKey,
		"anthropic-version": anthropicVersion,
	}

	var resp messagesResponse
	if err := p.t.postJSON(ctx, p.endpoint, headers, payload, &resp); err != nil {
		return "", remoteError(op, err)
	}
	if resp.Error != nil {
		return "", apperr.Wrap(apperr.ErrRemoteService, op, resp.Error.Type+": "+resp.Error.Message, nil)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", apperr.Wrap(apperr.ErrRemoteService, op, "empty response", nil)
	}
	return text, nil
}
