package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/nguyentantai21042004/scribeflow/internal/apperr"
)

// implOpenAI speaks the chat-completions protocol shared by OpenAI and Groq.
type implOpenAI struct {
	name      string
	t         *transport
	endpoint  string
	apiKey    string
	model     string
	maxTokens int
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *implOpenAI) Name() string { return p.name }

func (p *implOpenAI) Complete(ctx context.Context, system, user string) (string, error) {
	op := p.name + " complete"
	payload := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.3,
		MaxTokens:   p.maxTokens,
	}
	headers := map[string]string{"Authorization": "Bearer " + p.apiKey}

	var resp chatResponse
	if err := p.t.postJSON(ctx, p.endpoint, headers, payload, &resp); err != nil {
		return "", remoteError(op, err)
	}
	if resp.Error != nil {
		return "", apperr.Wrap(apperr.ErrRemoteService, op, strings.TrimSpace(resp.Error.Message), nil)
	}
	for _, choice := range resp.Choices {
		if text := strings.TrimSpace(choice.Message.Content); text != "" {
			return text, nil
		}
	}
	return "", apperr.Wrap(apperr.ErrRemoteService, op, "empty response", nil)
}

// remoteError tags transport failures, leaving context cancellation untouched
// so callers can tell it apart.
func remoteError(op string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	return apperr.Wrap(apperr.ErrRemoteService, op, "", err)
}
