package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nguyentantai21042004/scribeflow/internal/config"
	"github.com/nguyentantai21042004/scribeflow/internal/logger"
)

const (
	defaultHTTPTimeout    = 120 * time.Second
	defaultRetryBaseDelay = 1 * time.Second
	defaultRetryMaxDelay  = 10 * time.Second
	maxErrorBody          = 512
)

// transport posts JSON requests and retries transient failures.
type transport struct {
	httpClient *http.Client
	attempts   int
	baseDelay  time.Duration
	maxDelay   time.Duration
	sleeper    func(time.Duration)
	logger     logger.Logger
}

type httpStatusError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *httpStatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody] + "..."
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, body)
}

func newTransport(cfg config.LLMConfig, o options, log logger.Logger) *transport {
	client := o.httpClient
	if client == nil {
		timeout := defaultHTTPTimeout
		if cfg.TimeoutSeconds > 0 {
			timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	attempts := cfg.MaxRetries + 1
	if attempts < 1 {
		attempts = 1
	}
	return &transport{
		httpClient: client,
		attempts:   attempts,
		baseDelay:  o.baseDelay,
		maxDelay:   o.maxDelay,
		sleeper:    o.sleeper,
		logger:     log,
	}
}

// postJSON sends payload to endpoint and decodes a successful response into out.
func (t *transport) postJSON(ctx context.Context, endpoint string, headers map[string]string, payload, out any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode body: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= t.attempts; attempt++ {
		body, err := t.sendOnce(ctx, endpoint, headers, encoded)
		if err == nil {
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
			return nil
		}
		lastErr = err

		delay, retry := t.retryDelay(ctx, err, attempt)
		if !retry {
			return err
		}
		t.logger.Warn(ctx, "Completion request failed (attempt %d/%d), retrying in %s: %v", attempt, t.attempts, delay, err)
		if err := t.sleep(ctx, delay); err != nil {
			return err
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", t.attempts, lastErr)
}

func (t *transport) sendOnce(ctx context.Context, endpoint string, headers map[string]string, encoded []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return body, &httpStatusError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}
	return body, nil
}

func (t *transport) retryDelay(ctx context.Context, err error, attempt int) (time.Duration, bool) {
	if attempt >= t.attempts || ctx.Err() != nil {
		return 0, false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return 0, false
	}

	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusRequestTimeout,
			statusErr.StatusCode == http.StatusTooManyRequests,
			statusErr.StatusCode >= http.StatusInternalServerError:
			if statusErr.RetryAfter > 0 {
				return min(statusErr.RetryAfter, t.maxDelay), true
			}
			return t.backoff(attempt), true
		default:
			return 0, false
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return t.backoff(attempt), true
	}
	return 0, false
}

func (t *transport) backoff(attempt int) time.Duration {
	delay := t.baseDelay
	for i := 1; i < attempt && delay < t.maxDelay; i++ {
		delay *= 2
	}
	if t.maxDelay > 0 && delay > t.maxDelay {
		delay = t.maxDelay
	}
	return delay
}

func (t *transport) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	if t.sleeper != nil {
		t.sleeper(d)
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func parseRetryAfter(value string) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
