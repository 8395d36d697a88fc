package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/procurement-backend/pkg/config"
	"github.com/angelmondragon/procurement-backend/pkg/logger"
	"github.com/google/uuid"
)

const placeholderKey = "your-api-key"

// ErrNoCredential is returned when the client has no usable API key.
var ErrNoCredential = errors.New("llm credential not configured")

// Completer sends one system+user prompt pair and returns the raw assistant text.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Client talks to an OpenAI-compatible chat/completions endpoint.
type Client struct {
	cfg        config.OpenAIConfig
	httpClient *http.Client
	logg       *logger.Logger
}

// NewClient builds a client; httpClient may be nil.
func NewClient(cfg config.OpenAIConfig, httpClient *http.Client, logg *logger.Logger) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Client{cfg: cfg, httpClient: httpClient, logg: logg}
}

// HasUsableKey reports whether the key is set and is not the sample placeholder.
func HasUsableKey(apiKey string) bool {
	key := strings.TrimSpace(apiKey)
	if key == "" {
		return false
	}
	return !strings.Contains(strings.ToLower(key), placeholderKey)
}

// Usable reports whether calls will be attempted at all.
func (c *Client) Usable() bool {
	return c != nil && HasUsableKey(c.cfg.APIKey)
}

func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	if !c.Usable() {
		return "", ErrNoCredential
	}
	reqID := uuid.NewString()
	start := time.Now()
	ctx = c.logg.WithFields(ctx, map[string]any{
		"llm_req_id": reqID,
		"model":      c.cfg.Model,
	})
	c.logg.Debug(ctx, "llm.complete.start")

	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": c.cfg.Temperature,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
		c.logg.Warn(c.logg.WithFields(ctx, map[string]any{
			"error":      err.Error(),
			"elapsed_ms": time.Since(start).Milliseconds(),
		}), "llm.complete.http_error")
		return "", err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return "", errors.New("no choices in completion response")
	}

	c.logg.Debug(c.logg.WithField(ctx, "elapsed_ms", time.Since(start).Milliseconds()), "llm.complete.ok")
	return strings.TrimSpace(cc.Choices[0].Message.Content), nil
}

func (c *Client) post(ctx context.Context, url string, body any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("completion http error: %w", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.logg.Warn(ctx, "completion response body close error")
		}
	}(resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read completion response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("completion status %d: %s", resp.StatusCode, string(raw))
	}
	return raw, nil
}
