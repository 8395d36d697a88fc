package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/procurement-backend/pkg/config"
)

func TestHasUsableKey(t *testing.T) {
	assert.False(t, HasUsableKey(""))
	assert.False(t, HasUsableKey("   "))
	assert.False(t, HasUsableKey("sk-YOUR-API-KEY-here"))
	assert.False(t, HasUsableKey("your-api-key"))
	assert.True(t, HasUsableKey("sk-live-123"))
}

func TestStripCodeFences(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}\n```":     `{"a":1}`,
		"  {\"a\":1}  ":           `{"a":1}`,
		"{\"a\":1}\n```":          `{"a":1}`,
	}
	for in, want := range cases {
		assert.Equal(t, want, StripCodeFences(in), "input %q", in)
	}
}

func TestCompleteSendsChatRequest(t *testing.T) {
	var got struct {
		Model       string              `json:"model"`
		Temperature float64             `json:"temperature"`
		Messages    []map[string]string `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  {\"ok\":true}  "}}]}`))
	}))
	defer srv.Close()

	client := NewClient(config.OpenAIConfig{
		APIKey:      "sk-test",
		BaseURL:     srv.URL + "/v1/",
		Model:       "gpt-4",
		Temperature: 0.1,
		Timeout:     5 * time.Second,
	}, srv.Client(), nil)

	out, err := client.Complete(context.Background(), "system text", "user text")
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, out)
	assert.Equal(t, "gpt-4", got.Model)
	assert.InDelta(t, 0.1, got.Temperature, 1e-9)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0]["role"])
	assert.Equal(t, "system text", got.Messages[0]["content"])
	assert.Equal(t, "user", got.Messages[1]["role"])
	assert.Equal(t, "user text", got.Messages[1]["content"])
}

func TestCompleteNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(config.OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL}, srv.Client(), nil)
	_, err := client.Complete(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestCompleteNoChoicesIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := NewClient(config.OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL}, srv.Client(), nil)
	_, err := client.Complete(context.Background(), "s", "u")
	require.Error(t, err)
}

func TestCompleteWithoutKeySkipsNetwork(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := NewClient(config.OpenAIConfig{APIKey: "your-api-key", BaseURL: srv.URL}, srv.Client(), nil)
	_, err := client.Complete(context.Background(), "s", "u")
	require.ErrorIs(t, err, ErrNoCredential)
	assert.False(t, called)
	assert.False(t, client.Usable())
}
