package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mikey/llm-mail-search/internal/config"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, content string, status int) (*httptest.Server, *openai.ChatCompletionRequest) {
	var received openai.ChatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID:    "chatcmpl-1",
			Model: received.Model,
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
			},
		})
	}))
	t.Cleanup(server.Close)
	return server, &received
}

func newTestTranslator(url string) *Translator {
	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = url + "/v1"
	return NewTranslator(openai.NewClientWithConfig(cfg), "gpt-test", 500, 0.1, 0.9, zap.NewNop())
}

func TestTranslator_Translate(t *testing.T) {
	server, received := newTestServer(t, "  Witaj świecie\n", http.StatusOK)
	tr := newTestTranslator(server.URL)

	out, err := tr.Translate(context.Background(), "Hello world", "en", "pl")
	require.NoError(t, err)

	assert.Equal(t, "Witaj świecie", out)
	assert.Equal(t, "gpt-test", received.Model)
	require.Len(t, received.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, received.Messages[0].Role)
	assert.Contains(t, received.Messages[1].Content, "from English to Polish")
	assert.Contains(t, received.Messages[1].Content, "Hello world")
	assert.Equal(t, "openai", tr.Name())
}

func TestTranslator_APIError(t *testing.T) {
	server, _ := newTestServer(t, "", http.StatusTooManyRequests)
	tr := newTestTranslator(server.URL)

	_, err := tr.Translate(context.Background(), "Hello world", "en", "pl")
	assert.Error(t, err)
}

func TestTranslator_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-2","choices":[]}`))
	}))
	defer server.Close()

	_, err := newTestTranslator(server.URL).Translate(context.Background(), "Hello", "en", "pl")
	assert.Error(t, err)
}

func TestFactory_RequiresKeyOrBaseURL(t *testing.T) {
	v := config.NewEmptyViper()
	_, err := NewFactory(config.NewFromViper(v), zap.NewNop()).CreateTranslator()
	assert.Error(t, err)

	v.Set("openai.base_url", "http://localhost:8080/v1")
	tr, err := NewFactory(config.NewFromViper(v), zap.NewNop()).CreateTranslator()
	require.NoError(t, err)
	assert.Equal(t, "openai", tr.Name())
}
