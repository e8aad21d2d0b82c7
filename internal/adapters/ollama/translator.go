package ollama

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mikey/llm-mail-search/internal/adapters/prompt"
	"go.uber.org/zap"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string                 `json:"model"`
	Messages []chatMessage          `json:"messages"`
	Stream   bool                   `json:"stream"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

// Translator is an implementation of the core.Translator interface using a local Ollama model
type Translator struct {
	baseURL     string
	modelName   string
	temperature float32
	http        *resty.Client
	logger      *zap.Logger
}

// NewTranslator creates a new Ollama translator
func NewTranslator(baseURL, modelName string, temperature float32, timeout time.Duration, logger *zap.Logger) *Translator {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &Translator{
		baseURL:     strings.TrimRight(baseURL, "/"),
		modelName:   modelName,
		temperature: temperature,
		http:        resty.New().SetTimeout(timeout),
		logger:      logger,
	}
}

// Name identifies the backend
func (t *Translator) Name() string {
	return "ollama"
}

// Translate translates text from sourceLang to targetLang
func (t *Translator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	var result chatResponse

	resp, err := t.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(chatRequest{
			Model: t.modelName,
			Messages: []chatMessage{
				{Role: "system", Content: prompt.SystemMessage},
				{Role: "user", Content: prompt.Translation(text, sourceLang, targetLang)},
			},
			Options: map[string]interface{}{"temperature": t.temperature},
		}).
		SetResult(&result).
		Post(t.baseURL + "/api/chat")
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("ollama translate: %s; body: %s", resp.Status(), resp.String())
	}

	out := prompt.CleanResponse(result.Message.Content)
	if out == "" {
		return "", errors.New("empty response from ollama")
	}

	t.logger.Debug("Ollama translation received",
		zap.String("model", t.modelName),
		zap.Duration("elapsed", resp.Time()))

	return out, nil
}
