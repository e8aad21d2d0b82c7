package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/mikey/llm-mail-search/internal/adapters/prompt"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Translator is an implementation of the core.Translator interface using OpenAI chat completions
type Translator struct {
	client      *openai.Client
	modelName   string
	maxTokens   int
	temperature float32
	topP        float32
	logger      *zap.Logger
}

// NewTranslator creates a new OpenAI translator
func NewTranslator(
	client *openai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) *Translator {
	return &Translator{
		client:      client,
		modelName:   modelName,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		logger:      logger,
	}
}

// Name identifies the backend
func (t *Translator) Name() string {
	return "openai"
}

// Translate translates text from sourceLang to targetLang
func (t *Translator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: t.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: prompt.SystemMessage,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt.Translation(text, sourceLang, targetLang),
			},
		},
		MaxTokens:   t.maxTokens,
		Temperature: t.temperature,
		TopP:        t.topP,
	}

	resp, err := t.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("empty response from OpenAI")
	}

	t.logger.Debug("OpenAI translation received",
		zap.String("model", t.modelName),
		zap.String("id", resp.ID),
		zap.Int("total_tokens", resp.Usage.TotalTokens))

	return prompt.CleanResponse(resp.Choices[0].Message.Content), nil
}
