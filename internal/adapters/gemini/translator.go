package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/llm-mail-search/internal/adapters/prompt"
	"go.uber.org/zap"
)

// ContentGenerator is the subset of genai.GenerativeModel used by Translator
type ContentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Translator is an implementation of the core.Translator interface using Google Gemini
type Translator struct {
	client    *genai.Client
	model     ContentGenerator
	modelName string
	logger    *zap.Logger
}

// NewTranslator creates a new Gemini translator around a configured model.
// client may be nil when the model is not backed by a real connection.
func NewTranslator(client *genai.Client, model ContentGenerator, modelName string, logger *zap.Logger) *Translator {
	return &Translator{
		client:    client,
		model:     model,
		modelName: modelName,
		logger:    logger,
	}
}

// Name identifies the backend
func (t *Translator) Name() string {
	return "gemini"
}

// Close closes the Gemini client
func (t *Translator) Close() error {
	if t.client != nil {
		return t.client.Close()
	}
	return nil
}

// Translate translates text from sourceLang to targetLang
func (t *Translator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	resp, err := t.model.GenerateContent(ctx, genai.Text(prompt.Translation(text, sourceLang, targetLang)))
	if err != nil {
		return "", fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty response from Gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	t.logger.Debug("Gemini translation received", zap.String("model", t.modelName))

	return prompt.CleanResponse(sb.String()), nil
}
