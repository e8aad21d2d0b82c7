package gemini

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/llm-mail-search/internal/adapters/prompt"
	"github.com/mikey/llm-mail-search/internal/config"
	"github.com/mikey/llm-mail-search/internal/core"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Factory creates new instances of Translator
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFactory creates a new factory for Gemini translators
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateTranslator creates a new Gemini translator
func (f *Factory) CreateTranslator(ctx context.Context) (core.Translator, error) {
	geminiCfg := f.cfg.GetGemini()
	if geminiCfg.APIKey == "" {
		return nil, errors.New("gemini.api_key is not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(geminiCfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(geminiCfg.ModelName)
	model.SetTemperature(geminiCfg.Temperature)
	model.SetTopP(geminiCfg.TopP)
	model.SetMaxOutputTokens(int32(geminiCfg.MaxTokens))
	model.SystemInstruction = genai.NewUserContent(genai.Text(prompt.SystemMessage))

	return NewTranslator(client, model, geminiCfg.ModelName, f.logger), nil
}
