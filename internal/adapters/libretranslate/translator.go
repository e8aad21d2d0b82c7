package libretranslate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Translator is an implementation of the core.Translator interface using a LibreTranslate server
type Translator struct {
	baseURL string
	apiKey  string
	http    *resty.Client
	logger  *zap.Logger
}

// NewTranslator creates a new LibreTranslate translator
func NewTranslator(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Translator {
	return &Translator{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    resty.New().SetTimeout(timeout),
		logger:  logger,
	}
}

// Name identifies the backend
func (t *Translator) Name() string {
	return "libretranslate"
}

// Translate translates text from sourceLang to targetLang
func (t *Translator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	var result translateResponse
	var apiErr errorResponse

	resp, err := t.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(translateRequest{
			Q:      text,
			Source: sourceLang,
			Target: targetLang,
			Format: "text",
			APIKey: t.apiKey,
		}).
		SetResult(&result).
		SetError(&apiErr).
		Post(t.baseURL + "/translate")
	if err != nil {
		return "", fmt.Errorf("libretranslate request failed: %w", err)
	}
	if resp.IsError() {
		if apiErr.Error != "" {
			return "", fmt.Errorf("libretranslate translate: %s: %s", resp.Status(), apiErr.Error)
		}
		return "", fmt.Errorf("libretranslate translate: %s", resp.Status())
	}
	if result.TranslatedText == "" {
		return "", errors.New("empty response from libretranslate")
	}

	t.logger.Debug("LibreTranslate translation received",
		zap.String("source", sourceLang),
		zap.String("target", targetLang),
		zap.Duration("elapsed", resp.Time()))

	return result.TranslatedText, nil
}
