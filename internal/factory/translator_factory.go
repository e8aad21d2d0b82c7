package factory

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/mikey/llm-mail-search/internal/adapters/bedrock"
	"github.com/mikey/llm-mail-search/internal/adapters/gemini"
	"github.com/mikey/llm-mail-search/internal/adapters/libretranslate"
	"github.com/mikey/llm-mail-search/internal/adapters/ollama"
	"github.com/mikey/llm-mail-search/internal/adapters/openai"
	"github.com/mikey/llm-mail-search/internal/config"
	"github.com/mikey/llm-mail-search/internal/core"
	"go.uber.org/zap"
)

// Provider names accepted in translation.*_provider
const (
	ProviderOpenAI         = "openai"
	ProviderGemini         = "gemini"
	ProviderBedrock        = "bedrock"
	ProviderLibreTranslate = "libretranslate"
	ProviderOllama         = "ollama"
	ProviderNone           = "none"
)

// TranslatorFactory creates translation backends
type TranslatorFactory struct {
	cfg     *config.Config
	logger  *zap.Logger
	created map[string]core.Translator
}

// NewTranslatorFactory creates a new translator factory
func NewTranslatorFactory(cfg *config.Config, logger *zap.Logger) *TranslatorFactory {
	return &TranslatorFactory{
		cfg:     cfg,
		logger:  logger,
		created: make(map[string]core.Translator),
	}
}

// CreateTranslator creates a translator for a provider name. "none" and the
// empty name yield a nil translator.
func (f *TranslatorFactory) CreateTranslator(ctx context.Context, provider string) (core.Translator, error) {
	switch provider {
	case "", ProviderNone:
		return nil, nil
	case ProviderOpenAI:
		return openai.NewFactory(f.cfg, f.logger).CreateTranslator()
	case ProviderGemini:
		return gemini.NewFactory(f.cfg, f.logger).CreateTranslator(ctx)
	case ProviderBedrock:
		return bedrock.NewFactory(f.cfg, f.logger).CreateTranslator(ctx)
	case ProviderLibreTranslate:
		ltCfg, err := f.cfg.GetLibreTranslate()
		if err != nil {
			return nil, err
		}
		return libretranslate.NewTranslator(ltCfg.URL, ltCfg.APIKey, ltCfg.Timeout, f.logger), nil
	case ProviderOllama:
		ollamaCfg, err := f.cfg.GetOllama()
		if err != nil {
			return nil, err
		}
		return ollama.NewTranslator(ollamaCfg.URL, ollamaCfg.ModelName, ollamaCfg.Temperature, ollamaCfg.Timeout, f.logger), nil
	default:
		return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedProvider, provider)
	}
}

// CreateBackends creates the primary, fallback and query backends. A
// backend that cannot be created is left unset so the viewer keeps working
// with untranslated text. Roles naming the same provider share one instance.
func (f *TranslatorFactory) CreateBackends(ctx context.Context) (core.Backends, error) {
	trCfg, err := f.cfg.GetTranslation()
	if err != nil {
		return core.Backends{}, err
	}

	primary, err := f.Backend(ctx, "primary", trCfg.PrimaryProvider)
	if err != nil {
		return core.Backends{}, err
	}
	fallback, err := f.Backend(ctx, "fallback", trCfg.FallbackProvider)
	if err != nil {
		return core.Backends{}, err
	}
	query, err := f.Backend(ctx, "query", trCfg.QueryProvider)
	if err != nil {
		return core.Backends{}, err
	}

	return core.Backends{
		Primary:  primary,
		Fallback: fallback,
		Query:    query,
	}, nil
}

// Backend returns the translator for provider, creating it on first use.
// Every translator it returns is released by Close. A provider that cannot
// be built is logged and yields nil.
func (f *TranslatorFactory) Backend(ctx context.Context, role, provider string) (core.Translator, error) {
	if t, ok := f.created[provider]; ok {
		return t, nil
	}

	t, err := f.CreateTranslator(ctx, provider)
	if errors.Is(err, core.ErrUnsupportedProvider) {
		return nil, err
	}
	if err != nil {
		f.logger.Warn("Translation backend unavailable",
			zap.String("role", role),
			zap.String("provider", provider),
			zap.Error(err))
		return nil, nil
	}
	if t == nil {
		return nil, nil
	}

	f.logger.Info("Translation backend ready",
		zap.String("role", role),
		zap.String("provider", provider))
	f.created[provider] = t
	return t, nil
}

// Close releases backends holding client connections
func (f *TranslatorFactory) Close() error {
	var errs []error
	for provider, t := range f.created {
		closer, ok := t.(io.Closer)
		if !ok {
			continue
		}
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close %s backend: %w", provider, err))
		}
	}
	f.created = make(map[string]core.Translator)
	return errors.Join(errs...)
}
