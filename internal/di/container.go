package di

import (
	"context"
	"io"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/llm-mail-search/internal/charset"
	"github.com/mikey/llm-mail-search/internal/config"
	"github.com/mikey/llm-mail-search/internal/core"
	"github.com/mikey/llm-mail-search/internal/factory"
	"github.com/mikey/llm-mail-search/internal/logging"
	"github.com/mikey/llm-mail-search/internal/ports"
	"github.com/mikey/llm-mail-search/internal/utils"
)

// BuildContainer creates and configures a dependency injection container.
// Components are built lazily, so a command only opens the session cache
// and translation backends it actually uses. ctx bounds backend and cache
// setup; rendered output goes to out.
func BuildContainer(ctx context.Context, flags *CLIFlags, out io.Writer) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(loadConfig); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewTranslatorFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCorpusFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewViewerFactory); err != nil {
		return nil, err
	}

	// Register translation settings
	if err := container.Provide(func(cfg *config.Config) (config.TranslationConfig, error) {
		return cfg.GetTranslation()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(tc config.TranslationConfig) core.TranslationSettings {
		return core.TranslationSettings{
			SourceLang:    tc.SourceLang,
			TargetLang:    tc.TargetLang,
			ChunkSize:     tc.ChunkSize,
			MaxInputChars: tc.MaxInputChars,
		}
	}); err != nil {
		return nil, err
	}

	// Register translation backends
	if err := container.Provide(func(f *factory.TranslatorFactory) (core.Backends, error) {
		return f.CreateBackends(ctx)
	}); err != nil {
		return nil, err
	}

	// Register session and its cache
	if err := container.Provide(func(f *factory.CacheFactory) (*core.Session, error) {
		return f.CreateSession(ctx)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(s *core.Session) core.CacheRepository {
		return s.Cache
	}); err != nil {
		return nil, err
	}

	// Register target language letters
	if err := container.Provide(func(tc config.TranslationConfig, logger *zap.Logger) *charset.Checker {
		return charset.ForLanguage(tc.TargetLang, logger)
	}); err != nil {
		return nil, err
	}

	// Register validator
	if err := container.Provide(func(cfg *config.Config, letters *charset.Checker) (*core.Validator, error) {
		mode, err := core.ParseValidationMode(cfg.GetValidation().Mode)
		if err != nil {
			return nil, err
		}
		return core.NewValidator(mode, letters), nil
	}); err != nil {
		return nil, err
	}

	// Register translation service and query normalizer
	if err := container.Provide(core.NewTranslationService); err != nil {
		return nil, err
	}
	if err := container.Provide(core.NewQueryNormalizer); err != nil {
		return nil, err
	}

	// Register corpus
	if err := container.Provide(func(f *factory.CorpusFactory) (core.Corpus, error) {
		return f.CreateCorpus()
	}); err != nil {
		return nil, err
	}

	// Register search service
	if err := container.Provide(func(cfg *config.Config) core.SearchSettings {
		sc := cfg.GetSearch()
		return core.SearchSettings{
			MaxResults:     sc.MaxResults,
			ResultsPerPage: sc.ResultsPerPage,
		}
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(core.NewSearchService); err != nil {
		return nil, err
	}

	// Register viewer
	if err := container.Provide(func(f *factory.ViewerFactory) (ports.Viewer, error) {
		return f.CreateViewer(out)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
