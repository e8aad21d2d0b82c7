package factory

import (
	"fmt"

	"github.com/mikey/llm-mail-search/internal/adapters/corpus"
	"github.com/mikey/llm-mail-search/internal/config"
	"github.com/mikey/llm-mail-search/internal/core"
	"github.com/mikey/llm-mail-search/internal/utils"
	"go.uber.org/zap"
)

// CorpusFactory creates document sources based on configuration
type CorpusFactory struct {
	cfg           *config.Config
	textProcessor *utils.TextProcessor
	logger        *zap.Logger
}

// NewCorpusFactory creates a new corpus factory
func NewCorpusFactory(cfg *config.Config, textProcessor *utils.TextProcessor, logger *zap.Logger) *CorpusFactory {
	return &CorpusFactory{
		cfg:           cfg,
		textProcessor: textProcessor,
		logger:        logger,
	}
}

// CreateCorpus creates the corpus named by corpus.type
func (f *CorpusFactory) CreateCorpus() (core.Corpus, error) {
	corpusCfg := f.cfg.GetCorpus()

	switch corpusCfg.Type {
	case "directory":
		return corpus.NewDirectoryCorpus(corpusCfg.Path, f.textProcessor, f.logger), nil
	case "jsonl":
		return corpus.NewJSONLCorpus(corpusCfg.Path, f.logger), nil
	default:
		return nil, fmt.Errorf("%w: corpus type %s", core.ErrUnsupportedProvider, corpusCfg.Type)
	}
}
