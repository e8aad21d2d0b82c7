package core

import (
	"context"
	"strings"

	"github.com/mikey/llm-mail-search/internal/charset"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// QueryNormalizer rewrites queries typed in the target language back into
// the corpus language before matching
type QueryNormalizer struct {
	backend    Translator
	letters    *charset.Checker
	sourceLang string
	targetLang string
	logger     *zap.Logger
}

// NewQueryNormalizer creates a new query normalizer using the query backend
func NewQueryNormalizer(backends Backends, settings TranslationSettings, letters *charset.Checker, logger *zap.Logger) *QueryNormalizer {
	return &QueryNormalizer{
		backend:    backends.Query,
		letters:    letters,
		sourceLang: settings.SourceLang,
		targetLang: settings.TargetLang,
		logger:     logger,
	}
}

// Normalize returns the corpus-language form of query. Queries without any
// target-language accented letter are returned unchanged. Backend failures
// fall back to the query as typed.
func (n *QueryNormalizer) Normalize(ctx context.Context, query string) string {
	if strings.TrimSpace(query) == "" {
		return query
	}

	normalized := norm.NFC.String(query)
	if !n.letters.ContainsAny(normalized) {
		return query
	}

	if n.backend == nil {
		n.logger.Debug("No query backend configured, searching as typed")
		return query
	}

	translated, err := n.backend.Translate(ctx, normalized, n.targetLang, n.sourceLang)
	if err != nil {
		n.logger.Warn("Query translation failed, searching as typed",
			zap.String("backend", n.backend.Name()),
			zap.Error(err))
		return query
	}

	translated = strings.TrimSpace(translated)
	if translated == "" || translated == strings.TrimSpace(normalized) {
		return query
	}

	n.logger.Info("Query translated",
		zap.String("query", query),
		zap.String("translated", translated))

	return translated
}
