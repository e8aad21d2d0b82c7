package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mikey/llm-mail-search/internal/utils"
	"go.uber.org/zap"
)

const fallbackKeyPrefix = "fallback_"

// Backends is the set of translation backends used during a session.
// Fallback and Query may be nil.
type Backends struct {
	Primary  Translator
	Fallback Translator
	Query    Translator
}

// TranslationSettings holds the engine's language pair and size limits
type TranslationSettings struct {
	SourceLang    string
	TargetLang    string
	ChunkSize     int
	MaxInputChars int
}

// TranslationService translates document bodies with chunking, a session
// cache and a validated primary/fallback chain. It never returns an error:
// every failure degrades to the untranslated input.
type TranslationService struct {
	backends      Backends
	cache         CacheRepository
	validator     *Validator
	textProcessor *utils.TextProcessor
	settings      TranslationSettings
	logger        *zap.Logger
}

// NewTranslationService creates a new translation service bound to a session cache
func NewTranslationService(
	backends Backends,
	cache CacheRepository,
	validator *Validator,
	textProcessor *utils.TextProcessor,
	settings TranslationSettings,
	logger *zap.Logger,
) *TranslationService {
	return &TranslationService{
		backends:      backends,
		cache:         cache,
		validator:     validator,
		textProcessor: textProcessor,
		settings:      settings,
		logger:        logger,
	}
}

// TranslateText translates text with the primary backend
func (s *TranslationService) TranslateText(ctx context.Context, text string) string {
	return s.translate(ctx, s.backends.Primary, "", text)
}

// TranslateWithBackend translates text with an explicit backend; nil selects the primary
func (s *TranslationService) TranslateWithBackend(ctx context.Context, backend Translator, text string) string {
	if backend == nil {
		return s.TranslateText(ctx, text)
	}
	return s.translate(ctx, backend, backend.Name()+"_", text)
}

// TranslateWithFallback translates text with the fallback backend
func (s *TranslationService) TranslateWithFallback(ctx context.Context, text string) string {
	return s.translate(ctx, s.backends.Fallback, fallbackKeyPrefix, text)
}

// Translate runs the full chain on a document body: primary attempt and
// validation, then fallback attempt and validation. When both are rejected
// the outcome carries the original text and the reason.
func (s *TranslationService) Translate(ctx context.Context, text string) *TranslationOutcome {
	input := s.textProcessor.TruncateText(text, s.settings.MaxInputChars)
	outcome := &TranslationOutcome{
		Original: input,
		Text:     input,
	}

	primary := s.TranslateText(ctx, input)
	ok, err := s.validator.Validate(input, primary)
	if !ok && s.backends.Primary == nil {
		err = ErrBackendUnavailable
	}
	if ok {
		outcome.Text = primary
		outcome.Translated = true
		outcome.Backend = backendName(s.backends.Primary)
		return outcome
	}

	s.logger.Info("Primary translation rejected",
		zap.String("backend", backendName(s.backends.Primary)),
		zap.Error(err))

	if s.backends.Fallback == nil {
		outcome.Reason = err.Error()
		return outcome
	}

	fallback := s.TranslateWithFallback(ctx, input)
	ok, err = s.validator.Validate(input, fallback)
	if ok {
		outcome.Text = fallback
		outcome.Translated = true
		outcome.Backend = backendName(s.backends.Fallback)
		return outcome
	}

	s.logger.Info("Fallback translation rejected",
		zap.String("backend", backendName(s.backends.Fallback)),
		zap.Error(err))

	outcome.Reason = err.Error()
	return outcome
}

func (s *TranslationService) translate(ctx context.Context, backend Translator, keyPrefix, text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	if backend == nil {
		s.logger.Debug("No translation backend configured, returning original")
		return text
	}

	key := keyPrefix + CacheKey(text)
	if s.cache != nil {
		entry, err := s.cache.Get(ctx, key)
		if err == nil {
			s.logger.Debug("Cache hit for translation", zap.String("key", key))
			return entry.Translation
		}
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("Failed to read translation cache", zap.Error(err))
		}
	}

	var translated string
	if utf8.RuneCountInString(text) > s.settings.ChunkSize {
		out, ok := s.translateChunks(ctx, backend, text)
		if !ok {
			s.logger.Warn("No chunk translated, returning original", zap.String("backend", backend.Name()))
			return text
		}
		translated = out
	} else {
		out, err := s.call(ctx, backend, text)
		if err != nil {
			s.logger.Warn("Translation failed, returning original",
				zap.String("backend", backend.Name()),
				zap.Error(err))
			return text
		}
		translated = out
	}

	if strings.TrimSpace(translated) == "" || translated == text {
		s.logger.Debug("Translation rejected, returning original", zap.String("backend", backend.Name()))
		return text
	}

	if s.cache != nil {
		entry := &CacheEntry{
			Key:         key,
			Translation: translated,
			Backend:     backend.Name(),
			CreatedAt:   time.Now(),
		}
		if err := s.cache.Set(ctx, entry); err != nil {
			s.logger.Error("Failed to update cache", zap.Error(err))
		}
	}

	return translated
}

// translateChunks translates sentence-aligned chunks one by one. A chunk
// that fails or comes back unchanged is kept in the original. ok is false
// when no chunk was translated.
func (s *TranslationService) translateChunks(ctx context.Context, backend Translator, text string) (string, bool) {
	chunks := s.textProcessor.ChunkText(text, s.settings.ChunkSize)
	translated := make([]string, 0, len(chunks))
	accepted := 0

	for i, chunk := range chunks {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		out, err := s.call(ctx, backend, chunk)
		if err != nil {
			s.logger.Warn("Chunk translation failed, keeping original chunk",
				zap.String("backend", backend.Name()),
				zap.Int("chunk", i),
				zap.Error(err))
			translated = append(translated, chunk)
			continue
		}
		if strings.TrimSpace(out) == "" || out == chunk {
			translated = append(translated, chunk)
			continue
		}
		translated = append(translated, out)
		accepted++
	}

	return strings.Join(translated, " "), accepted > 0
}

// call invokes the backend; a panicking backend is reported as an error
func (s *TranslationService) call(ctx context.Context, backend Translator, text string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("backend %s panicked: %v", backend.Name(), r)
		}
	}()

	return backend.Translate(ctx, s.textProcessor.SanitizeUTF8(text), s.settings.SourceLang, s.settings.TargetLang)
}

func backendName(t Translator) string {
	if t == nil {
		return "none"
	}
	return t.Name()
}
