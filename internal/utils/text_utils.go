package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
)

// TextProcessor provides utilities for processing text
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	return &TextProcessor{
		logger: logger,
	}
}

// TruncateText returns at most maxChars leading characters of text.
// A non-positive limit disables truncation.
func (tp *TextProcessor) TruncateText(text string, maxChars int) string {
	if maxChars <= 0 || utf8.RuneCountInString(text) <= maxChars {
		return text
	}

	count := 0
	truncated := text
	for i := range text {
		if count == maxChars {
			truncated = text[:i]
			break
		}
		count++
	}

	tp.logger.Debug("Text truncated",
		zap.Int("original_chars", utf8.RuneCountInString(text)),
		zap.Int("max_chars", maxChars))

	return truncated
}

// SanitizeUTF8 ensures the string contains only valid UTF-8 characters
func (tp *TextProcessor) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	// Drop invalid bytes, keep everything else
	result := make([]rune, 0, len(text))
	for i, r := range text {
		if r == utf8.RuneError {
			_, size := utf8.DecodeRuneInString(text[i:])
			if size == 1 {
				continue
			}
		}
		result = append(result, r)
	}

	tp.logger.Debug("Text sanitized",
		zap.Int("original_size", len(text)),
		zap.Int("sanitized_size", len(string(result))))

	return string(result)
}

// SplitSentences splits text after '.', '!' or '?' when followed by whitespace.
// The whitespace between sentences is dropped.
func (tp *TextProcessor) SplitSentences(text string) []string {
	var sentences []string
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if !isSentenceEnd(runes[i]) || i+1 >= len(runes) || !unicode.IsSpace(runes[i+1]) {
			continue
		}
		sentences = append(sentences, string(runes[start:i+1]))
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		start = j
		i = j - 1
	}
	if start < len(runes) {
		sentences = append(sentences, string(runes[start:]))
	}
	return sentences
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// ChunkText groups sentences into chunks of at most maxChars characters. A
// chunk takes sentences until the next one would overflow it; a single
// sentence longer than the limit becomes a chunk of its own.
func (tp *TextProcessor) ChunkText(text string, maxChars int) []string {
	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen > 0 {
			chunks = append(chunks, current.String())
		}
		current.Reset()
		currentLen = 0
	}

	for _, sentence := range tp.SplitSentences(text) {
		sentenceLen := utf8.RuneCountInString(sentence)
		if currentLen > 0 && currentLen+1+sentenceLen > maxChars {
			flush()
		}
		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(sentence)
		currentLen += sentenceLen
	}
	flush()

	if len(chunks) == 0 {
		return []string{text}
	}

	tp.logger.Debug("Text chunked",
		zap.Int("chunks", len(chunks)),
		zap.Int("max_chars", maxChars))

	return chunks
}
