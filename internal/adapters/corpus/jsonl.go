package corpus

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/mikey/llm-mail-search/internal/core"
	"go.uber.org/zap"
)

const maxLineSize = 16 * 1024 * 1024

type jsonlRecord struct {
	Filename string  `json:"filename"`
	Text     *string `json:"text"`
}

// JSONLCorpus reads documents from a file holding one JSON object per line
// with "text" and "filename" fields. Records without text are skipped.
type JSONLCorpus struct {
	path   string
	logger *zap.Logger

	mu   sync.Mutex
	docs []core.Document
}

// NewJSONLCorpus creates a new JSON lines corpus
func NewJSONLCorpus(path string, logger *zap.Logger) *JSONLCorpus {
	return &JSONLCorpus{
		path:   path,
		logger: logger,
	}
}

// Documents loads the corpus on first use and returns it in file order
func (c *JSONLCorpus) Documents(ctx context.Context) ([]core.Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.docs != nil {
		return c.docs, nil
	}

	f, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	docs := []core.Document{}
	skipped := 0
	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}

		var rec jsonlRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("invalid record on line %d of %s: %w", line, c.path, err)
		}
		if rec.Text == nil {
			skipped++
			continue
		}
		if rec.Filename == "" {
			rec.Filename = fmt.Sprintf("record-%d", line)
		}

		docs = append(docs, core.Document{Filename: rec.Filename, Text: *rec.Text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read corpus file: %w", err)
	}

	c.logger.Info("Loaded corpus",
		zap.String("path", c.path),
		zap.Int("documents", len(docs)),
		zap.Int("skipped", skipped))

	c.docs = docs
	return docs, nil
}
