package corpus

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mikey/llm-mail-search/internal/core"
	"github.com/mikey/llm-mail-search/internal/utils"
	"go.uber.org/zap"
)

// DirectoryCorpus reads every regular file under a root directory. Files
// ending in .eml are parsed as messages; everything else is read as text.
type DirectoryCorpus struct {
	root          string
	textProcessor *utils.TextProcessor
	logger        *zap.Logger

	mu   sync.Mutex
	docs []core.Document
}

// NewDirectoryCorpus creates a new directory corpus
func NewDirectoryCorpus(root string, textProcessor *utils.TextProcessor, logger *zap.Logger) *DirectoryCorpus {
	return &DirectoryCorpus{
		root:          root,
		textProcessor: textProcessor,
		logger:        logger,
	}
}

// Documents loads the corpus on first use and returns it in path order
func (c *DirectoryCorpus) Documents(ctx context.Context) ([]core.Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.docs != nil {
		return c.docs, nil
	}

	docs := []core.Document{}
	err := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != c.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		text, err := c.readFile(path)
		if err != nil {
			c.logger.Warn("Skipping unreadable document", zap.String("path", path), zap.Error(err))
			return nil
		}

		rel, err := filepath.Rel(c.root, path)
		if err != nil {
			rel = path
		}
		docs = append(docs, core.Document{
			Filename: filepath.ToSlash(rel),
			Text:     text,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus directory %s: %w", c.root, err)
	}

	c.logger.Info("Loaded corpus", zap.String("root", c.root), zap.Int("documents", len(docs)))
	c.docs = docs
	return docs, nil
}

func (c *DirectoryCorpus) readFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".eml") {
		text, err := messageText(f)
		if err != nil {
			return "", err
		}
		return c.textProcessor.SanitizeUTF8(text), nil
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	return c.textProcessor.SanitizeUTF8(string(data)), nil
}
