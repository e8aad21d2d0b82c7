package core

import (
	"context"
	"errors"
	"sync"

	"github.com/stretchr/testify/mock"
)

// MockTranslator is a mock implementation of Translator
type MockTranslator struct {
	mock.Mock
	name string
}

func (m *MockTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	args := m.Called(ctx, text, sourceLang, targetLang)
	return args.String(0), args.Error(1)
}

func (m *MockTranslator) Name() string {
	return m.name
}

// funcTranslator computes its output from the input and counts calls
type funcTranslator struct {
	name  string
	calls int
	fn    func(text string) (string, error)
}

func (f *funcTranslator) Translate(_ context.Context, text, _, _ string) (string, error) {
	f.calls++
	return f.fn(text)
}

func (f *funcTranslator) Name() string {
	return f.name
}

func fixed(translations map[string]string) func(string) (string, error) {
	return func(text string) (string, error) {
		if out, ok := translations[text]; ok {
			return out, nil
		}
		return "", errors.New("no translation")
	}
}

// mapCache is an in-memory CacheRepository for tests
type mapCache struct {
	mu       sync.Mutex
	entries  map[string]*CacheEntry
	purgeErr error
	stopErr  error
	purged   bool
	stopped  bool
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]*CacheEntry)}
}

func (c *mapCache) Get(_ context.Context, key string) (*CacheEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	return entry, nil
}

func (c *mapCache) Set(_ context.Context, entry *CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[entry.Key] = entry
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *mapCache) Purge(_ context.Context) error {
	if c.purgeErr != nil {
		return c.purgeErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*CacheEntry)
	c.purged = true
	return nil
}

func (c *mapCache) Stop() error {
	c.stopped = true
	return c.stopErr
}

// staticCorpus serves a fixed slice of documents
type staticCorpus struct {
	docs []Document
	err  error
}

func (c *staticCorpus) Documents(_ context.Context) ([]Document, error) {
	return c.docs, c.err
}
