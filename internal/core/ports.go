package core

import (
	"context"
)

// Translator is a machine translation backend
type Translator interface {
	// Translate translates text from sourceLang to targetLang (ISO 639-1 codes)
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)

	// Name identifies the backend in logs and outcomes
	Name() string
}

// CacheRepository stores accepted translations for the lifetime of one session
type CacheRepository interface {
	// Get retrieves a cached translation by key, or ErrNotFound
	Get(ctx context.Context, key string) (*CacheEntry, error)

	// Set stores a cache entry
	Set(ctx context.Context, entry *CacheEntry) error

	// Delete removes a cache entry
	Delete(ctx context.Context, key string) error

	// Purge removes every entry written by the session
	Purge(ctx context.Context) error
}

// Corpus is the read-only document collection being searched
type Corpus interface {
	Documents(ctx context.Context) ([]Document, error)
}
