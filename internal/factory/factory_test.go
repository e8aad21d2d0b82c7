package factory

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/mikey/llm-mail-search/internal/adapters/cache"
	"github.com/mikey/llm-mail-search/internal/adapters/corpus"
	"github.com/mikey/llm-mail-search/internal/adapters/libretranslate"
	"github.com/mikey/llm-mail-search/internal/adapters/ollama"
	"github.com/mikey/llm-mail-search/internal/adapters/viewer"
	"github.com/mikey/llm-mail-search/internal/config"
	"github.com/mikey/llm-mail-search/internal/core"
	"github.com/mikey/llm-mail-search/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(settings map[string]interface{}) *config.Config {
	v := config.NewEmptyViper()
	for k, val := range settings {
		v.Set(k, val)
	}
	return config.NewFromViper(v)
}

func TestCreateTranslator_Providers(t *testing.T) {
	f := NewTranslatorFactory(testConfig(nil), zap.NewNop())
	ctx := context.Background()

	lt, err := f.CreateTranslator(ctx, ProviderLibreTranslate)
	require.NoError(t, err)
	assert.IsType(t, &libretranslate.Translator{}, lt)

	ol, err := f.CreateTranslator(ctx, ProviderOllama)
	require.NoError(t, err)
	assert.IsType(t, &ollama.Translator{}, ol)

	none, err := f.CreateTranslator(ctx, ProviderNone)
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = f.CreateTranslator(ctx, "babelfish")
	assert.ErrorIs(t, err, core.ErrUnsupportedProvider)
}

func TestCreateTranslator_MissingKeys(t *testing.T) {
	f := NewTranslatorFactory(testConfig(nil), zap.NewNop())

	_, err := f.CreateTranslator(context.Background(), ProviderOpenAI)
	assert.Error(t, err)

	_, err = f.CreateTranslator(context.Background(), ProviderGemini)
	assert.Error(t, err)
}

func TestCreateBackends_DegradesMissingBackend(t *testing.T) {
	cfg := testConfig(map[string]interface{}{
		"translation.primary_provider":  "openai",
		"translation.fallback_provider": "libretranslate",
		"translation.query_provider":    "libretranslate",
	})
	f := NewTranslatorFactory(cfg, zap.NewNop())

	backends, err := f.CreateBackends(context.Background())
	require.NoError(t, err)

	assert.Nil(t, backends.Primary)
	require.NotNil(t, backends.Fallback)
	assert.Same(t, backends.Fallback, backends.Query)
	assert.NoError(t, f.Close())
}

func TestCreateBackends_UnknownProvider(t *testing.T) {
	cfg := testConfig(map[string]interface{}{"translation.fallback_provider": "babelfish"})
	f := NewTranslatorFactory(cfg, zap.NewNop())

	_, err := f.CreateBackends(context.Background())
	assert.ErrorIs(t, err, core.ErrUnsupportedProvider)
}

// closingTranslator records whether it was released
type closingTranslator struct {
	closed bool
}

func (c *closingTranslator) Translate(_ context.Context, text, _, _ string) (string, error) {
	return text, nil
}

func (c *closingTranslator) Name() string {
	return "closing"
}

func (c *closingTranslator) Close() error {
	c.closed = true
	return nil
}

func TestBackend_TracksExplicitTranslators(t *testing.T) {
	f := NewTranslatorFactory(testConfig(nil), zap.NewNop())
	ctx := context.Background()

	first, err := f.Backend(ctx, "explicit", ProviderOllama)
	require.NoError(t, err)
	second, err := f.Backend(ctx, "explicit", ProviderOllama)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Contains(t, f.created, ProviderOllama)

	missing, err := f.Backend(ctx, "explicit", ProviderOpenAI)
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, f.Close())
	assert.Empty(t, f.created)
}

func TestClose_ReleasesClosableBackends(t *testing.T) {
	f := NewTranslatorFactory(testConfig(nil), zap.NewNop())
	closable := &closingTranslator{}
	f.created["closing"] = closable

	require.NoError(t, f.Close())
	assert.True(t, closable.closed)
}

func TestCreateSession_Memory(t *testing.T) {
	f := NewCacheFactory(testConfig(nil), zap.NewNop())

	first, err := f.CreateSession(context.Background())
	require.NoError(t, err)
	second, err := f.CreateSession(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.IsType(t, &cache.MemoryCache{}, first.Cache)
	assert.NoError(t, first.Close(context.Background()))
}

func TestCreateSession_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.db")
	f := NewCacheFactory(testConfig(map[string]interface{}{
		"cache.type":        "sqlite",
		"cache.sqlite_path": path,
	}), zap.NewNop())

	session, err := f.CreateSession(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &cache.SQLCache{}, session.Cache)
	assert.FileExists(t, path)
	assert.NoError(t, session.Close(context.Background()))
}

func TestCreateSession_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	f := NewCacheFactory(testConfig(map[string]interface{}{
		"cache.type":       "redis",
		"cache.redis_addr": mr.Addr(),
	}), zap.NewNop())

	session, err := f.CreateSession(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &cache.RedisCache{}, session.Cache)
	assert.NoError(t, session.Close(context.Background()))
}

func TestCreateSession_Unsupported(t *testing.T) {
	f := NewCacheFactory(testConfig(map[string]interface{}{"cache.type": "memcached"}), zap.NewNop())

	_, err := f.CreateSession(context.Background())
	assert.ErrorIs(t, err, core.ErrUnsupportedProvider)
}

func TestCreateCorpus(t *testing.T) {
	tp := utils.NewTextProcessor(zap.NewNop())

	c, err := NewCorpusFactory(testConfig(nil), tp, zap.NewNop()).CreateCorpus()
	require.NoError(t, err)
	assert.IsType(t, &corpus.DirectoryCorpus{}, c)

	c, err = NewCorpusFactory(testConfig(map[string]interface{}{"corpus.type": "JSONL"}), tp, zap.NewNop()).CreateCorpus()
	require.NoError(t, err)
	assert.IsType(t, &corpus.JSONLCorpus{}, c)

	_, err = NewCorpusFactory(testConfig(map[string]interface{}{"corpus.type": "s3"}), tp, zap.NewNop()).CreateCorpus()
	assert.ErrorIs(t, err, core.ErrUnsupportedProvider)
}

func TestCreateViewer(t *testing.T) {
	tp := utils.NewTextProcessor(zap.NewNop())
	var buf bytes.Buffer

	v, err := NewViewerFactory(testConfig(nil), tp, zap.NewNop()).CreateViewer(&buf)
	require.NoError(t, err)
	assert.IsType(t, &viewer.CLIViewer{}, v)

	v, err = NewViewerFactory(testConfig(map[string]interface{}{"viewer.format": "json"}), tp, zap.NewNop()).CreateViewer(&buf)
	require.NoError(t, err)
	assert.IsType(t, &viewer.JSONViewer{}, v)

	_, err = NewViewerFactory(testConfig(map[string]interface{}{"viewer.format": "html"}), tp, zap.NewNop()).CreateViewer(&buf)
	assert.ErrorIs(t, err, core.ErrUnsupportedProvider)
}

