package di

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mikey/llm-mail-search/internal/config"
	"github.com/mikey/llm-mail-search/internal/core"
	"github.com/mikey/llm-mail-search/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T) (configPath, corpusPath string) {
	t.Helper()
	dir := t.TempDir()

	corpusPath = filepath.Join(dir, "corpus.jsonl")
	corpus := `{"filename": "a.eml", "text": "From: anna@example.com\nSubject: Plan\n\nThe plan is ready."}
{"filename": "b.txt", "text": "nothing to see"}
`
	require.NoError(t, os.WriteFile(corpusPath, []byte(corpus), 0o600))

	configPath = filepath.Join(dir, "config.yaml")
	content := `
translation:
  primary_provider: none
  fallback_provider: none
  query_provider: none
cache:
  type: memory
corpus:
  type: jsonl
viewer:
  format: text
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))
	return configPath, corpusPath
}

func TestBuildContainer_Search(t *testing.T) {
	configPath, corpusPath := writeFixture(t)
	flags := &CLIFlags{ConfigFile: configPath, CorpusPath: corpusPath}
	var out bytes.Buffer

	container, err := BuildContainer(context.Background(), flags, &out)
	require.NoError(t, err)

	err = container.Invoke(func(search *core.SearchService, view ports.Viewer) error {
		result, err := search.Search(context.Background(), core.SearchOptions{Query: "plan"})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Total)
		return view.SearchSummary(result, 1, 1)
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Found 1 documents")
}

func TestBuildContainer_TranslationWithoutBackends(t *testing.T) {
	configPath, corpusPath := writeFixture(t)
	flags := &CLIFlags{ConfigFile: configPath, CorpusPath: corpusPath, Validation: "strict"}

	container, err := BuildContainer(context.Background(), flags, &bytes.Buffer{})
	require.NoError(t, err)

	err = container.Invoke(func(svc *core.TranslationService, session *core.Session, validator *core.Validator) error {
		assert.Equal(t, core.ValidationStrict, validator.Mode())

		outcome := svc.Translate(context.Background(), "Hello there")
		assert.False(t, outcome.Translated)
		assert.Equal(t, "Hello there", outcome.Text)
		assert.NotEmpty(t, outcome.Reason)

		return session.Close(context.Background())
	})
	require.NoError(t, err)
}

func TestBuildContainer_FlagOverrides(t *testing.T) {
	configPath, _ := writeFixture(t)
	flags := &CLIFlags{ConfigFile: configPath, TargetLang: "de", Format: "json", CacheType: "sqlite"}

	container, err := BuildContainer(context.Background(), flags, &bytes.Buffer{})
	require.NoError(t, err)

	err = container.Invoke(func(cfg *config.Config) {
		tc, err := cfg.GetTranslation()
		require.NoError(t, err)
		assert.Equal(t, "de", tc.TargetLang)
		assert.Equal(t, "json", cfg.GetString("viewer.format"))
		assert.Equal(t, "sqlite", cfg.GetString("cache.type"))
		assert.Equal(t, "none", tc.PrimaryProvider)
	})
	require.NoError(t, err)
}

func TestBuildContainer_InvalidValidationMode(t *testing.T) {
	configPath, _ := writeFixture(t)
	flags := &CLIFlags{ConfigFile: configPath, Validation: "paranoid"}

	container, err := BuildContainer(context.Background(), flags, &bytes.Buffer{})
	require.NoError(t, err)

	err = container.Invoke(func(*core.Validator) {})
	assert.Error(t, err)
}

func TestBuildContainer_MissingConfigFile(t *testing.T) {
	flags := &CLIFlags{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")}

	container, err := BuildContainer(context.Background(), flags, &bytes.Buffer{})
	require.NoError(t, err)

	err = container.Invoke(func(*config.Config) {})
	assert.Error(t, err)
}
