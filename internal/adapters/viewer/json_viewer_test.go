package viewer

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mikey/llm-mail-search/internal/core"
	"github.com/mikey/llm-mail-search/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var records []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var rec map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		records = append(records, rec)
	}
	return records
}

func TestJSONViewer_SearchAndHit(t *testing.T) {
	var buf bytes.Buffer
	logger := zap.NewNop()
	v := NewJSONViewer(&buf, utils.NewTextProcessor(logger), 10, logger)

	hit := emailHit()
	result := &core.SearchResult{OriginalQuery: "budget", Query: "budżet", Total: 1, Hits: []core.Hit{hit}}

	require.NoError(t, v.SearchSummary(result, 1, 1))
	require.NoError(t, v.Hit(1, hit, result, &core.TranslationOutcome{Text: "x", Reason: "too short"}))

	records := decodeLines(t, &buf)
	require.Len(t, records, 2)

	assert.Equal(t, "summary", records[0]["type"])
	assert.Equal(t, "budżet", records[0]["searched_query"])
	assert.Equal(t, float64(1), records[0]["total"])

	assert.Equal(t, "hit", records[1]["type"])
	assert.Equal(t, "inbox/1.eml", records[1]["filename"])
	assert.Equal(t, "email", records[1]["category"])
	assert.Equal(t, "From: anna", records[1]["preview"])
	meta := records[1]["metadata"].(map[string]interface{})
	assert.Equal(t, "anna@example.com", meta["from"])
	assert.Equal(t, core.Unknown, meta["date"])
	translation := records[1]["translation"].(map[string]interface{})
	assert.Equal(t, false, translation["translated"])
	assert.Equal(t, "too short", translation["reason"])
}

func TestJSONViewer_HitWithoutTranslation(t *testing.T) {
	var buf bytes.Buffer
	logger := zap.NewNop()
	v := NewJSONViewer(&buf, utils.NewTextProcessor(logger), 0, logger)

	require.NoError(t, v.Hit(1, emailHit(), &core.SearchResult{}, nil))

	records := decodeLines(t, &buf)
	_, ok := records[0]["translation"]
	assert.False(t, ok)
}

func TestJSONViewer_TranslationAndInspection(t *testing.T) {
	var buf bytes.Buffer
	logger := zap.NewNop()
	v := NewJSONViewer(&buf, utils.NewTextProcessor(logger), 0, logger)

	require.NoError(t, v.Translation(&core.TranslationOutcome{Text: "Hello", Translated: true, Backend: "ollama"}))
	require.NoError(t, v.Inspection(core.Document{Filename: "stdin", Text: `{"layout": "grid"}`}))

	records := decodeLines(t, &buf)
	require.Len(t, records, 2)
	assert.Equal(t, "translation", records[0]["type"])
	assert.Equal(t, "ollama", records[0]["backend"])
	assert.Equal(t, "Hello", records[0]["text"])

	assert.Equal(t, "inspection", records[1]["type"])
	assert.Equal(t, "structured-metadata", records[1]["category"])
	assert.Equal(t, core.CacheKey(`{"layout": "grid"}`), records[1]["cache_key"])
}
