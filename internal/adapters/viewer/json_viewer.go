package viewer

import (
	"encoding/json"
	"io"

	"github.com/mikey/llm-mail-search/internal/core"
	"github.com/mikey/llm-mail-search/internal/utils"
	"go.uber.org/zap"
)

type summaryRecord struct {
	Type          string `json:"type"`
	Query         string `json:"query"`
	SearchedQuery string `json:"searched_query"`
	CaseSensitive bool   `json:"case_sensitive"`
	Total         int    `json:"total"`
	Shown         int    `json:"shown"`
	Page          int    `json:"page"`
	Pages         int    `json:"pages"`
}

type metadataRecord struct {
	Date    string `json:"date"`
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
}

type outcomeRecord struct {
	Translated bool   `json:"translated"`
	Backend    string `json:"backend,omitempty"`
	Text       string `json:"text"`
	Reason     string `json:"reason,omitempty"`
}

type hitRecord struct {
	Type        string         `json:"type"`
	Index       int            `json:"index"`
	Filename    string         `json:"filename"`
	Category    core.Category  `json:"category"`
	Label       string         `json:"label"`
	Metadata    metadataRecord `json:"metadata"`
	Occurrences int            `json:"occurrences"`
	Preview     string         `json:"preview"`
	Translation *outcomeRecord `json:"translation,omitempty"`
}

type translationRecord struct {
	Type string `json:"type"`
	outcomeRecord
}

type inspectionRecord struct {
	Type     string         `json:"type"`
	Filename string         `json:"filename"`
	Category core.Category  `json:"category"`
	Label    string         `json:"label"`
	Metadata metadataRecord `json:"metadata"`
	CacheKey string         `json:"cache_key"`
}

// JSONViewer writes one JSON object per line, for scripting
type JSONViewer struct {
	enc           *json.Encoder
	textProcessor *utils.TextProcessor
	previewChars  int
	logger        *zap.Logger
}

// NewJSONViewer creates a new JSON lines viewer writing to out
func NewJSONViewer(out io.Writer, textProcessor *utils.TextProcessor, previewChars int, logger *zap.Logger) *JSONViewer {
	if previewChars <= 0 {
		previewChars = defaultPreviewChars
	}
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	return &JSONViewer{
		enc:           enc,
		textProcessor: textProcessor,
		previewChars:  previewChars,
		logger:        logger,
	}
}

// SearchSummary writes a summary record
func (v *JSONViewer) SearchSummary(result *core.SearchResult, page, pages int) error {
	return v.enc.Encode(summaryRecord{
		Type:          "summary",
		Query:         result.OriginalQuery,
		SearchedQuery: result.Query,
		CaseSensitive: result.CaseSensitive,
		Total:         result.Total,
		Shown:         len(result.Hits),
		Page:          page,
		Pages:         pages,
	})
}

// Hit writes a hit record
func (v *JSONViewer) Hit(index int, hit core.Hit, _ *core.SearchResult, outcome *core.TranslationOutcome) error {
	return v.enc.Encode(hitRecord{
		Type:        "hit",
		Index:       index,
		Filename:    hit.Document.Filename,
		Category:    hit.Classification.Category,
		Label:       hit.Classification.Label,
		Metadata:    toMetadataRecord(hit.Metadata),
		Occurrences: hit.Occurrences,
		Preview:     v.textProcessor.TruncateText(hit.Document.Text, v.previewChars),
		Translation: toOutcomeRecord(outcome),
	})
}

// Translation writes the translation outcome
func (v *JSONViewer) Translation(outcome *core.TranslationOutcome) error {
	return v.enc.Encode(translationRecord{
		Type:          "translation",
		outcomeRecord: *toOutcomeRecord(outcome),
	})
}

// Inspection writes the classification and metadata of doc
func (v *JSONViewer) Inspection(doc core.Document) error {
	cls := core.Classify(doc.Text)
	return v.enc.Encode(inspectionRecord{
		Type:     "inspection",
		Filename: doc.Filename,
		Category: cls.Category,
		Label:    cls.Label,
		Metadata: toMetadataRecord(core.ExtractMetadata(doc.Text)),
		CacheKey: core.CacheKey(doc.Text),
	})
}

func toMetadataRecord(m core.Metadata) metadataRecord {
	return metadataRecord{
		Date:    m.Date,
		From:    m.From,
		To:      m.To,
		Subject: m.Subject,
	}
}

func toOutcomeRecord(o *core.TranslationOutcome) *outcomeRecord {
	if o == nil {
		return nil
	}
	return &outcomeRecord{
		Translated: o.Translated,
		Backend:    o.Backend,
		Text:       o.Text,
		Reason:     o.Reason,
	}
}
