package ports

import (
	"github.com/mikey/llm-mail-search/internal/core"
)

// Viewer defines the interface for presenting search and translation results
type Viewer interface {
	// SearchSummary shows the query, the match count and the page position
	SearchSummary(result *core.SearchResult, page, pages int) error

	// Hit shows one matching document. outcome is nil when translation was not requested.
	Hit(index int, hit core.Hit, result *core.SearchResult, outcome *core.TranslationOutcome) error

	// Translation shows the outcome of translating a standalone text
	Translation(outcome *core.TranslationOutcome) error

	// Inspection shows the classification and metadata of a standalone text
	Inspection(doc core.Document) error
}
