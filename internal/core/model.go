package core

import (
	"time"
)

// Unknown marks a metadata field that was not found in the document head
const Unknown = "unknown"

// Document is one read-only record of the corpus
type Document struct {
	Filename string `json:"filename"`
	Text     string `json:"text"`
}

// Metadata holds the header-like fields pulled from the head of a document
type Metadata struct {
	Date    string
	From    string
	To      string
	Subject string
}

// HasAny reports whether at least one field was found
func (m Metadata) HasAny() bool {
	return m.Date != Unknown || m.From != Unknown || m.To != Unknown || m.Subject != Unknown
}

// Field is a named metadata value, used for display
type Field struct {
	Name  string
	Value string
}

// Known returns the found sender, recipient and date fields in display order
func (m Metadata) Known() []Field {
	var fields []Field
	if m.From != Unknown {
		fields = append(fields, Field{Name: "From", Value: m.From})
	}
	if m.To != Unknown {
		fields = append(fields, Field{Name: "To", Value: m.To})
	}
	if m.Date != Unknown {
		fields = append(fields, Field{Name: "Date", Value: m.Date})
	}
	return fields
}

// Category is the coarse type of a document
type Category string

const (
	CategoryEmail      Category = "email"
	CategoryStructured Category = "structured-metadata"
	CategoryOther      Category = "other"
)

// Rank returns the display order of the category, emails first
func (c Category) Rank() int {
	switch c {
	case CategoryEmail:
		return 0
	case CategoryStructured:
		return 1
	default:
		return 2
	}
}

// Classification is the category of a document plus a human readable label
type Classification struct {
	Category Category
	Label    string
}

// CacheEntry is one accepted translation stored in a session cache
type CacheEntry struct {
	Key         string
	Translation string
	Backend     string
	CreatedAt   time.Time
}

// TranslationOutcome is the result of the primary/fallback translation chain
type TranslationOutcome struct {
	Original   string
	Text       string
	Translated bool
	Backend    string
	Reason     string
}

// Hit is one matching document of a search
type Hit struct {
	Document       Document
	Classification Classification
	Metadata       Metadata
	Occurrences    int
}

// SearchResult is the outcome of a single search interaction
type SearchResult struct {
	OriginalQuery string
	Query         string
	CaseSensitive bool
	Total         int
	Hits          []Hit
}

// Translated reports whether the query was rewritten before matching
func (r *SearchResult) Translated() bool {
	return r.Query != r.OriginalQuery
}
