package core

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
)

const (
	defaultMaxResults     = 100
	defaultResultsPerPage = 10
)

// SearchSettings holds result limits
type SearchSettings struct {
	MaxResults     int
	ResultsPerPage int
}

// SearchOptions describes one search request
type SearchOptions struct {
	Query         string
	CaseSensitive bool
	Limit         int
}

// SearchService filters the corpus and annotates the matching documents
type SearchService struct {
	corpus     Corpus
	normalizer *QueryNormalizer
	settings   SearchSettings
	logger     *zap.Logger
}

// NewSearchService creates a new search service
func NewSearchService(corpus Corpus, normalizer *QueryNormalizer, settings SearchSettings, logger *zap.Logger) *SearchService {
	if settings.MaxResults <= 0 {
		settings.MaxResults = defaultMaxResults
	}
	if settings.ResultsPerPage <= 0 {
		settings.ResultsPerPage = defaultResultsPerPage
	}
	return &SearchService{
		corpus:     corpus,
		normalizer: normalizer,
		settings:   settings,
		logger:     logger,
	}
}

// ResultsPerPage returns the configured page size
func (s *SearchService) ResultsPerPage() int {
	return s.settings.ResultsPerPage
}

// Search runs a literal substring search over the corpus. Hits are sorted
// emails first, then structured metadata, then everything else.
func (s *SearchService) Search(ctx context.Context, opts SearchOptions) (*SearchResult, error) {
	if strings.TrimSpace(opts.Query) == "" {
		return nil, ErrEmptyQuery
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = s.settings.MaxResults
	}

	query := opts.Query
	if s.normalizer != nil {
		query = s.normalizer.Normalize(ctx, opts.Query)
	}

	docs, err := s.corpus.Documents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}

	result := &SearchResult{
		OriginalQuery: opts.Query,
		Query:         query,
		CaseSensitive: opts.CaseSensitive,
	}

	needle := query
	if !opts.CaseSensitive {
		needle = strings.ToLower(query)
	}

	for _, doc := range docs {
		haystack := doc.Text
		if !opts.CaseSensitive {
			haystack = strings.ToLower(doc.Text)
		}
		if !strings.Contains(haystack, needle) {
			continue
		}

		result.Total++
		if len(result.Hits) >= limit {
			continue
		}

		result.Hits = append(result.Hits, Hit{
			Document:       doc,
			Classification: Classify(doc.Text),
			Metadata:       ExtractMetadata(doc.Text),
			Occurrences:    CountOccurrences(doc.Text, query),
		})
	}

	sort.SliceStable(result.Hits, func(i, j int) bool {
		return result.Hits[i].Classification.Category.Rank() < result.Hits[j].Classification.Category.Rank()
	})

	s.logger.Info("Search completed",
		zap.String("query", query),
		zap.Bool("case_sensitive", opts.CaseSensitive),
		zap.Int("total", result.Total),
		zap.Int("shown", len(result.Hits)))

	return result, nil
}

// CountOccurrences counts case-insensitive non-overlapping occurrences of query in text
func CountOccurrences(text, query string) int {
	if query == "" {
		return 0
	}
	return strings.Count(strings.ToLower(text), strings.ToLower(query))
}

// Paginate returns the hits of a 1-based page and the number of pages.
// Out of range pages are clamped.
func Paginate(hits []Hit, page, perPage int) ([]Hit, int) {
	if perPage <= 0 {
		perPage = defaultResultsPerPage
	}
	if len(hits) == 0 {
		return nil, 0
	}

	pages := (len(hits) + perPage - 1) / perPage
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	start := (page - 1) * perPage
	end := start + perPage
	if end > len(hits) {
		end = len(hits)
	}
	return hits[start:end], pages
}
