package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
	"github.com/custodia-labs/scopeiq-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scopeiq-cli/internal/core/ports/driving"
	"github.com/custodia-labs/scopeiq-cli/internal/highlight"
	"github.com/custodia-labs/scopeiq-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

const (
	// maxSnippets caps the snippets built for one result.
	maxSnippets = 3

	// ellipsis marks text cut from a snippet.
	ellipsis = "\u2026"
)

// scoredChunk holds intermediate search results before hydration.
type scoredChunk struct {
	chunkID string
	score   float64
}

// SearchService provides keyword search with highlighted snippets.
type SearchService struct {
	docStore     driven.DocumentStore
	searchIndex  driven.SearchEngine
	projectStore driven.ProjectStore
	match        domain.MatchOptions
}

// NewSearchService creates a new search service.
func NewSearchService(docStore driven.DocumentStore, searchIndex driven.SearchEngine) *SearchService {
	return &SearchService{
		docStore:    docStore,
		searchIndex: searchIndex,
		match:       domain.DefaultMatchOptions(),
	}
}

// SetProjectStore sets the project store for ProjectName enrichment.
func (s *SearchService) SetProjectStore(store driven.ProjectStore) {
	s.projectStore = store
}

// SetMatchOptions sets the match options used when a search does not
// supply its own.
func (s *SearchService) SetMatchOptions(opts domain.MatchOptions) {
	s.match = opts
}

// Search runs a keyword search and highlights the query terms in each hit.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}
	offset := max(opts.Offset, 0)
	logger.Debug("Limit: %d, Offset: %d", limit, offset)

	// Request more results internally to account for filtering.
	internalLimit := (offset + limit) * 2
	if len(opts.ProjectIDs) > 0 {
		internalLimit = (offset + limit) * 3
		logger.Debug("Project filter: %v", opts.ProjectIDs)
	}

	chunks, err := s.keywordSearch(ctx, query, internalLimit)
	if err != nil {
		logger.Warn("Search failed: %v", err)
		return nil, fmt.Errorf("search: %w", err)
	}
	logger.Debug("Raw results: %d chunks", len(chunks))

	match := s.match
	if opts.Match != nil {
		match = *opts.Match
	}
	radius := opts.SnippetRadius
	if radius <= 0 {
		radius = domain.DefaultSnippetRadius
	}

	results, err := s.hydrateResults(ctx, chunks, parseQuery(query, match.CaseSensitive), match, radius)
	if err != nil {
		return nil, fmt.Errorf("hydrate results: %w", err)
	}

	if len(opts.ProjectIDs) > 0 {
		results = filterByProjectIDs(results, opts.ProjectIDs)
		logger.Debug("After project filter: %d results", len(results))
	}

	results = applyPagination(results, offset, limit)
	s.enrichProjectNames(ctx, results)
	logger.Info("Final results: %d", len(results))

	return results, nil
}

func (s *SearchService) keywordSearch(ctx context.Context, query string, limit int) ([]scoredChunk, error) {
	if s.searchIndex == nil {
		return nil, domain.ErrSearchUnavailable
	}

	hits, err := s.searchIndex.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}

	results := make([]scoredChunk, len(hits))
	for i, hit := range hits {
		results[i] = scoredChunk{chunkID: hit.ChunkID, score: hit.Score}
	}
	return results, nil
}

// hydrateResults loads the chunk and document behind each hit. Hits whose
// chunk or document has since been removed are skipped.
func (s *SearchService) hydrateResults(
	ctx context.Context, chunks []scoredChunk, terms []domain.SearchTerm, match domain.MatchOptions, radius int,
) ([]domain.SearchResult, error) {
	if s.docStore == nil {
		return nil, fmt.Errorf("document store: %w", domain.ErrNotImplemented)
	}

	results := make([]domain.SearchResult, 0, len(chunks))
	for _, sc := range chunks {
		chunk, err := s.docStore.GetChunk(ctx, sc.chunkID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("get chunk %s: %w", sc.chunkID, err)
		}

		doc, err := s.docStore.GetDocument(ctx, chunk.DocumentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("get document %s: %w", chunk.DocumentID, err)
		}

		spans := highlight.FindMatches(chunk.Content, terms, match)
		results = append(results, domain.SearchResult{
			Document: *doc,
			Chunk:    *chunk,
			Score:    sc.score,
			Spans:    spans,
			Snippets: buildSnippets(chunk.Content, spans, radius, maxSnippets),
		})
	}
	return results, nil
}

func (s *SearchService) enrichProjectNames(ctx context.Context, results []domain.SearchResult) {
	if s.projectStore == nil {
		return
	}
	names := make(map[string]string)
	for i := range results {
		id := results[i].Document.ProjectID
		name, ok := names[id]
		if !ok {
			if p, err := s.projectStore.Get(ctx, id); err == nil {
				name = p.DisplayName()
			}
			names[id] = name
		}
		results[i].ProjectName = name
	}
}

// buildSnippets cuts up to limit windows of text around spans. Each window
// keeps up to radius bytes of context on both sides of the span that opens
// it, trimmed back to whitespace so edge words are not cut but stretched to
// the end of any span it would split, and carries the spans that fit inside
// it rebased to the snippet text. Text without spans
// yields one snippet from its start.
func buildSnippets(text string, spans []domain.MatchSpan, radius, limit int) []domain.Snippet {
	if text == "" || limit <= 0 {
		return nil
	}

	if len(spans) == 0 {
		to := snapEnd(text, min(len(text), 2*radius), 0)
		return []domain.Snippet{{Text: decorate(text, 0, to)}}
	}

	var (
		snippets []domain.Snippet
		covered  int
	)
	for _, span := range spans {
		if len(snippets) == limit {
			break
		}
		if span.Start < covered {
			continue
		}

		from := max(snapStart(text, span.Start-radius, span.Start), covered)
		for from < span.Start && isSpace(text[from]) {
			from++
		}
		to := snapEnd(text, span.End+radius, span.End)
		for _, next := range spans {
			if next.Start < to && next.End > to {
				to = next.End
			}
		}

		prefix := 0
		if from > 0 {
			prefix = len(ellipsis)
		}
		clipped := highlight.Clip(spans, from, to)
		for i := range clipped {
			clipped[i].Start += prefix
			clipped[i].End += prefix
		}

		snippets = append(snippets, domain.Snippet{Text: decorate(text, from, to), Spans: clipped})
		covered = to
	}
	return snippets
}

// decorate returns text[from:to] with ellipses where text was cut.
func decorate(text string, from, to int) string {
	var b strings.Builder
	if from > 0 {
		b.WriteString(ellipsis)
	}
	b.WriteString(text[from:to])
	if to < len(text) {
		b.WriteString(ellipsis)
	}
	return b.String()
}

// snapStart moves i forward to a rune boundary and, unless i already
// starts a word, past the next whitespace before limit.
func snapStart(text string, i, limit int) int {
	if i <= 0 {
		return 0
	}
	for i < limit && !utf8.RuneStart(text[i]) {
		i++
	}
	if !isSpace(text[i-1]) {
		if j := strings.IndexAny(text[i:limit], " \t\n"); j >= 0 {
			i += j
		}
	}
	for i < limit && isSpace(text[i]) {
		i++
	}
	return i
}

// snapEnd moves i back to a rune boundary and, unless i already ends a
// word, back to the last whitespace after limit.
func snapEnd(text string, i, limit int) int {
	if i >= len(text) {
		return len(text)
	}
	for i > limit && !utf8.RuneStart(text[i]) {
		i--
	}
	if !isSpace(text[i]) {
		if j := strings.LastIndexAny(text[limit:i], " \t\n"); j >= 0 {
			i = limit + j
		}
	}
	for i > limit && isSpace(text[i-1]) {
		i--
	}
	return i
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// filterByProjectIDs keeps results from the given projects.
func filterByProjectIDs(results []domain.SearchResult, projectIDs []string) []domain.SearchResult {
	projectSet := make(map[string]bool, len(projectIDs))
	for _, id := range projectIDs {
		projectSet[id] = true
	}

	filtered := make([]domain.SearchResult, 0, len(results))
	for i := range results {
		if projectSet[results[i].Document.ProjectID] {
			filtered = append(filtered, results[i])
		}
	}
	return filtered
}

// applyPagination applies offset and limit to results.
func applyPagination(results []domain.SearchResult, offset, limit int) []domain.SearchResult {
	if offset >= len(results) {
		return []domain.SearchResult{}
	}
	end := min(offset+limit, len(results))
	return results[offset:end]
}
