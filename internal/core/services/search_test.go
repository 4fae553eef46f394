package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
	"github.com/custodia-labs/scopeiq-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scopeiq-cli/internal/highlight"
)

// --- Mock implementations ---

// mockSearchEngine implements driven.SearchEngine for testing.
type mockSearchEngine struct {
	hits      []driven.SearchHit
	searchErr error
	indexErr  error
	deleteErr error

	lastQuery string
	lastLimit int
	indexed   []domain.Chunk
	deleted   []string
}

func (m *mockSearchEngine) Index(_ context.Context, chunk domain.Chunk) error {
	if m.indexErr != nil {
		return m.indexErr
	}
	m.indexed = append(m.indexed, chunk)
	return nil
}

func (m *mockSearchEngine) Delete(_ context.Context, chunkID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, chunkID)
	return nil
}

func (m *mockSearchEngine) Search(_ context.Context, query string, limit int) ([]driven.SearchHit, error) {
	m.lastQuery, m.lastLimit = query, limit
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if limit > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:limit], nil
}

func (m *mockSearchEngine) Close() error {
	return nil
}

// --- Test helpers ---

func setupTestDocStore(t *testing.T) *memory.DocumentStore {
	t.Helper()
	store := memory.NewDocumentStore()
	ctx := context.Background()
	now := time.Now()

	docs := []struct {
		id        string
		projectID string
		title     string
		content   string
	}{
		{"doc-1", "prj-1", "Concrete Specification", "Concrete shall reach 32 MPa at 28 days."},
		{"doc-2", "prj-1", "Pour Schedule", "Level 2 slab concrete pour is booked for Monday."},
		{"doc-3", "prj-2", "Steel Shop Drawings", "Anchor bolts are cast into the concrete footing."},
	}

	for _, d := range docs {
		doc := &domain.Document{
			ID:        d.id,
			ProjectID: d.projectID,
			URI:       "/site/" + d.id + ".txt",
			Title:     d.title,
			Content:   d.content,
			CreatedAt: now,
			UpdatedAt: now,
		}
		require.NoError(t, store.SaveDocument(ctx, doc))
		require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{{
			ID:         "chunk-" + d.id,
			DocumentID: d.id,
			Content:    d.content,
		}}))
	}

	return store
}

func setupTestProjectStore(t *testing.T) *memory.ProjectStore {
	t.Helper()
	store := memory.NewProjectStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, domain.Project{ID: "prj-1", Name: "Harbour Tower", Code: "HT-01"}))
	require.NoError(t, store.Save(ctx, domain.Project{ID: "prj-2", Name: "Riverside School"}))
	return store
}

func createTestHits() []driven.SearchHit {
	return []driven.SearchHit{
		{ChunkID: "chunk-doc-1", Score: 0.9},
		{ChunkID: "chunk-doc-2", Score: 0.8},
		{ChunkID: "chunk-doc-3", Score: 0.7},
	}
}

// --- Tests ---

func TestNewSearchService(t *testing.T) {
	service := NewSearchService(memory.NewDocumentStore(), nil)

	require.NotNil(t, service)
	assert.NotNil(t, service.docStore)
	assert.Equal(t, domain.DefaultMatchOptions(), service.match)
}

func TestSearchService_Search_EmptyQuery(t *testing.T) {
	for _, query := range []string{"", "   ", "\t\n"} {
		engine := &mockSearchEngine{hits: createTestHits()}
		service := NewSearchService(setupTestDocStore(t), engine)

		results, err := service.Search(context.Background(), query, domain.SearchOptions{})
		require.NoError(t, err)
		assert.Empty(t, results)
		assert.NotNil(t, results)
		assert.Empty(t, engine.lastQuery, "engine not queried")
	}
}

func TestSearchService_Search_Results(t *testing.T) {
	engine := &mockSearchEngine{hits: createTestHits()}
	service := NewSearchService(setupTestDocStore(t), engine)

	results, err := service.Search(context.Background(), "  concrete  ", domain.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "concrete", engine.lastQuery)
	assert.Equal(t, domain.DefaultSearchLimit*2, engine.lastLimit)

	first := results[0]
	assert.Equal(t, "doc-1", first.Document.ID)
	assert.Equal(t, "chunk-doc-1", first.Chunk.ID)
	assert.InDelta(t, 0.9, first.Score, 1e-9)
	assert.Equal(t, []domain.MatchSpan{{Start: 0, End: 8, Kind: domain.TermKindSearch}}, first.Spans)
	assert.Empty(t, first.ProjectName, "no project store configured")

	for _, r := range results {
		require.NoError(t, highlight.Validate(r.Chunk.Content, r.Spans))
		require.NotEmpty(t, r.Snippets)
		for _, sn := range r.Snippets {
			require.NoError(t, highlight.Validate(sn.Text, sn.Spans))
			for _, sp := range sn.Spans {
				assert.Equal(t, "concrete", lowerASCII(sn.Text[sp.Start:sp.End]))
			}
		}
	}
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

func TestSearchService_Search_PhrasesAndMatchOptions(t *testing.T) {
	store := memory.NewDocumentStore()
	ctx := context.Background()
	content := "Slab edge detail: the slab edge at grid C conflicts. Edge protection required."
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "d", ProjectID: "p", Content: content}))
	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{{ID: "c", DocumentID: "d", Content: content}}))

	engine := &mockSearchEngine{hits: []driven.SearchHit{{ChunkID: "c", Score: 1}}}
	service := NewSearchService(store, engine)

	t.Run("phrase outranks its words", func(t *testing.T) {
		results, err := service.Search(ctx, `"slab edge" edge`, domain.SearchOptions{})
		require.NoError(t, err)
		require.Len(t, results, 1)

		var got []string
		for _, sp := range results[0].Spans {
			got = append(got, content[sp.Start:sp.End]+"/"+sp.Kind.String())
		}
		assert.Equal(t, []string{"Slab edge/phrase", "slab edge/phrase", "Edge/search"}, got)
	})

	t.Run("service default options", func(t *testing.T) {
		service.SetMatchOptions(domain.MatchOptions{CaseSensitive: true, MaxMatches: 50})
		defer service.SetMatchOptions(domain.DefaultMatchOptions())

		results, err := service.Search(ctx, "Edge", domain.SearchOptions{})
		require.NoError(t, err)
		require.Len(t, results[0].Spans, 1)
		assert.Equal(t, 53, results[0].Spans[0].Start)
	})

	t.Run("per search options win", func(t *testing.T) {
		results, err := service.Search(ctx, "edge", domain.SearchOptions{
			Match: &domain.MatchOptions{MaxMatches: 1},
		})
		require.NoError(t, err)
		assert.Len(t, results[0].Spans, 1)
	})
}

func TestSearchService_Search_LimitAndOffset(t *testing.T) {
	engine := &mockSearchEngine{hits: createTestHits()}
	service := NewSearchService(setupTestDocStore(t), engine)
	ctx := context.Background()

	results, err := service.Search(ctx, "concrete", domain.SearchOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, 4, engine.lastLimit)

	results, err = service.Search(ctx, "concrete", domain.SearchOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc-2", results[0].Document.ID)
	assert.Equal(t, 4, engine.lastLimit, "offset widens the engine request")

	results, err = service.Search(ctx, "concrete", domain.SearchOptions{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchService_Search_ProjectFilter(t *testing.T) {
	engine := &mockSearchEngine{hits: createTestHits()}
	service := NewSearchService(setupTestDocStore(t), engine)
	service.SetProjectStore(setupTestProjectStore(t))

	results, err := service.Search(context.Background(), "concrete", domain.SearchOptions{
		ProjectIDs: []string{"prj-2"},
		Limit:      5,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc-3", results[0].Document.ID)
	assert.Equal(t, "Riverside School", results[0].ProjectName)
	assert.Equal(t, 15, engine.lastLimit)
}

func TestSearchService_Search_ProjectNames(t *testing.T) {
	engine := &mockSearchEngine{hits: createTestHits()}
	service := NewSearchService(setupTestDocStore(t), engine)
	service.SetProjectStore(setupTestProjectStore(t))

	results, err := service.Search(context.Background(), "concrete", domain.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "HT-01 - Harbour Tower", results[0].ProjectName)
	assert.Equal(t, "HT-01 - Harbour Tower", results[1].ProjectName)
	assert.Equal(t, "Riverside School", results[2].ProjectName)
}

func TestSearchService_Search_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("no search engine", func(t *testing.T) {
		service := NewSearchService(setupTestDocStore(t), nil)
		_, err := service.Search(ctx, "concrete", domain.SearchOptions{})
		assert.ErrorIs(t, err, domain.ErrSearchUnavailable)
	})

	t.Run("engine error", func(t *testing.T) {
		boom := errors.New("index corrupted")
		service := NewSearchService(setupTestDocStore(t), &mockSearchEngine{searchErr: boom})
		_, err := service.Search(ctx, "concrete", domain.SearchOptions{})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("nil document store", func(t *testing.T) {
		service := NewSearchService(nil, &mockSearchEngine{hits: createTestHits()})
		_, err := service.Search(ctx, "concrete", domain.SearchOptions{})
		assert.ErrorIs(t, err, domain.ErrNotImplemented)
	})
}

func TestSearchService_Search_MissingChunk_Skipped(t *testing.T) {
	hits := []driven.SearchHit{
		{ChunkID: "chunk-doc-1", Score: 0.9},
		{ChunkID: "non-existent-chunk", Score: 0.85},
		{ChunkID: "chunk-doc-2", Score: 0.8},
	}
	service := NewSearchService(setupTestDocStore(t), &mockSearchEngine{hits: hits})

	results, err := service.Search(context.Background(), "concrete", domain.SearchOptions{})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearchService_Search_MissingDocument_Skipped(t *testing.T) {
	docStore := memory.NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, docStore.SaveChunks(ctx, []domain.Chunk{
		{ID: "orphan-chunk", DocumentID: "missing-doc", Content: "orphan content"},
	}))
	require.NoError(t, docStore.SaveDocument(ctx, &domain.Document{ID: "doc-1", ProjectID: "prj-1", Title: "Test"}))
	require.NoError(t, docStore.SaveChunks(ctx, []domain.Chunk{
		{ID: "chunk-1", DocumentID: "doc-1", Content: "test content"},
	}))

	hits := []driven.SearchHit{
		{ChunkID: "orphan-chunk", Score: 0.9},
		{ChunkID: "chunk-1", Score: 0.8},
	}
	service := NewSearchService(docStore, &mockSearchEngine{hits: hits})

	results, err := service.Search(ctx, "test", domain.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "chunk-1", results[0].Chunk.ID)
}

func TestBuildSnippets(t *testing.T) {
	const fox = "The quick brown fox jumps over the lazy dog"

	tests := []struct {
		name   string
		text   string
		spans  []domain.MatchSpan
		radius int
		limit  int
		want   []domain.Snippet
	}{
		{
			name:   "context on word boundaries",
			text:   fox,
			spans:  []domain.MatchSpan{{Start: 16, End: 19}},
			radius: 6,
			limit:  3,
			want:   []domain.Snippet{{Text: "\u2026brown fox jumps\u2026", Spans: []domain.MatchSpan{{Start: 9, End: 12}}}},
		},
		{
			name:   "partial words dropped",
			text:   fox,
			spans:  []domain.MatchSpan{{Start: 16, End: 19}},
			radius: 4,
			limit:  3,
			want:   []domain.Snippet{{Text: "\u2026fox\u2026", Spans: []domain.MatchSpan{{Start: 3, End: 6}}}},
		},
		{
			name:   "window covers whole text",
			text:   "fox jumps",
			spans:  []domain.MatchSpan{{Start: 0, End: 3}},
			radius: 80,
			limit:  3,
			want:   []domain.Snippet{{Text: "fox jumps", Spans: []domain.MatchSpan{{Start: 0, End: 3}}}},
		},
		{
			name:   "spans in one window",
			text:   "cat and cat",
			spans:  []domain.MatchSpan{{Start: 0, End: 3}, {Start: 8, End: 11}},
			radius: 20,
			limit:  3,
			want: []domain.Snippet{{Text: "cat and cat", Spans: []domain.MatchSpan{
				{Start: 0, End: 3}, {Start: 8, End: 11},
			}}},
		},
		{
			name:   "window stretched over a phrase it would split",
			text:   "cat and slab edge detail",
			spans:  []domain.MatchSpan{{Start: 0, End: 3}, {Start: 8, End: 17}},
			radius: 12,
			limit:  3,
			want: []domain.Snippet{{Text: "cat and slab edge\u2026", Spans: []domain.MatchSpan{
				{Start: 0, End: 3}, {Start: 8, End: 17},
			}}},
		},
		{
			name:   "limit caps windows",
			text:   "cat dog cat dog cat",
			spans:  []domain.MatchSpan{{Start: 0, End: 3}, {Start: 8, End: 11}, {Start: 16, End: 19}},
			radius: 0,
			limit:  2,
			want: []domain.Snippet{
				{Text: "cat\u2026", Spans: []domain.MatchSpan{{Start: 0, End: 3}}},
				{Text: "\u2026cat\u2026", Spans: []domain.MatchSpan{{Start: 3, End: 6}}},
			},
		},
		{
			name:   "multibyte runes not split",
			text:   "caf\u00e9 caf\u00e9",
			spans:  []domain.MatchSpan{{Start: 6, End: 11}},
			radius: 2,
			limit:  3,
			want:   []domain.Snippet{{Text: "\u2026caf\u00e9", Spans: []domain.MatchSpan{{Start: 3, End: 8}}}},
		},
		{
			name:   "no spans uses text head",
			text:   "alpha beta gamma",
			radius: 3,
			limit:  3,
			want:   []domain.Snippet{{Text: "alpha\u2026"}},
		},
		{
			name:   "no spans short text",
			text:   "alpha",
			radius: 3,
			limit:  3,
			want:   []domain.Snippet{{Text: "alpha"}},
		},
		{
			name:   "empty text",
			text:   "",
			radius: 3,
			limit:  3,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildSnippets(tt.text, tt.spans, tt.radius, tt.limit)
			assert.Equal(t, tt.want, got)
			for _, sn := range got {
				assert.NoError(t, highlight.Validate(sn.Text, sn.Spans))
			}
		})
	}
}

func TestFilterByProjectIDs(t *testing.T) {
	results := []domain.SearchResult{
		{Document: domain.Document{ID: "a", ProjectID: "p1"}},
		{Document: domain.Document{ID: "b", ProjectID: "p2"}},
		{Document: domain.Document{ID: "c", ProjectID: "p1"}},
	}

	filtered := filterByProjectIDs(results, []string{"p1"})
	require.Len(t, filtered, 2)
	assert.Equal(t, "a", filtered[0].Document.ID)
	assert.Equal(t, "c", filtered[1].Document.ID)

	assert.Empty(t, filterByProjectIDs(results, []string{"nope"}))
}

func TestApplyPagination(t *testing.T) {
	results := make([]domain.SearchResult, 10)
	for i := range results {
		results[i] = domain.SearchResult{Score: float64(10 - i)}
	}

	tests := []struct {
		name     string
		offset   int
		limit    int
		expected int
	}{
		{"no pagination", 0, 20, 10},
		{"limit only", 0, 5, 5},
		{"offset only", 3, 20, 7},
		{"offset and limit", 2, 3, 3},
		{"offset beyond length", 15, 5, 0},
		{"partial end", 8, 5, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, applyPagination(results, tt.offset, tt.limit), tt.expected)
		})
	}
}
