package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
)

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns search results with marked snippets", func(t *testing.T) {
		mockSearch := &mockSearchService{
			results: []domain.SearchResult{
				{
					Document: domain.Document{
						ID:        "doc-1",
						ProjectID: "proj-1",
						Title:     "03 30 00 Cast-in-Place Concrete",
						URI:       "/specs/033000.md",
					},
					Chunk:       domain.Chunk{ID: "chunk-1", Content: "Provide concrete with 28-day strength."},
					Score:       0.95,
					ProjectName: "HT-01 - Harbour Tower",
					Snippets: []domain.Snippet{{
						Text:  "Provide concrete with 28-day strength.",
						Spans: []domain.MatchSpan{{Start: 8, End: 16, Kind: domain.TermKindSearch}},
					}},
				},
			},
		}

		server := newTestServer(t, &Ports{Search: mockSearch})

		input := SearchInput{Query: "concrete", Limit: 5, ProjectIDs: []string{"proj-1"}, WholeWords: true}
		_, output, err := server.handleSearch(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		require.Len(t, output.Results, 1)
		result := output.Results[0]
		assert.Equal(t, "doc-1", result.DocumentID)
		assert.Equal(t, "proj-1", result.ProjectID)
		assert.Equal(t, "HT-01 - Harbour Tower", result.Project)
		assert.Equal(t, "/specs/033000.md", result.URI)
		assert.Equal(t, 0.95, result.Score)
		assert.Equal(t, []string{"Provide [[concrete]]{search} with 28-day strength."}, result.Marked)

		assert.Equal(t, "concrete", mockSearch.lastQuery)
		assert.Equal(t, 5, mockSearch.lastOpts.Limit)
		assert.Equal(t, []string{"proj-1"}, mockSearch.lastOpts.ProjectIDs)
		require.NotNil(t, mockSearch.lastOpts.Match)
		assert.True(t, mockSearch.lastOpts.Match.WholeWordsOnly)
		assert.False(t, mockSearch.lastOpts.Match.CaseSensitive)
	})

	t.Run("default limit is 10", func(t *testing.T) {
		mockSearch := &mockSearchService{}
		server := newTestServer(t, &Ports{Search: mockSearch})

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "test"})

		require.NoError(t, err)
		assert.Equal(t, 0, output.Count)
		assert.NotNil(t, output.Results)
		assert.Equal(t, 10, mockSearch.lastOpts.Limit)
	})

	t.Run("invalid snippet span is reported", func(t *testing.T) {
		mockSearch := &mockSearchService{
			results: []domain.SearchResult{{
				Snippets: []domain.Snippet{{Text: "short", Spans: []domain.MatchSpan{{Start: 2, End: 40}}}},
			}},
		}
		server := newTestServer(t, &Ports{Search: mockSearch})

		_, _, err := server.handleSearch(ctx, nil, SearchInput{Query: "x"})

		assert.ErrorIs(t, err, domain.ErrInvalidSpan)
	})

	t.Run("returns error on search failure", func(t *testing.T) {
		mockSearch := &mockSearchService{err: errors.New("search failed")}
		server := newTestServer(t, &Ports{Search: mockSearch})

		_, _, err := server.handleSearch(ctx, nil, SearchInput{Query: "test"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "search failed")
	})
}

func TestServer_handleHighlight(t *testing.T) {
	ctx := context.Background()
	const text = "Fire rating of gypsum board"

	tests := []struct {
		name       string
		input      HighlightInput
		wantMarked string
		wantCount  int
		wantErr    error
	}{
		{
			name:       "query with phrase and word",
			input:      HighlightInput{Text: text, Query: `"fire rating" gypsum`},
			wantMarked: "[[Fire rating]]{phrase} of [[gypsum]]{search} board",
			wantCount:  2,
		},
		{
			name:       "explicit terms with kind",
			input:      HighlightInput{Text: text, Terms: []TermInput{{Text: "board", Kind: "entity"}}},
			wantMarked: "Fire rating of gypsum [[board]]{entity}",
			wantCount:  1,
		},
		{
			name:       "case sensitive misses",
			input:      HighlightInput{Text: text, Query: "fire", CaseSensitive: true},
			wantMarked: text,
			wantCount:  0,
		},
		{
			name:       "max matches caps spans",
			input:      HighlightInput{Text: text, Query: "fire gypsum board", MaxMatches: 1},
			wantMarked: "[[Fire]]{search} rating of gypsum board",
			wantCount:  1,
		},
		{
			name: "html format",
			input: HighlightInput{
				Text: "A & B", Terms: []TermInput{{Text: "B"}}, Format: "HTML",
			},
			wantMarked: `A &amp; <mark class="hl hl-search" data-kind="search">B</mark>`,
			wantCount:  1,
		},
		{
			name:    "no terms",
			input:   HighlightInput{Text: text},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "unsupported format",
			input:   HighlightInput{Text: text, Query: "fire", Format: "ansi"},
			wantErr: domain.ErrUnsupportedType,
		},
	}

	server := newTestServer(t, &Ports{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, output, err := server.handleHighlight(ctx, nil, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMarked, output.Marked)
			assert.Equal(t, tt.wantCount, output.Count)
			assert.Len(t, output.Spans, tt.wantCount)
		})
	}
}
