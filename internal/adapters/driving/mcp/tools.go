package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
)

// defaultSearchLimit applies when a search call gives no limit.
const defaultSearchLimit = 10

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query         string   `json:"query" jsonschema:"the search query; quoted phrases are matched as a unit"`
	Limit         int      `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
	ProjectIDs    []string `json:"project_ids,omitempty" jsonschema:"restrict results to these project IDs"`
	CaseSensitive bool     `json:"case_sensitive,omitempty" jsonschema:"highlight with exact case"`
	WholeWords    bool     `json:"whole_words,omitempty" jsonschema:"only highlight whole words"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	DocumentID string           `json:"document_id"`
	ProjectID  string           `json:"project_id"`
	Project    string           `json:"project,omitempty"`
	Title      string           `json:"title"`
	URI        string           `json:"uri"`
	Score      float64          `json:"score"`
	Snippets   []domain.Snippet `json:"snippets,omitempty"`
	Marked     []string         `json:"marked,omitempty"`
}

// TermInput is a literal term with an optional kind.
type TermInput struct {
	Text string `json:"text" jsonschema:"literal text to find"`
	Kind string `json:"kind,omitempty" jsonschema:"phrase, search, entity or custom (default search)"`
}

// HighlightInput is the input schema for the highlight tool.
type HighlightInput struct {
	Text          string      `json:"text" jsonschema:"the text to search"`
	Query         string      `json:"query,omitempty" jsonschema:"free-text query; quoted phrases stay together"`
	Terms         []TermInput `json:"terms,omitempty" jsonschema:"explicit terms, matched after query terms"`
	CaseSensitive bool        `json:"case_sensitive,omitempty" jsonschema:"match exact case"`
	WholeWords    bool        `json:"whole_words,omitempty" jsonschema:"only match whole words"`
	MaxMatches    int         `json:"max_matches,omitempty" jsonschema:"maximum number of matches (default 50)"`
	Format        string      `json:"format,omitempty" jsonschema:"markup for the marked text: plain or html (default plain)"`
}

// HighlightOutput is the output schema for the highlight tool.
type HighlightOutput struct {
	Spans  []domain.MatchSpan `json:"spans"`
	Count  int                `json:"count"`
	Marked string             `json:"marked"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search imported project documents and return highlighted snippets",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "highlight",
		Description: "Find terms in text and return match spans and marked-up text",
	}, s.handleHighlight)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	match := domain.DefaultMatchOptions()
	match.CaseSensitive = input.CaseSensitive
	match.WholeWordsOnly = input.WholeWords

	opts := domain.SearchOptions{
		Limit:      limit,
		ProjectIDs: input.ProjectIDs,
		Match:      &match,
	}
	results, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		r := &results[i]
		out := SearchResultOutput{
			DocumentID: r.Document.ID,
			ProjectID:  r.Document.ProjectID,
			Project:    r.ProjectName,
			Title:      r.Document.Title,
			URI:        r.Document.URI,
			Score:      r.Score,
			Snippets:   r.Snippets,
		}
		for _, snippet := range r.Snippets {
			marked, err := s.ports.Highlight.Render(snippet.Text, snippet.Spans, domain.RenderPlain)
			if err != nil {
				return nil, SearchOutput{}, err
			}
			out.Marked = append(out.Marked, marked)
		}
		output.Results[i] = out
	}

	return nil, output, nil
}

// handleHighlight handles the highlight tool invocation.
func (s *Server) handleHighlight(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input HighlightInput,
) (*mcp.CallToolResult, HighlightOutput, error) {
	format := domain.RenderPlain
	if input.Format != "" {
		format = domain.RenderFormat(strings.ToLower(input.Format))
	}
	if format != domain.RenderPlain && format != domain.RenderHTML {
		return nil, HighlightOutput{}, fmt.Errorf("format %q: %w", input.Format, domain.ErrUnsupportedType)
	}

	opts := domain.DefaultMatchOptions()
	opts.CaseSensitive = input.CaseSensitive
	opts.WholeWordsOnly = input.WholeWords
	if input.MaxMatches > 0 {
		opts.MaxMatches = input.MaxMatches
	}

	var terms []domain.SearchTerm
	if strings.TrimSpace(input.Query) != "" {
		terms = append(terms, s.ports.Highlight.ParseQuery(input.Query, opts.CaseSensitive)...)
	}
	for _, t := range input.Terms {
		terms = append(terms, domain.SearchTerm{Text: t.Text, Kind: domain.TermKind(t.Kind)})
	}
	if len(terms) == 0 {
		return nil, HighlightOutput{}, fmt.Errorf("query or terms required: %w", domain.ErrInvalidInput)
	}

	spans := s.ports.Highlight.Find(input.Text, terms, opts)
	if spans == nil {
		spans = []domain.MatchSpan{}
	}
	marked, err := s.ports.Highlight.Render(input.Text, spans, format)
	if err != nil {
		return nil, HighlightOutput{}, err
	}

	return nil, HighlightOutput{
		Spans:  spans,
		Count:  len(spans),
		Marked: marked,
	}, nil
}
