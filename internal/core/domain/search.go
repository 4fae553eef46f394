package domain

// DefaultSearchLimit is used when SearchOptions.Limit is not positive.
const DefaultSearchLimit = 20

// DefaultSnippetRadius is the number of bytes of context kept on each side
// of the first highlighted span in a snippet.
const DefaultSnippetRadius = 80

// SearchOptions configures a search query.
type SearchOptions struct {
	// Limit is the maximum number of results.
	Limit int

	// Offset is the number of results to skip.
	Offset int

	// ProjectIDs filters to specific projects.
	ProjectIDs []string

	// Match configures snippet highlighting. A zero value means defaults.
	Match *MatchOptions

	// SnippetRadius overrides DefaultSnippetRadius when positive.
	SnippetRadius int
}

// Snippet is an excerpt of a chunk with spans relative to Text.
type Snippet struct {
	// Text is the excerpt, possibly with leading/trailing ellipses.
	Text string `json:"text"`

	// Spans are highlight spans with offsets into Text.
	Spans []MatchSpan `json:"spans,omitempty"`
}

// SearchResult represents a single search hit.
type SearchResult struct {
	// Document is the matched document.
	Document Document

	// Chunk is the specific chunk that matched.
	Chunk Chunk

	// Score is the relevance score.
	Score float64

	// Spans are highlight spans over Chunk.Content.
	Spans []MatchSpan

	// Snippets contains excerpts with matched terms.
	Snippets []Snippet

	// ProjectName is the display name of the project.
	ProjectName string
}
