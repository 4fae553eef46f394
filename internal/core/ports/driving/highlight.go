package driving

import "github.com/custodia-labs/scopeiq-cli/internal/core/domain"

// HighlightService finds and renders search term matches in text.
type HighlightService interface {
	// Find returns the ordered, non-overlapping spans of terms in text.
	Find(text string, terms []domain.SearchTerm, opts domain.MatchOptions) []domain.MatchSpan

	// FindQuery parses a free-text query into terms and finds them in text.
	FindQuery(text, query string, opts domain.MatchOptions) []domain.MatchSpan

	// ParseQuery splits a query into terms, quoted phrases first. Terms
	// differing only in case are kept apart when caseSensitive is set.
	ParseQuery(query string, caseSensitive bool) []domain.SearchTerm

	// Render formats text with its spans highlighted.
	Render(text string, spans []domain.MatchSpan, format domain.RenderFormat) (string, error)

	// StyleSheet returns the style sheet a format's output relies on.
	// Formats without style rules return an empty string.
	StyleSheet(format domain.RenderFormat) (string, error)

	// Formats returns the markup formats that can be rendered.
	Formats() []domain.RenderFormat
}
