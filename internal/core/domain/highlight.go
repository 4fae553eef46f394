package domain

// TermKind tags a search term with a semantic category used for styling.
// Any non-empty value is accepted; the constants below are the built-in kinds.
type TermKind string

// Built-in term kinds.
const (
	// TermKindSearch is a loose keyword typed by the user.
	TermKindSearch TermKind = "search"

	// TermKindPhrase is a quoted phrase from a query.
	TermKindPhrase TermKind = "phrase"

	// TermKindEntity is a named entity (trade, material, party, location).
	TermKindEntity TermKind = "entity"

	// TermKindCustom is a caller-defined term.
	TermKindCustom TermKind = "custom"
)

// String returns the string representation.
func (k TermKind) String() string {
	return string(k)
}

// OrDefault returns k, or TermKindSearch when k is empty.
func (k TermKind) OrDefault() TermKind {
	if k == "" {
		return TermKindSearch
	}
	return k
}

// BuiltinTermKinds returns the built-in kinds in display order.
func BuiltinTermKinds() []TermKind {
	return []TermKind{TermKindPhrase, TermKindSearch, TermKindEntity, TermKindCustom}
}

// SearchTerm is a literal string to highlight. Terms are matched as plain
// text, never as patterns.
type SearchTerm struct {
	// Text is the literal to find. Empty text never matches.
	Text string `json:"text" yaml:"text"`

	// Kind is copied onto every span produced by this term.
	Kind TermKind `json:"kind,omitempty" yaml:"kind,omitempty"`
}

// MatchOptions controls how terms are matched against text.
type MatchOptions struct {
	// CaseSensitive disables simple case folding when true.
	CaseSensitive bool `json:"case_sensitive" yaml:"case_sensitive"`

	// WholeWordsOnly rejects matches that start or end inside a word.
	WholeWordsOnly bool `json:"whole_words_only" yaml:"whole_words_only"`

	// MaxMatches caps the number of spans returned after merging.
	// Zero or negative yields no spans.
	MaxMatches int `json:"max_matches" yaml:"max_matches"`
}

// DefaultMaxMatches is the span cap used by DefaultMatchOptions.
const DefaultMaxMatches = 50

// DefaultMatchOptions returns case-insensitive, substring matching capped at
// DefaultMaxMatches spans.
func DefaultMatchOptions() MatchOptions {
	return MatchOptions{
		CaseSensitive:  false,
		WholeWordsOnly: false,
		MaxMatches:     DefaultMaxMatches,
	}
}

// MatchSpan is a half-open byte range [Start, End) into the original text.
type MatchSpan struct {
	Start           int      `json:"start" yaml:"start"`
	End             int      `json:"end" yaml:"end"`
	SourceTermIndex int      `json:"term_index" yaml:"term_index"`
	Kind            TermKind `json:"kind,omitempty" yaml:"kind,omitempty"`
}

// Len returns the span length in bytes.
func (s MatchSpan) Len() int {
	return s.End - s.Start
}

// Overlaps reports whether s and o share at least one offset.
func (s MatchSpan) Overlaps(o MatchSpan) bool {
	return s.Start < o.End && o.Start < s.End
}

// Segment is a contiguous slice of text, either plain or highlighted.
type Segment struct {
	Text        string
	Start       int
	End         int
	Highlighted bool
	Kind        TermKind
}
