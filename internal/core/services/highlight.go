package services

import (
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
	"github.com/custodia-labs/scopeiq-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scopeiq-cli/internal/core/ports/driving"
	"github.com/custodia-labs/scopeiq-cli/internal/highlight"
	"github.com/custodia-labs/scopeiq-cli/internal/logger"
)

// Ensure HighlightService implements the interface.
var _ driving.HighlightService = (*HighlightService)(nil)

// HighlightService finds terms in text and renders the result.
type HighlightService struct {
	mu        sync.RWMutex
	renderers map[domain.RenderFormat]driven.Renderer
	formats   []domain.RenderFormat
}

// NewHighlightService creates a highlight service with the given renderers.
// A later renderer for the same format replaces an earlier one.
func NewHighlightService(renderers ...driven.Renderer) *HighlightService {
	s := &HighlightService{
		renderers: make(map[domain.RenderFormat]driven.Renderer),
	}
	for _, r := range renderers {
		s.RegisterRenderer(r)
	}
	return s
}

// RegisterRenderer adds or replaces the renderer for its format.
func (s *HighlightService) RegisterRenderer(r driven.Renderer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	format := r.Format()
	if _, ok := s.renderers[format]; !ok {
		s.formats = append(s.formats, format)
	}
	s.renderers[format] = r
}

// Find returns the ordered, non-overlapping spans of terms in text.
func (s *HighlightService) Find(text string, terms []domain.SearchTerm, opts domain.MatchOptions) []domain.MatchSpan {
	spans := highlight.FindMatches(text, terms, opts)
	logger.Debug("highlight: %d terms, %d spans in %d bytes", len(terms), len(spans), len(text))
	return spans
}

// FindQuery parses query and finds its terms in text.
func (s *HighlightService) FindQuery(text, query string, opts domain.MatchOptions) []domain.MatchSpan {
	return s.Find(text, parseQuery(query, opts.CaseSensitive), opts)
}

// ParseQuery splits a free-text query into terms.
func (s *HighlightService) ParseQuery(query string, caseSensitive bool) []domain.SearchTerm {
	return parseQuery(query, caseSensitive)
}

// Render formats text with spans using the renderer for format.
func (s *HighlightService) Render(text string, spans []domain.MatchSpan, format domain.RenderFormat) (string, error) {
	r, err := s.renderer(format)
	if err != nil {
		return "", err
	}
	out, err := r.Render(text, spans)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", format, err)
	}
	return out, nil
}

// StyleSheet returns the CSS a format's output relies on, each rule once.
func (s *HighlightService) StyleSheet(format domain.RenderFormat) (string, error) {
	r, err := s.renderer(format)
	if err != nil {
		return "", err
	}
	var sheet domain.StyleSheet
	sheet.Add(r.StyleRules()...)
	return sheet.CSS(), nil
}

// Formats returns the registered formats in registration order.
func (s *HighlightService) Formats() []domain.RenderFormat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.RenderFormat, len(s.formats))
	copy(out, s.formats)
	return out
}

func (s *HighlightService) renderer(format domain.RenderFormat) (driven.Renderer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.renderers[format]
	if !ok {
		return nil, fmt.Errorf("render format %q: %w", format, domain.ErrUnsupportedType)
	}
	return r, nil
}

// parseQuery returns quoted phrases first, then the remaining words, so
// that phrases win overlaps against their own words. Duplicate terms are
// dropped, keeping the first; they compare case-insensitively unless
// caseSensitive is set. An unmatched quote is treated as a word separator.
func parseQuery(query string, caseSensitive bool) []domain.SearchTerm {
	var phrases, words []string

	rest := query
	for {
		open := strings.IndexByte(rest, '"')
		if open < 0 {
			words = append(words, strings.Fields(rest)...)
			break
		}
		end := strings.IndexByte(rest[open+1:], '"')
		if end < 0 {
			words = append(words, strings.Fields(strings.ReplaceAll(rest, `"`, " "))...)
			break
		}
		words = append(words, strings.Fields(rest[:open])...)
		if phrase := strings.TrimSpace(rest[open+1 : open+1+end]); phrase != "" {
			phrases = append(phrases, phrase)
		}
		rest = rest[open+1+end+1:]
	}

	terms := make([]domain.SearchTerm, 0, len(phrases)+len(words))
	same := strings.EqualFold
	if caseSensitive {
		same = func(a, b string) bool { return a == b }
	}
	add := func(text string, kind domain.TermKind) {
		for _, t := range terms {
			if same(t.Text, text) {
				return
			}
		}
		terms = append(terms, domain.SearchTerm{Text: text, Kind: kind})
	}
	for _, p := range phrases {
		add(p, domain.TermKindPhrase)
	}
	for _, w := range words {
		add(w, domain.TermKindSearch)
	}
	return terms
}
