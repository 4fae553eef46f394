package domain

import (
	"slices"
	"strings"
)

// RenderFormat selects how highlighted text is written out.
type RenderFormat string

// Supported render formats.
const (
	RenderANSI  RenderFormat = "ansi"
	RenderHTML  RenderFormat = "html"
	RenderPlain RenderFormat = "plain"
	RenderJSON  RenderFormat = "json"
	RenderYAML  RenderFormat = "yaml"
)

// IsValid returns true if the format is recognised.
func (f RenderFormat) IsValid() bool {
	switch f {
	case RenderANSI, RenderHTML, RenderPlain, RenderJSON, RenderYAML:
		return true
	default:
		return false
	}
}

// IsMarkup returns true for formats produced by a Renderer rather than a
// structured encoder.
func (f RenderFormat) IsMarkup() bool {
	return f == RenderANSI || f == RenderHTML || f == RenderPlain
}

// String returns the string representation.
func (f RenderFormat) String() string {
	return string(f)
}

// AllRenderFormats returns every supported format.
func AllRenderFormats() []RenderFormat {
	return []RenderFormat{RenderANSI, RenderHTML, RenderPlain, RenderJSON, RenderYAML}
}

// StyleRule is one declarative style a renderer needs present in its host.
// Selector identifies the rule; two rules with the same selector are the same rule.
type StyleRule struct {
	Selector     string
	Declarations []string
}

// StyleSheet collects style rules so that each selector is present exactly
// once. The first declaration of a selector wins; later duplicates are
// ignored. The zero value is ready to use.
type StyleSheet struct {
	rules []StyleRule
	seen  map[string]struct{}
}

// Add registers rules, skipping selectors already present. It reports how
// many rules were added.
func (s *StyleSheet) Add(rules ...StyleRule) int {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	added := 0
	for _, r := range rules {
		if _, ok := s.seen[r.Selector]; ok {
			continue
		}
		s.seen[r.Selector] = struct{}{}
		s.rules = append(s.rules, StyleRule{Selector: r.Selector, Declarations: slices.Clone(r.Declarations)})
		added++
	}
	return added
}

// Rules returns the registered rules in registration order.
func (s *StyleSheet) Rules() []StyleRule {
	return slices.Clone(s.rules)
}

// Len returns the number of registered rules.
func (s *StyleSheet) Len() int {
	return len(s.rules)
}

// CSS writes the rules as a CSS style sheet, one rule per line.
func (s *StyleSheet) CSS() string {
	var b strings.Builder
	for _, r := range s.rules {
		b.WriteString(r.Selector)
		b.WriteString(" { ")
		for _, d := range r.Declarations {
			b.WriteString(strings.TrimSuffix(strings.TrimSpace(d), ";"))
			b.WriteString("; ")
		}
		b.WriteString("}\n")
	}
	return b.String()
}
