package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
)

// kindColor is the highlight background for one term kind.
type kindColor struct {
	light string
	dark  string
	bold  bool
}

var palette = map[domain.TermKind]kindColor{
	domain.TermKindSearch: {light: "#FDE68A", dark: "#A16207"},
	domain.TermKindPhrase: {light: "#FDBA74", dark: "#C2410C", bold: true},
	domain.TermKindEntity: {light: "#A5F3FC", dark: "#0E7490"},
	domain.TermKindCustom: {light: "#DDD6FE", dark: "#6D28D9"},
}

// colorFor returns the colours for kind, defaulting to the search colours.
func colorFor(kind domain.TermKind) kindColor {
	if c, ok := palette[kind.OrDefault()]; ok {
		return c
	}
	return palette[domain.TermKindSearch]
}

// adaptive returns the lipgloss colour pair for kind.
func (c kindColor) adaptive() lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: c.light, Dark: c.dark}
}
