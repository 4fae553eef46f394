package render

import (
	"strings"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
	"github.com/custodia-labs/scopeiq-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scopeiq-cli/internal/highlight"
)

// Ensure PlainRenderer implements the interface.
var _ driven.Renderer = (*PlainRenderer)(nil)

// PlainRenderer annotates spans as [[text]]{kind}, for logs and pipes.
type PlainRenderer struct{}

// NewPlain creates a plain annotation renderer.
func NewPlain() *PlainRenderer {
	return &PlainRenderer{}
}

// Format returns the plain format.
func (r *PlainRenderer) Format() domain.RenderFormat {
	return domain.RenderPlain
}

// StyleRules returns nil.
func (r *PlainRenderer) StyleRules() []domain.StyleRule {
	return nil
}

// Render writes text with each span bracketed and tagged with its kind.
func (r *PlainRenderer) Render(text string, spans []domain.MatchSpan) (string, error) {
	segments, err := highlight.Segments(text, spans)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, seg := range segments {
		if !seg.Highlighted {
			b.WriteString(seg.Text)
			continue
		}
		b.WriteString("[[")
		b.WriteString(seg.Text)
		b.WriteString("]]{")
		b.WriteString(seg.Kind.String())
		b.WriteString("}")
	}
	return b.String(), nil
}
