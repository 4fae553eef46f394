package render

import (
	"fmt"
	"strconv"
	"strings"

	xhtml "golang.org/x/net/html"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
	"github.com/custodia-labs/scopeiq-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scopeiq-cli/internal/highlight"
)

// Ensure HTMLRenderer implements the interface.
var _ driven.Renderer = (*HTMLRenderer)(nil)

// markClass is the class carried by every highlight element.
const markClass = "hl"

// HTMLRenderer escapes text and wraps spans in <mark> elements whose
// classes name the term kind.
type HTMLRenderer struct{}

// NewHTML creates an HTML renderer.
func NewHTML() *HTMLRenderer {
	return &HTMLRenderer{}
}

// Format returns the HTML format.
func (r *HTMLRenderer) Format() domain.RenderFormat {
	return domain.RenderHTML
}

// StyleRules declares the base mark rule and one rule per built-in kind.
func (r *HTMLRenderer) StyleRules() []domain.StyleRule {
	rules := []domain.StyleRule{{
		Selector:     "mark." + markClass,
		Declarations: []string{"padding: 0 1px", "border-radius: 2px", "color: inherit"},
	}}
	for _, kind := range domain.BuiltinTermKinds() {
		c := colorFor(kind)
		decls := []string{"background-color: " + c.light}
		if c.bold {
			decls = append(decls, "font-weight: bold")
		}
		rules = append(rules, domain.StyleRule{
			Selector:     "mark." + kindClass(kind),
			Declarations: decls,
		})
	}
	return rules
}

// Render writes escaped text with each span wrapped in a mark element.
func (r *HTMLRenderer) Render(text string, spans []domain.MatchSpan) (string, error) {
	segments, err := highlight.Segments(text, spans)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, seg := range segments {
		if !seg.Highlighted {
			b.WriteString(xhtml.EscapeString(seg.Text))
			continue
		}
		fmt.Fprintf(&b, `<mark class="%s %s" data-kind="%s">%s</mark>`,
			markClass, kindClass(seg.Kind), xhtml.EscapeString(seg.Kind.OrDefault().String()),
			xhtml.EscapeString(seg.Text))
	}
	return b.String(), nil
}

// kindClass returns a class name for kind. Characters outside
// [A-Za-z0-9_-] are replaced so any kind yields a valid class.
func kindClass(kind domain.TermKind) string {
	name := kind.OrDefault().String()
	var b strings.Builder
	b.WriteString(markClass + "-")
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteString("_" + strconv.FormatInt(int64(r), 16))
		}
	}
	return b.String()
}
