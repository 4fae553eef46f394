package render

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
	"github.com/custodia-labs/scopeiq-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scopeiq-cli/internal/highlight"
)

// Ensure ANSIRenderer implements the interface.
var _ driven.Renderer = (*ANSIRenderer)(nil)

// ANSIRenderer styles highlighted segments with terminal escape codes.
// Without colour support it returns the text unchanged.
type ANSIRenderer struct {
	caps     domain.Capabilities
	renderer *lipgloss.Renderer
	styles   map[domain.TermKind]lipgloss.Style
}

// NewANSI creates a renderer for the given terminal capabilities.
func NewANSI(caps domain.Capabilities) *ANSIRenderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(profileFor(caps))
	r.SetHasDarkBackground(caps.DarkBackground)

	styles := make(map[domain.TermKind]lipgloss.Style, len(palette))
	for kind, c := range palette {
		fg := lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#F9FAFB"}
		styles[kind] = r.NewStyle().Background(c.adaptive()).Foreground(fg).Bold(c.bold)
	}

	return &ANSIRenderer{caps: caps, renderer: r, styles: styles}
}

// profileFor maps a colour level to a termenv profile.
func profileFor(caps domain.Capabilities) termenv.Profile {
	if !caps.SupportsColor() {
		return termenv.Ascii
	}
	switch caps.Color {
	case domain.ColorTrueColor:
		return termenv.TrueColor
	case domain.ColorANSI256:
		return termenv.ANSI256
	default:
		return termenv.ANSI
	}
}

// Format returns the ANSI format.
func (r *ANSIRenderer) Format() domain.RenderFormat {
	return domain.RenderANSI
}

// StyleRules returns nil; terminal styles live in the escape codes.
func (r *ANSIRenderer) StyleRules() []domain.StyleRule {
	return nil
}

// Style returns the lipgloss style used for kind.
func (r *ANSIRenderer) Style(kind domain.TermKind) lipgloss.Style {
	if s, ok := r.styles[kind.OrDefault()]; ok {
		return s
	}
	return r.styles[domain.TermKindSearch]
}

// Render writes text with every span styled by its kind.
func (r *ANSIRenderer) Render(text string, spans []domain.MatchSpan) (string, error) {
	segments, err := highlight.Segments(text, spans)
	if err != nil {
		return "", err
	}
	if !r.caps.SupportsColor() {
		return text, nil
	}

	var b strings.Builder
	for _, seg := range segments {
		if !seg.Highlighted {
			b.WriteString(seg.Text)
			continue
		}
		b.WriteString(r.Style(seg.Kind).Render(seg.Text))
	}
	return b.String(), nil
}
