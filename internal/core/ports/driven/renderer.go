package driven

import "github.com/custodia-labs/scopeiq-cli/internal/core/domain"

// Renderer turns text and its match spans into one output format.
// Implementations only read spans; they never reorder or re-derive them.
type Renderer interface {
	// Format returns the format this renderer produces.
	Format() domain.RenderFormat

	// StyleRules declares the style rules the output relies on.
	// Formats that need no style sheet return nil.
	StyleRules() []domain.StyleRule

	// Render produces the highlighted output.
	Render(text string, spans []domain.MatchSpan) (string, error)
}
