// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
	"github.com/custodia-labs/scopeiq-cli/internal/highlight"
)

// Theme defines the colour palette and styling for the TUI.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Secondary is the secondary accent colour.
	Secondary lipgloss.Color

	// Background is the background colour.
	Background lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Success indicates positive outcomes.
	Success lipgloss.Color

	// Warning indicates caution.
	Warning lipgloss.Color

	// Error indicates problems.
	Error lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color

	// Marks maps term kinds to their highlight background.
	Marks map[domain.TermKind]lipgloss.Color

	// Current is the background of the focused match.
	Current lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#7C3AED"), // Purple
		Secondary:  lipgloss.Color("#06B6D4"), // Cyan
		Background: lipgloss.Color("#1E1E2E"), // Dark gray
		Foreground: lipgloss.Color("#CDD6F4"), // Light gray
		Muted:      lipgloss.Color("#6C7086"), // Medium gray
		Success:    lipgloss.Color("#A6E3A1"), // Green
		Warning:    lipgloss.Color("#F9E2AF"), // Yellow
		Error:      lipgloss.Color("#F38BA8"), // Red
		Border:     lipgloss.Color("#45475A"), // Border gray
		Marks: map[domain.TermKind]lipgloss.Color{
			domain.TermKindSearch: lipgloss.Color("#A16207"),
			domain.TermKindPhrase: lipgloss.Color("#C2410C"),
			domain.TermKindEntity: lipgloss.Color("#0E7490"),
			domain.TermKindCustom: lipgloss.Color("#6D28D9"),
		},
		Current: lipgloss.Color("#F43F5E"),
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	// Title style for headers.
	Title lipgloss.Style

	// Subtitle style for secondary headers.
	Subtitle lipgloss.Style

	// Normal style for regular text.
	Normal lipgloss.Style

	// Muted style for less important text.
	Muted lipgloss.Style

	// Selected style for highlighted items.
	Selected lipgloss.Style

	// Error style for error messages.
	Error lipgloss.Style

	// Success style for success messages.
	Success lipgloss.Style

	// Warning style for warning messages.
	Warning lipgloss.Style

	// InputField style for input areas.
	InputField lipgloss.Style

	// StatusBar style for the status bar.
	StatusBar lipgloss.Style

	// Help style for help text.
	Help lipgloss.Style

	// Border style for bordered containers.
	Border lipgloss.Style

	// CurrentMark style for the focused match in a document.
	CurrentMark lipgloss.Style

	marks map[domain.TermKind]lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	marks := make(map[domain.TermKind]lipgloss.Style, len(theme.Marks))
	for kind, bg := range theme.Marks {
		st := lipgloss.NewStyle().Foreground(lipgloss.Color("#F9FAFB")).Background(bg)
		if kind == domain.TermKindPhrase {
			st = st.Bold(true)
		}
		marks[kind] = st
	}

	return &Styles{
		theme: theme,
		marks: marks,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground).
			Background(theme.Primary),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(lipgloss.Color("#181825")).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),

		CurrentMark: lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(lipgloss.Color("#F9FAFB")).
			Background(theme.Current),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Mark returns the highlight style for kind. Unknown kinds use the search style.
func (s *Styles) Mark(kind domain.TermKind) lipgloss.Style {
	if st, ok := s.marks[kind.OrDefault()]; ok {
		return st
	}
	if st, ok := s.marks[domain.TermKindSearch]; ok {
		return st
	}
	return s.Normal
}

// Highlight styles the spans of text by kind. The span at index current, if
// any, uses CurrentMark. Invalid spans leave the text unstyled.
func (s *Styles) Highlight(text string, spans []domain.MatchSpan, current int) string {
	segments, err := highlight.Segments(text, spans)
	if err != nil {
		return text
	}

	var b strings.Builder
	idx := 0
	for _, seg := range segments {
		if !seg.Highlighted {
			b.WriteString(seg.Text)
			continue
		}
		if idx == current {
			b.WriteString(s.CurrentMark.Render(seg.Text))
		} else {
			b.WriteString(s.Mark(seg.Kind).Render(seg.Text))
		}
		idx++
	}
	return b.String()
}
