package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	assert.NotEmpty(t, string(theme.Primary))
	assert.NotEmpty(t, string(theme.Foreground))
	assert.NotEmpty(t, string(theme.Current))
	for _, kind := range domain.BuiltinTermKinds() {
		assert.Contains(t, theme.Marks, kind, "missing mark colour for %s", kind)
	}
}

func TestDefaultTheme_MarkColoursAreDistinct(t *testing.T) {
	theme := DefaultTheme()

	seen := make(map[lipgloss.Color]domain.TermKind)
	for kind, c := range theme.Marks {
		other, dup := seen[c]
		assert.False(t, dup, "%s and %s share a colour", kind, other)
		seen[c] = kind
	}
	assert.NotContains(t, seen, theme.Current)
}

func TestNewStyles(t *testing.T) {
	t.Run("with theme", func(t *testing.T) {
		theme := DefaultTheme()
		s := NewStyles(theme)
		require.NotNil(t, s)
		assert.Equal(t, theme, s.Theme())
	})

	t.Run("nil theme falls back to default", func(t *testing.T) {
		s := NewStyles(nil)
		require.NotNil(t, s)
		assert.NotNil(t, s.Theme())
	})
}

func TestStyles_CanRenderText(t *testing.T) {
	s := DefaultStyles()

	testCases := []struct {
		name  string
		style lipgloss.Style
	}{
		{"Title", s.Title},
		{"Normal", s.Normal},
		{"Muted", s.Muted},
		{"Selected", s.Selected},
		{"Error", s.Error},
		{"CurrentMark", s.CurrentMark},
		{"Phrase", s.Mark(domain.TermKindPhrase)},
		{"Entity", s.Mark(domain.TermKindEntity)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Contains(t, tc.style.Render("test text"), "test text")
		})
	}
}

func TestStyles_Mark(t *testing.T) {
	s := DefaultStyles()

	assert.Equal(t, s.Mark(domain.TermKindSearch), s.Mark(""))
	assert.Equal(t, s.Mark(domain.TermKindSearch), s.Mark("spec-section"))
}

func TestStyles_Highlight(t *testing.T) {
	s := DefaultStyles()
	text := "Fire rating of gypsum board"
	spans := []domain.MatchSpan{
		{Start: 0, End: 11, Kind: domain.TermKindPhrase},
		{Start: 15, End: 21, Kind: domain.TermKindSearch},
	}

	testCases := []struct {
		name    string
		spans   []domain.MatchSpan
		current int
	}{
		{"no spans", nil, -1},
		{"two spans", spans, -1},
		{"focused second span", spans, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := s.Highlight(text, tc.spans, tc.current)
			assert.Contains(t, out, "Fire rating")
			assert.Contains(t, out, "gypsum")
			assert.Contains(t, out, " board")
		})
	}

	t.Run("invalid spans return text unchanged", func(t *testing.T) {
		bad := []domain.MatchSpan{{Start: 5, End: 99}}
		assert.Equal(t, text, s.Highlight(text, bad, -1))
	})
}
