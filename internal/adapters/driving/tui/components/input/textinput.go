// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driving/tui/styles"
)

const (
	queryCharLimit = 256
	minInputWidth  = 20
)

// SearchInput is a single-line query field.
type SearchInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
}

// NewSearchInput creates a focused query field.
func NewSearchInput(s *styles.Styles) *SearchInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = `fire rating "gypsum board"`
	ti.Prompt = "› "
	ti.Focus()
	ti.CharLimit = queryCharLimit
	ti.Width = 50

	return &SearchInput{
		textinput: ti,
		styles:    s,
		width:     50,
	}
}

// Init starts the cursor blinking.
func (s *SearchInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update forwards msg to the underlying text input.
func (s *SearchInput) Update(msg tea.Msg) (*SearchInput, tea.Cmd) {
	var cmd tea.Cmd
	s.textinput, cmd = s.textinput.Update(msg)
	return s, cmd
}

// View renders the labelled field.
func (s *SearchInput) View() string {
	label := s.styles.Title.Render("Query ")
	field := s.styles.InputField.Render(s.textinput.View())
	//nolint:misspell // lipgloss.Center is the library's spelling
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

func (s *SearchInput) Value() string         { return s.textinput.Value() }
func (s *SearchInput) SetValue(value string) { s.textinput.SetValue(value) }
func (s *SearchInput) Focus() tea.Cmd        { return s.textinput.Focus() }
func (s *SearchInput) Blur()                 { s.textinput.Blur() }
func (s *SearchInput) Focused() bool         { return s.textinput.Focused() }
func (s *SearchInput) Width() int            { return s.width }
func (s *SearchInput) Reset()                { s.textinput.Reset() }

// SetWidth sizes the field to width minus the label and border.
func (s *SearchInput) SetWidth(width int) {
	s.width = width
	s.textinput.Width = max(width-12, minInputWidth)
}
