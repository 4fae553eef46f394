// Package doccontent provides the document content view with highlighted
// matches and match-to-match navigation.
package doccontent

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
	"github.com/custodia-labs/scopeiq-cli/internal/core/ports/driving"
)

// ErrNoDocumentService indicates that no document service was provided.
var ErrNoDocumentService = errors.New("document service not available")

// line is a display line as a byte range of the content.
type line struct {
	start, end int
}

// View shows a document's normalised text. When opened with a query, every
// match is highlighted and n/N move between them.
type View struct {
	styles           *styles.Styles
	keymap           *keymap.KeyMap
	statusbar        *status.Bar
	documentService  driving.DocumentService
	highlightService driving.HighlightService
	actionService    driving.ResultActionService
	match            domain.MatchOptions
	ctx              context.Context

	document     *domain.Document
	query        string
	back         messages.ViewType
	content      string
	lines        []line
	spans        []domain.MatchSpan
	current      int
	scrollOffset int
	width        int
	height       int
	err          error
	loading      bool
}

// NewView creates a new document content view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	documentService driving.DocumentService,
	highlightService driving.HighlightService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:           s,
		keymap:           km,
		statusbar:        status.NewBar(s, km),
		documentService:  documentService,
		highlightService: highlightService,
		match:            domain.DefaultMatchOptions(),
		ctx:              context.Background(),
		back:             messages.ViewDocuments,
		width:            80,
		height:           24,
	}
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetMatchOptions sets the options used to find query matches.
func (v *View) SetMatchOptions(opts domain.MatchOptions) {
	v.match = opts
}

// SetActionService enables copying the focused line.
func (v *View) SetActionService(svc driving.ResultActionService) {
	v.actionService = svc
}

// SetDocument shows doc, highlighting query when non-empty. Esc returns to back.
func (v *View) SetDocument(doc domain.Document, query string, back messages.ViewType) tea.Cmd {
	v.document = &doc
	v.query = query
	v.back = back
	v.content = ""
	v.lines = nil
	v.spans = nil
	v.current = 0
	v.scrollOffset = 0
	v.err = nil
	v.loading = true
	v.statusbar.Clear()
	v.statusbar.SetState(status.StateReading)
	return v.loadContent()
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

func (v *View) loadContent() tea.Cmd {
	svc := v.documentService
	ctx := v.ctx
	id := v.document.ID
	return func() tea.Msg {
		if svc == nil {
			return messages.DocumentContentLoaded{DocumentID: id, Err: ErrNoDocumentService}
		}
		content, err := svc.GetContent(ctx, id)
		return messages.DocumentContentLoaded{DocumentID: id, Content: content, Err: err}
	}
}

// Update handles messages for the document content view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.DocumentContentLoaded:
		if v.document == nil || msg.DocumentID != v.document.ID {
			return v, nil
		}
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.content = msg.Content
			v.findMatches()
			v.wrapContent()
			v.focusCurrent()
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) findMatches() {
	v.spans = nil
	v.current = 0
	if v.highlightService != nil && strings.TrimSpace(v.query) != "" {
		v.spans = v.highlightService.FindQuery(v.content, v.query, v.match)
	}
	v.statusbar.SetMatch(0, len(v.spans))
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Up):
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case keymap.Matches(key, v.keymap.Down):
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case keymap.Matches(key, v.keymap.NextMatch):
		v.step(1)
	case keymap.Matches(key, v.keymap.PrevMatch):
		v.step(-1)
	case keymap.Matches(key, v.keymap.Copy):
		v.copyCurrentLine()
	case keymap.Matches(key, v.keymap.Back):
		back := v.back
		return v, func() tea.Msg {
			return messages.ViewChanged{View: back}
		}
	default:
		switch key {
		case "pgup", "ctrl+u":
			v.scrollOffset = max(v.scrollOffset-v.visibleLines(), 0)
		case "pgdown", "ctrl+d":
			v.scrollOffset = min(v.scrollOffset+v.visibleLines(), v.maxScrollOffset())
		case "home", "g":
			v.scrollOffset = 0
		case "end", "G":
			v.scrollOffset = v.maxScrollOffset()
		}
	}
	return v, nil
}

// step moves the focused match by delta, wrapping at either end.
func (v *View) step(delta int) {
	if len(v.spans) == 0 {
		return
	}
	v.current = (v.current + delta + len(v.spans)) % len(v.spans)
	v.statusbar.SetMatch(v.current, len(v.spans))
	v.focusCurrent()
}

// focusCurrent scrolls so the focused match is visible.
func (v *View) focusCurrent() {
	if len(v.spans) == 0 || len(v.lines) == 0 {
		return
	}
	idx := v.lineOf(v.spans[v.current].Start)
	visible := v.visibleLines()
	if idx < v.scrollOffset || idx >= v.scrollOffset+visible {
		v.scrollOffset = min(max(idx-visible/3, 0), v.maxScrollOffset())
	}
}

// lineOf returns the index of the display line containing offset.
func (v *View) lineOf(offset int) int {
	i := sort.Search(len(v.lines), func(i int) bool { return v.lines[i].end > offset })
	return min(i, len(v.lines)-1)
}

func (v *View) copyCurrentLine() {
	if v.document == nil || v.content == "" {
		return
	}
	if v.actionService == nil {
		v.statusbar.SetMessage("Copy not available")
		return
	}

	text := v.content
	if len(v.spans) > 0 {
		ln := v.lines[v.lineOf(v.spans[v.current].Start)]
		text = v.content[ln.start:ln.end]
	}
	result := &domain.SearchResult{Document: *v.document, Chunk: domain.Chunk{DocumentID: v.document.ID, Content: text}}
	if err := v.actionService.CopyToClipboard(v.ctx, result); err != nil {
		v.err = err
		return
	}
	v.statusbar.SetMessage("Copied to clipboard")
}

// wrapContent splits the content into display lines no wider than the view.
// Breaks fall on rune boundaries.
func (v *View) wrapContent() {
	v.lines = nil
	if v.content == "" {
		return
	}

	width := max(v.width-4, 20)
	start := 0
	for start <= len(v.content) {
		nl := strings.IndexByte(v.content[start:], '\n')
		end := len(v.content)
		if nl >= 0 {
			end = start + nl
		}
		for end-start > width {
			cut := start + width
			for cut > start && !utf8.RuneStart(v.content[cut]) {
				cut--
			}
			v.lines = append(v.lines, line{start: start, end: cut})
			start = cut
		}
		v.lines = append(v.lines, line{start: start, end: end})
		if nl < 0 {
			break
		}
		start = end + 1
	}
}

// lineSpans returns the parts of the spans inside ln, relative to ln.start,
// and the index of the focused match's part or -1.
func (v *View) lineSpans(ln line) ([]domain.MatchSpan, int) {
	var out []domain.MatchSpan
	current := -1
	for i, s := range v.spans {
		if s.End <= ln.start {
			continue
		}
		if s.Start >= ln.end {
			break
		}
		part := s
		part.Start = max(s.Start, ln.start) - ln.start
		part.End = min(s.End, ln.end) - ln.start
		if part.Start >= part.End {
			continue
		}
		if i == v.current {
			current = len(out)
		}
		out = append(out, part)
	}
	return out, current
}

func (v *View) visibleLines() int {
	return max(v.height-7, 1)
}

func (v *View) maxScrollOffset() int {
	return max(len(v.lines)-v.visibleLines(), 0)
}

// View renders the document content view.
func (v *View) View() string {
	var b strings.Builder

	title := "Document"
	if v.document != nil {
		title = v.document.Title
		if title == "" {
			title = v.document.ID
		}
	}
	b.WriteString(v.styles.Title.Render(title))
	if v.query != "" {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  matching %q", v.query)))
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", min(max(v.width-4, 0), 60)))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading content..."))
		b.WriteString("\n")
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	case len(v.lines) == 0:
		b.WriteString(v.styles.Muted.Render("(No content)"))
		b.WriteString("\n")
	default:
		end := min(v.scrollOffset+v.visibleLines(), len(v.lines))
		for _, ln := range v.lines[v.scrollOffset:end] {
			spans, current := v.lineSpans(ln)
			b.WriteString(v.styles.Highlight(v.content[ln.start:ln.end], spans, current))
			b.WriteString("\n")
		}
		if len(v.lines) > v.visibleLines() {
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  Line %d-%d of %d", v.scrollOffset+1, end, len(v.lines))))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(v.statusbar.View())
	return b.String()
}

// SetDimensions sets the view dimensions and rewraps the content.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.statusbar.SetWidth(width)
	v.wrapContent()
	v.focusCurrent()
}

// Document returns the current document.
func (v *View) Document() *domain.Document {
	return v.document
}

// Content returns the document content.
func (v *View) Content() string {
	return v.content
}

// Matches returns the highlighted spans over the content.
func (v *View) Matches() []domain.MatchSpan {
	return v.spans
}

// CurrentMatch returns the index of the focused match.
func (v *View) CurrentMatch() int {
	return v.current
}

// ScrollOffset returns the first visible line.
func (v *View) ScrollOffset() int {
	return v.scrollOffset
}

// Status returns the status bar message.
func (v *View) Status() string {
	return v.statusbar.Message()
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
