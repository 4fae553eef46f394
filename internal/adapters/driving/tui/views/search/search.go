// Package search provides the query and results view for the TUI.
package search

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
	"github.com/custodia-labs/scopeiq-cli/internal/core/ports/driving"
)

// Action is an entry in the result action menu.
type Action string

const (
	ActionView   Action = "View document"
	ActionCopy   Action = "Copy snippet"
	ActionOpen   Action = "Open file"
	ActionCancel Action = "Cancel"
)

var menuActions = []Action{ActionView, ActionCopy, ActionOpen, ActionCancel}

// actionMenu is the overlay shown when enter is pressed on a result.
type actionMenu struct {
	selected int
	result   *domain.SearchResult
}

// View is the search view: query input, highlighted results and a status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.SearchInput
	list      *list.ResultList
	statusbar *status.Bar

	searchService   driving.SearchService
	actionService   driving.ResultActionService
	documentService driving.DocumentService
	opts            domain.SearchOptions
	ctx             context.Context

	width      int
	height     int
	ready      bool
	err        error
	query      string
	focusInput bool
	menu       *actionMenu
}

// NewView creates a new search view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	searchService driving.SearchService,
	actionService driving.ResultActionService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewSearchInput(s),
		list:          list.NewResultList(s),
		statusbar:     status.NewBar(s, km),
		searchService: searchService,
		actionService: actionService,
		ctx:           context.Background(),
		width:         80,
		height:        24,
		focusInput:    true,
	}
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetOptions sets the options used for every query.
func (v *View) SetOptions(opts domain.SearchOptions) {
	v.opts = opts
}

// SetDocumentService enables prefetching result documents after a search.
func (v *View) SetDocumentService(svc driving.DocumentService) {
	v.documentService = svc
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		return v, v.handleSearchCompleted(msg)

	case messages.PrefetchCompleted:
		// Prefetch is best effort.
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	if v.focusInput {
		v.input, cmd = v.input.Update(msg)
	}
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.menu != nil {
		return v.handleMenuKey(msg)
	}

	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if v.focusInput {
		if msg.Type == tea.KeyEnter {
			query := strings.TrimSpace(v.input.Value())
			if query == "" {
				return v, nil
			}
			v.statusbar.SetState(status.StateSearching)
			v.statusbar.SetMessage("")
			return v, v.performSearch(query)
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Up):
		v.list.MoveUp()
	case keymap.Matches(key, v.keymap.Down):
		v.list.MoveDown()
	case keymap.Matches(key, v.keymap.NewSearch):
		v.focusInput = true
		v.input.SetValue("")
		return v, v.input.Focus()
	case keymap.Matches(key, v.keymap.Copy):
		v.execute(ActionCopy, v.list.SelectedResult())
	case keymap.Matches(key, v.keymap.Open):
		v.execute(ActionOpen, v.list.SelectedResult())
	case keymap.Matches(key, v.keymap.Actions):
		if result := v.list.SelectedResult(); result != nil {
			v.menu = &actionMenu{result: result}
		}
	}
	return v, nil
}

// handleMenuKey processes keyboard input while the action menu is open.
func (v *View) handleMenuKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Up):
		if v.menu.selected > 0 {
			v.menu.selected--
		}
	case keymap.Matches(key, v.keymap.Down):
		if v.menu.selected < len(menuActions)-1 {
			v.menu.selected++
		}
	case keymap.Matches(key, v.keymap.Back):
		v.menu = nil
	case keymap.Matches(key, v.keymap.Select):
		action := menuActions[v.menu.selected]
		result := v.menu.result
		v.menu = nil
		return v, v.execute(action, result)
	}
	return v, nil
}

// execute performs action on result and reports the outcome in the status bar.
func (v *View) execute(action Action, result *domain.SearchResult) tea.Cmd {
	if result == nil {
		return nil
	}

	switch action {
	case ActionView:
		doc := result.Document
		query := v.query
		return func() tea.Msg {
			return messages.DocumentSelected{Document: doc, Query: query, Back: messages.ViewSearch}
		}
	case ActionCopy:
		if v.actionService == nil {
			v.statusbar.SetMessage("Copy not available")
			return nil
		}
		if err := v.actionService.CopyToClipboard(v.ctx, result); err != nil {
			v.setError(err)
			return nil
		}
		v.statusbar.SetMessage("Copied to clipboard")
	case ActionOpen:
		if v.actionService == nil {
			v.statusbar.SetMessage("Open not available")
			return nil
		}
		if err := v.actionService.OpenDocument(v.ctx, result); err != nil {
			v.setError(err)
			return nil
		}
		v.statusbar.SetMessage("Opening " + result.Document.Title)
	case ActionCancel:
	}
	return nil
}

// performSearch runs query in a command.
func (v *View) performSearch(query string) tea.Cmd {
	svc := v.searchService
	ctx := v.ctx
	opts := v.opts
	return func() tea.Msg {
		if svc == nil {
			return messages.ErrorOccurred{Err: ErrNoSearchService}
		}
		results, err := svc.Search(ctx, query, opts)
		return messages.SearchCompleted{Query: query, Results: results, Err: err}
	}
}

// handleSearchCompleted shows results and starts a prefetch of their documents.
func (v *View) handleSearchCompleted(msg messages.SearchCompleted) tea.Cmd {
	if msg.Err != nil {
		v.setError(msg.Err)
		return nil
	}

	v.err = nil
	v.query = msg.Query
	v.list.SetResults(msg.Results)
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetResultCount(len(msg.Results))
	v.statusbar.SetMessage("")
	v.focusInput = false
	v.input.Blur()

	return v.prefetch(msg.Results)
}

// prefetch warms the content cache for the documents behind results.
func (v *View) prefetch(results []domain.SearchResult) tea.Cmd {
	if v.documentService == nil || len(results) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(results))
	ids := make([]string, 0, len(results))
	for i := range results {
		id := results[i].Document.ID
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	svc := v.documentService
	ctx := v.ctx
	return func() tea.Msg {
		n, err := svc.Prefetch(ctx, ids)
		return messages.PrefetchCompleted{Count: n, Err: err}
	}
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)
	sections = append(sections, v.styles.Title.Render("Search"), "", v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.list.View())

	if v.menu != nil {
		sections = append(sections, "", v.renderMenu())
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderMenu renders the action menu overlay.
func (v *View) renderMenu() string {
	lines := make([]string, 0, len(menuActions))
	for i, action := range menuActions {
		if i == v.menu.selected {
			lines = append(lines, v.styles.Selected.Render("> "+string(action)))
		} else {
			lines = append(lines, v.styles.Normal.Render("  "+string(action)))
		}
	}
	return v.styles.Border.Padding(0, 1).Render(strings.Join(lines, "\n"))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10)
	v.statusbar.SetWidth(width)
}

// Query returns the last query that produced results.
func (v *View) Query() string {
	return v.query
}

// SetQuery sets the input text.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// Results returns the current search results.
func (v *View) Results() []domain.SearchResult {
	return v.list.Results()
}

// SelectedResult returns the currently selected result.
func (v *View) SelectedResult() *domain.SearchResult {
	return v.list.SelectedResult()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Status returns the status bar message.
func (v *View) Status() string {
	return v.statusbar.Message()
}

// MenuOpen reports whether the action menu is visible.
func (v *View) MenuOpen() bool {
	return v.menu != nil
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Reset returns the view to an empty query.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Focus()
	v.input.SetValue("")
	v.list.SetResults(nil)
	v.query = ""
	v.menu = nil
	v.err = nil
	v.statusbar.Clear()
}
