package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driving/tui/views/doccontent"
	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driving/tui/views/docdetails"
	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driving/tui/views/projects"
	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
)

// App is the root Bubbletea model. It owns every view and routes messages
// to the active one.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	menuView       *menu.View
	searchView     *search.View
	projectsView   *projects.View
	documentsView  *documents.View
	docContentView *doccontent.View
	docDetailsView *docdetails.View

	currentView messages.ViewType
	err         error
	width       int
	height      int
	ready       bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if ports == nil {
		return nil, ErrInvalidPorts
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	opts := ports.searchOptions()

	searchView := search.NewView(s, km, ports.Search, ports.ResultAction)
	searchView.SetOptions(opts)
	searchView.SetDocumentService(ports.Document)

	docContentView := doccontent.NewView(s, km, ports.Document, ports.Highlight)
	docContentView.SetMatchOptions(*opts.Match)
	docContentView.SetActionService(ports.ResultAction)

	return &App{
		ports:          ports,
		ctx:            context.Background(),
		styles:         s,
		keymap:         km,
		menuView:       menu.NewView(s),
		searchView:     searchView,
		projectsView:   projects.NewView(s, ports.Project),
		documentsView:  documents.NewView(s, ports.Document),
		docContentView: docContentView,
		docDetailsView: docdetails.NewView(s, ports.Document),
		currentView:    messages.ViewMenu,
	}, nil
}

// WithContext sets the context used for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	a.projectsView.WithContext(ctx)
	a.documentsView.WithContext(ctx)
	a.docContentView.WithContext(ctx)
	a.docDetailsView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.SetWindowTitle("scopeiq")
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message router
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.SearchCompleted, messages.PrefetchCompleted:
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = a.searchView.Err()
		return a, cmd

	case messages.ProjectsLoaded, messages.ProjectRemoved:
		a.projectsView, cmd = a.projectsView.Update(msg)
		return a, cmd

	case messages.ProjectSelected:
		a.currentView = messages.ViewDocuments
		return a, a.documentsView.SetProject(msg.Project)

	case messages.DocumentsLoaded, messages.DocumentRemoved:
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd

	case messages.DocumentSelected:
		a.currentView = messages.ViewDocContent
		return a, a.docContentView.SetDocument(msg.Document, msg.Query, msg.Back)

	case messages.DocumentContentLoaded:
		a.docContentView, cmd = a.docContentView.Update(msg)
		return a, cmd

	case messages.DocumentDetailsLoaded:
		a.docDetailsView, cmd = a.docDetailsView.Update(msg)
		if msg.Err != nil {
			a.err = msg.Err
			a.documentsView, _ = a.documentsView.Update(messages.ErrorOccurred{Err: msg.Err})
			return a, cmd
		}
		a.currentView = messages.ViewDocDetails
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
	}

	return a, a.forward(msg)
}

// handleKey applies global keys, then passes the key to the active view.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return a, tea.Quit
	}

	typing := a.currentView == messages.ViewSearch && a.searchView.InputFocused()
	if !typing {
		switch msg.String() {
		case "q":
			return a, tea.Quit
		case "?":
			a.currentView = messages.ViewHelp
			return a, nil
		}
	}

	if a.currentView == messages.ViewHelp {
		if msg.Type == tea.KeyEsc {
			a.currentView = messages.ViewMenu
		}
		return a, nil
	}

	return a, a.forward(msg)
}

// switchTo activates view and returns its start-up command.
func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	from := a.currentView
	a.currentView = view
	a.err = nil

	switch view {
	case messages.ViewSearch:
		// Returning from a document keeps the previous results.
		if from == messages.ViewDocContent {
			return nil
		}
		a.searchView.Reset()
		return a.searchView.Init()
	case messages.ViewProjects:
		return a.projectsView.Init()
	case messages.ViewMenu, messages.ViewHelp, messages.ViewDocuments,
		messages.ViewDocContent, messages.ViewDocDetails:
	}
	return nil
}

// forward sends msg to the active view.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = a.searchView.Err()
	case messages.ViewProjects:
		a.projectsView, cmd = a.projectsView.Update(msg)
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewDocContent:
		a.docContentView, cmd = a.docContentView.Update(msg)
	case messages.ViewDocDetails:
		a.docDetailsView, cmd = a.docDetailsView.Update(msg)
	case messages.ViewHelp:
	}
	return cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewProjects:
		return a.projectsView.View()
	case messages.ViewDocuments:
		return a.documentsView.View()
	case messages.ViewDocContent:
		return a.docContentView.View()
	case messages.ViewDocDetails:
		return a.docDetailsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp lists every keybinding grouped as in the key map.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Keybindings"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-8s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("[esc] back to menu"))
	return b.String()
}

// Run starts the TUI in the alternate screen.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// Results returns the current search results.
func (a *App) Results() []domain.SearchResult {
	return a.searchView.Results()
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its first size.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sizes every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.searchView.SetDimensions(width, height)
	a.projectsView.SetDimensions(width, height)
	a.documentsView.SetDimensions(width, height)
	a.docContentView.SetDimensions(width, height)
	a.docDetailsView.SetDimensions(width, height)
}
