// Package documents provides the document list view for a project.
package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
	"github.com/custodia-labs/scopeiq-cli/internal/core/ports/driving"
)

// ErrNoDocumentService indicates that no document service was provided.
var ErrNoDocumentService = errors.New("document service not available")

// ActionOption is an entry in the document action menu.
type ActionOption int

const (
	ActionShowContent ActionOption = iota
	ActionShowDetails
	ActionOpenDocument
	ActionRemove
	ActionCancel
)

var actionLabels = map[ActionOption]string{
	ActionShowContent:  "Show content",
	ActionShowDetails:  "Show details",
	ActionOpenDocument: "Open file",
	ActionRemove:       "Remove from project",
	ActionCancel:       "Cancel",
}

// View lists the documents of one project.
type View struct {
	styles          *styles.Styles
	documentService driving.DocumentService
	ctx             context.Context

	project      *domain.Project
	documents    []domain.Document
	selected     int
	width        int
	height       int
	err          error
	loading      bool
	showingMenu  bool
	menuSelected ActionOption
	scrollOffset int
}

// NewView creates a new documents view.
func NewView(s *styles.Styles, documentService driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:          s,
		documentService: documentService,
		ctx:             context.Background(),
		width:           80,
		height:          24,
	}
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetProject sets the project and loads its documents.
func (v *View) SetProject(project domain.Project) tea.Cmd {
	v.project = &project
	v.documents = nil
	v.selected = 0
	v.scrollOffset = 0
	v.err = nil
	v.showingMenu = false
	v.loading = true
	return v.loadDocuments()
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

func (v *View) loadDocuments() tea.Cmd {
	svc := v.documentService
	ctx := v.ctx
	project := v.project
	return func() tea.Msg {
		if project == nil || svc == nil {
			return messages.DocumentsLoaded{Err: ErrNoDocumentService}
		}
		docs, err := svc.ListByProject(ctx, project.ID)
		return messages.DocumentsLoaded{ProjectID: project.ID, Documents: docs, Err: err}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.showingMenu {
			return v.handleMenuKeyMsg(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.DocumentsLoaded:
		if v.project != nil && msg.ProjectID != "" && msg.ProjectID != v.project.ID {
			return v, nil
		}
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.documents = msg.Documents
			if v.selected >= len(v.documents) {
				v.selected = max(len(v.documents)-1, 0)
			}
		}
		return v, nil

	case messages.DocumentRemoved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.loading = true
		return v, v.loadDocuments()

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case "down", "j":
		if v.selected < len(v.documents)-1 {
			v.selected++
			v.adjustScroll()
		}
	case "enter":
		if len(v.documents) > 0 {
			v.showingMenu = true
			v.menuSelected = ActionShowContent
		}
	case "r":
		v.loading = true
		return v, v.loadDocuments()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewProjects}
		}
	}
	return v, nil
}

func (v *View) handleMenuKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.menuSelected > ActionShowContent {
			v.menuSelected--
		}
	case "down", "j":
		if v.menuSelected < ActionCancel {
			v.menuSelected++
		}
	case "enter":
		v.showingMenu = false
		return v, v.runAction(v.menuSelected)
	case "esc":
		v.showingMenu = false
	}
	return v, nil
}

// runAction returns the command for action on the selected document.
func (v *View) runAction(action ActionOption) tea.Cmd {
	doc := v.SelectedDocument()
	if doc == nil || action == ActionCancel {
		return nil
	}
	if action == ActionShowContent {
		selected := *doc
		return func() tea.Msg {
			return messages.DocumentSelected{Document: selected, Back: messages.ViewDocuments}
		}
	}

	svc := v.documentService
	ctx := v.ctx
	id := doc.ID
	return func() tea.Msg {
		if svc == nil {
			return messages.ErrorOccurred{Err: ErrNoDocumentService}
		}
		switch action {
		case ActionShowDetails:
			details, err := svc.GetDetails(ctx, id)
			return messages.DocumentDetailsLoaded{DocumentID: id, Details: details, Err: err}
		case ActionOpenDocument:
			if err := svc.Open(ctx, id); err != nil {
				return messages.ErrorOccurred{Err: err}
			}
			return nil
		case ActionRemove:
			return messages.DocumentRemoved{DocumentID: id, Err: svc.Remove(ctx, id)}
		default:
			return nil
		}
	}
}

func (v *View) adjustScroll() {
	visible := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visible {
		v.scrollOffset = v.selected - visible + 1
	}
}

func (v *View) visibleItemCount() int {
	return max(v.height-8, 1)
}

// View renders the documents view.
func (v *View) View() string {
	var b strings.Builder

	name := "Unknown"
	if v.project != nil {
		name = v.project.DisplayName()
	}
	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Documents - %s (%d)", name, len(v.documents))))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case len(v.documents) == 0:
		b.WriteString(v.styles.Muted.Render("No documents imported into this project."))
	case v.showingMenu:
		b.WriteString(v.renderActionMenu())
		return b.String()
	default:
		visible := v.visibleItemCount()
		end := min(v.scrollOffset+visible, len(v.documents))
		for i := v.scrollOffset; i < end; i++ {
			b.WriteString(v.renderDocument(i, &v.documents[i]))
			b.WriteString("\n")
		}
		if len(v.documents) > visible {
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("\n  [%d-%d of %d]", v.scrollOffset+1, end, len(v.documents))))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [enter] actions  [r] reload  [esc] back"))
	return b.String()
}

func (v *View) renderDocument(index int, doc *domain.Document) string {
	title := doc.Title
	if title == "" {
		title = doc.ID
	}
	half := max(v.width/2-4, 10)
	if len(title) > half {
		title = title[:half-3] + "..."
	}
	uri := doc.URI
	if len(uri) > half {
		uri = "..." + uri[len(uri)-half+3:]
	}

	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("> %-*s  %s", half, title, uri))
	}
	return v.styles.Normal.Render(fmt.Sprintf("  %-*s  ", half, title)) + v.styles.Muted.Render(uri)
}

func (v *View) renderActionMenu() string {
	var b strings.Builder

	if doc := v.SelectedDocument(); doc != nil {
		title := doc.Title
		if title == "" {
			title = doc.ID
		}
		b.WriteString(v.styles.Subtitle.Render("Actions for: " + title))
		b.WriteString("\n\n")
	}

	for action := ActionShowContent; action <= ActionCancel; action++ {
		if action == v.menuSelected {
			b.WriteString(v.styles.Selected.Render("> " + actionLabels[action]))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + actionLabels[action]))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [enter] select  [esc] cancel"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Project returns the current project, or nil.
func (v *View) Project() *domain.Project {
	return v.project
}

// Documents returns the current list of documents.
func (v *View) Documents() []domain.Document {
	return v.documents
}

// SelectedIndex returns the currently selected document index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// SelectedDocument returns the currently selected document.
func (v *View) SelectedDocument() *domain.Document {
	if v.selected < len(v.documents) {
		return &v.documents[v.selected]
	}
	return nil
}

// IsShowingMenu reports whether the action menu is visible.
func (v *View) IsShowingMenu() bool {
	return v.showingMenu
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
