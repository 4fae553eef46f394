// Package projects provides the project list view for the TUI.
package projects

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

// ErrNoProjectService indicates that no project service was provided.
var ErrNoProjectService = errors.New("project service not available")

// View lists projects. Enter opens a project's documents.
type View struct {
	styles         *styles.Styles
	projectService driving.ProjectService
	ctx            context.Context

	projects      []domain.Project
	selected      int
	width         int
	height        int
	err           error
	loading       bool
	confirmRemove bool
}

// NewView creates a new projects view.
func NewView(s *styles.Styles, projectService driving.ProjectService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:         s,
		projectService: projectService,
		ctx:            context.Background(),
		width:          80,
		height:         24,
	}
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the projects.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadProjects()
}

func (v *View) loadProjects() tea.Cmd {
	svc := v.projectService
	ctx := v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.ProjectsLoaded{Err: ErrNoProjectService}
		}
		projects, err := svc.List(ctx)
		return messages.ProjectsLoaded{Projects: projects, Err: err}
	}
}

func (v *View) removeProject(id string) tea.Cmd {
	svc := v.projectService
	ctx := v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.ProjectRemoved{ID: id, Err: ErrNoProjectService}
		}
		return messages.ProjectRemoved{ID: id, Err: svc.Remove(ctx, id)}
	}
}

// Update handles messages for the projects view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ProjectsLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.projects = msg.Projects
			if v.selected >= len(v.projects) {
				v.selected = max(len(v.projects)-1, 0)
			}
		}
		return v, nil

	case messages.ProjectRemoved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.loading = true
		return v, v.loadProjects()
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.confirmRemove {
		v.confirmRemove = false
		if msg.String() == "y" && v.selected < len(v.projects) {
			return v, v.removeProject(v.projects[v.selected].ID)
		}
		return v, nil
	}

	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.projects)-1 {
			v.selected++
		}
	case "enter":
		if v.selected < len(v.projects) {
			project := v.projects[v.selected]
			return v, func() tea.Msg {
				return messages.ProjectSelected{Project: project}
			}
		}
	case "d", "delete":
		if v.selected < len(v.projects) {
			v.confirmRemove = true
		}
	case "r":
		v.loading = true
		return v, v.loadProjects()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	return v, nil
}

// View renders the projects view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Projects"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading projects..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case len(v.projects) == 0:
		b.WriteString(v.styles.Muted.Render("No projects. Create one with 'scopeiq project add <name>'."))
	default:
		for i := range v.projects {
			b.WriteString(v.renderProject(i, &v.projects[i]))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	if v.confirmRemove && v.selected < len(v.projects) {
		b.WriteString(v.styles.Warning.Render(fmt.Sprintf(
			"Remove %s and all its documents? [y/N]", v.projects[v.selected].DisplayName())))
		return b.String()
	}
	b.WriteString(v.styles.Help.Render("[enter] documents  [d] remove  [r] reload  [esc] back"))
	return b.String()
}

func (v *View) renderProject(index int, p *domain.Project) string {
	name := p.DisplayName()
	maxLen := max(v.width-30, 10)
	if len(name) > maxLen {
		name = name[:maxLen-3] + "..."
	}

	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("> %-*s", maxLen, name)) +
			"  " + v.styles.Muted.Render(p.Location)
	}
	return v.styles.Normal.Render(fmt.Sprintf("  %-*s", maxLen, name)) +
		"  " + v.styles.Muted.Render(p.Location)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Projects returns the loaded projects.
func (v *View) Projects() []domain.Project {
	return v.projects
}

// SelectedIndex returns the currently selected project index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
