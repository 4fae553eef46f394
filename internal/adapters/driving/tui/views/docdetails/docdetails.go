// Package docdetails provides the document metadata view for the TUI.
package docdetails

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scopeiq-cli/internal/core/ports/driving"
)

const (
	timeLayout     = "2006-01-02 15:04:05"
	maxValueLength = 50
)

// field is one label and value row.
type field struct {
	label string
	value string
	meta  bool
}

// View shows the details of one document.
type View struct {
	styles          *styles.Styles
	documentService driving.DocumentService
	ctx             context.Context

	details      *driving.DocumentDetails
	scrollOffset int
	width        int
	height       int
	err          error
}

// NewView creates a new document details view. documentService may be nil,
// in which case the open key does nothing.
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

// SetDetails sets the document details to display.
func (v *View) SetDetails(details *driving.DocumentDetails) {
	v.details = details
	v.scrollOffset = 0
	v.err = nil
}

// SetError sets an error to display.
func (v *View) SetError(err error) {
	v.err = err
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the document details view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	case messages.DocumentDetailsLoaded:
		if msg.Err != nil {
			v.SetError(msg.Err)
		} else {
			v.SetDetails(msg.Details)
		}
	case messages.ErrorOccurred:
		v.err = msg.Err
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case "down", "j":
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case "o":
		if v.details != nil && v.documentService != nil {
			svc, ctx, id := v.documentService, v.ctx, v.details.ID
			return v, func() tea.Msg {
				if err := svc.Open(ctx, id); err != nil {
					return messages.ErrorOccurred{Err: err}
				}
				return nil
			}
		}
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewDocuments}
		}
	}
	return v, nil
}

func (v *View) visibleLines() int {
	return max(v.height-6, 1)
}

func (v *View) maxScrollOffset() int {
	return max(len(v.fields())-v.visibleLines(), 0)
}

func (v *View) fields() []field {
	d := v.details
	if d == nil {
		return nil
	}

	project := d.ProjectName
	if project == "" {
		project = d.ProjectID
	}
	rows := []field{
		{label: "ID", value: d.ID},
		{label: "Title", value: d.Title},
		{label: "Project", value: project},
		{label: "URI", value: d.URI},
		{label: "Chunks", value: fmt.Sprintf("%d", d.ChunkCount)},
		{label: "Size", value: humanSize(d.Size)},
	}
	if !d.CreatedAt.IsZero() {
		rows = append(rows, field{label: "Imported", value: d.CreatedAt.Format(timeLayout)})
	}
	if !d.UpdatedAt.IsZero() {
		rows = append(rows, field{label: "Updated", value: d.UpdatedAt.Format(timeLayout)})
	}

	keys := make([]string, 0, len(d.Metadata))
	for k := range d.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		value := d.Metadata[k]
		if len(value) > maxValueLength {
			value = value[:maxValueLength-3] + "..."
		}
		rows = append(rows, field{label: k, value: value, meta: true})
	}
	return rows
}

// View renders the document details view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Document Details"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", min(max(v.width-4, 0), 60)))
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	case v.details == nil:
		b.WriteString(v.styles.Muted.Render("No document details available"))
		b.WriteString("\n")
	default:
		rows := v.fields()
		end := min(v.scrollOffset+v.visibleLines(), len(rows))
		for _, f := range rows[v.scrollOffset:end] {
			if f.meta {
				b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  %s: ", f.label)))
			} else {
				b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("%-10s", f.label+":")))
			}
			b.WriteString(v.styles.Normal.Render(f.value))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] scroll  [o] open file  [esc] back"))
	return b.String()
}

// humanSize formats n bytes with a binary unit.
func humanSize(n int) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := unit, 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGT"[exp])
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Details returns the current document details.
func (v *View) Details() *driving.DocumentDetails {
	return v.details
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
