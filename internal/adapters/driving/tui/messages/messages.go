// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
	"github.com/custodia-labs/scopeiq-cli/internal/core/ports/driving"
)

// SearchCompleted carries search results back to the model.
type SearchCompleted struct {
	Query   string
	Results []domain.SearchResult
	Err     error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewSearch is the search input and results view.
	ViewSearch
	// ViewProjects lists projects.
	ViewProjects
	// ViewHelp is the keybindings view.
	ViewHelp
	// ViewDocuments lists documents for a project.
	ViewDocuments
	// ViewDocContent shows highlighted document content.
	ViewDocContent
	// ViewDocDetails shows document metadata.
	ViewDocDetails
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewSearch:
		return "search"
	case ViewProjects:
		return "projects"
	case ViewHelp:
		return "help"
	case ViewDocuments:
		return "documents"
	case ViewDocContent:
		return "doc_content"
	case ViewDocDetails:
		return "doc_details"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// StatusUpdated carries a transient message for the status bar.
type StatusUpdated struct {
	Message string
}

// ProjectsLoaded carries the list of projects.
type ProjectsLoaded struct {
	Projects []domain.Project
	Err      error
}

// ProjectSelected signals a project was chosen for its document list.
type ProjectSelected struct {
	Project domain.Project
}

// ProjectRemoved signals a project was removed.
type ProjectRemoved struct {
	ID  string
	Err error
}

// DocumentsLoaded carries the documents of a project.
type DocumentsLoaded struct {
	ProjectID string
	Documents []domain.Document
	Err       error
}

// DocumentSelected signals a document should be shown. Query, when set,
// is highlighted in the content view.
type DocumentSelected struct {
	Document domain.Document
	Query    string
	// Back is the view esc returns to from the content view.
	Back ViewType
}

// DocumentContentLoaded carries the content of a document.
type DocumentContentLoaded struct {
	DocumentID string
	Content    string
	Err        error
}

// DocumentDetailsLoaded carries the metadata of a document.
type DocumentDetailsLoaded struct {
	DocumentID string
	Details    *driving.DocumentDetails
	Err        error
}

// DocumentRemoved signals a document was removed.
type DocumentRemoved struct {
	DocumentID string
	Err        error
}

// PrefetchCompleted reports how many result documents were warmed in the cache.
type PrefetchCompleted struct {
	Count int
	Err   error
}
