// Package tui provides an interactive terminal user interface for scopeiq.
// It is a driving adapter over the same ports as the CLI.
package tui

import (
	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
	"github.com/custodia-labs/scopeiq-cli/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the TUI.
type Ports struct {
	// Search runs queries. Required.
	Search driving.SearchService

	// Highlight finds matches in document content. Required.
	Highlight driving.HighlightService

	// Project lists and removes projects.
	Project driving.ProjectService

	// Document loads document content and details.
	Document driving.DocumentService

	// ResultAction copies and opens search results.
	ResultAction driving.ResultActionService

	// Settings supplies default search and highlight options.
	Settings driving.SettingsService
}

// NewPorts creates a Ports aggregate with the required services.
func NewPorts(search driving.SearchService, highlight driving.HighlightService) *Ports {
	return &Ports{
		Search:    search,
		Highlight: highlight,
	}
}

// Validate ensures the required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Highlight == nil {
		return ErrMissingHighlightService
	}
	return nil
}

// searchOptions derives search options from settings, or defaults when
// settings are unavailable.
func (p *Ports) searchOptions() domain.SearchOptions {
	match := domain.DefaultMatchOptions()
	opts := domain.SearchOptions{Match: &match}
	if p.Settings == nil {
		return opts
	}
	settings, err := p.Settings.Get()
	if err != nil || settings == nil {
		return opts
	}
	match = settings.Highlight.MatchOptions()
	opts.Match = &match
	opts.Limit = settings.Search.Limit
	opts.SnippetRadius = settings.Search.SnippetRadius
	return opts
}
