package mcp

import (
	"github.com/custodia-labs/scopeiq-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Search provides document search.
	Search driving.SearchService

	// Highlight finds and renders terms in text.
	Highlight driving.HighlightService

	// Project lists projects. Optional.
	Project driving.ProjectService

	// Document reads documents. Optional.
	Document driving.DocumentService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Highlight == nil {
		return ErrMissingHighlightService
	}
	return nil
}
