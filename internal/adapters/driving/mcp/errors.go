// Package mcp provides an MCP (Model Context Protocol) server adapter for scopeiq.
// It lets AI assistants search project documents and highlight terms in text.
package mcp

import "errors"

var (
	// ErrMissingSearchService is returned when the search service is not provided.
	ErrMissingSearchService = errors.New("mcp: search service is required")

	// ErrMissingHighlightService is returned when the highlight service is not provided.
	ErrMissingHighlightService = errors.New("mcp: highlight service is required")
)
