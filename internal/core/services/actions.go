package services

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
	"github.com/custodia-labs/scopeiq-cli/internal/core/ports/driving"
)

// Ensure ResultActionService implements the interface.
var _ driving.ResultActionService = (*ResultActionService)(nil)

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

// ResultActionService provides actions on search results.
type ResultActionService struct{}

// NewResultActionService creates a new result action service.
func NewResultActionService() *ResultActionService {
	return &ResultActionService{}
}

// CopyToClipboard copies the result's best snippet to the system clipboard,
// falling back to the whole chunk.
func (s *ResultActionService) CopyToClipboard(_ context.Context, result *domain.SearchResult) error {
	if result == nil {
		return fmt.Errorf("result is nil: %w", domain.ErrInvalidInput)
	}

	text := result.Chunk.Content
	if len(result.Snippets) > 0 && result.Snippets[0].Text != "" {
		text = result.Snippets[0].Text
	}
	if err := writeClipboard(text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}

// OpenDocument opens the result's document in the default application.
func (s *ResultActionService) OpenDocument(_ context.Context, result *domain.SearchResult) error {
	if result == nil {
		return fmt.Errorf("result is nil: %w", domain.ErrInvalidInput)
	}
	if result.Document.URI == "" {
		return fmt.Errorf("document %s has no location: %w", result.Document.ID, domain.ErrInvalidInput)
	}
	return openURL(openableTarget(result.Document.URI))
}
