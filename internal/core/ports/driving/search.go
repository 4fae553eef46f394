package driving

import (
	"context"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
)

// SearchService provides search capabilities to external actors.
type SearchService interface {
	// Search performs keyword search across imported documents and
	// attaches highlighted snippets to each result.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
