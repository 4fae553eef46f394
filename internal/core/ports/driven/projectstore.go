package driven

import (
	"context"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
)

// ProjectStore persists projects.
type ProjectStore interface {
	// Save stores or updates a project.
	Save(ctx context.Context, project domain.Project) error

	// Get retrieves a project by ID.
	Get(ctx context.Context, id string) (*domain.Project, error)

	// Delete removes a project.
	Delete(ctx context.Context, id string) error

	// List returns all projects ordered by name.
	List(ctx context.Context) ([]domain.Project, error)
}
