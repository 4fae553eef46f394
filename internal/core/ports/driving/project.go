package driving

import (
	"context"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
)

// ProjectService manages construction projects.
type ProjectService interface {
	// Add creates a project. An empty ID is generated.
	Add(ctx context.Context, project domain.Project) (*domain.Project, error)

	// Get retrieves a project by ID.
	Get(ctx context.Context, id string) (*domain.Project, error)

	// List returns all projects.
	List(ctx context.Context) ([]domain.Project, error)

	// Update modifies an existing project.
	Update(ctx context.Context, project domain.Project) error

	// Remove deletes a project and its documents.
	Remove(ctx context.Context, id string) error
}
