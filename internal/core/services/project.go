package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
	"github.com/custodia-labs/scopeiq-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scopeiq-cli/internal/core/ports/driving"
	"github.com/custodia-labs/scopeiq-cli/internal/logger"
)

// Ensure ProjectService implements the interface.
var _ driving.ProjectService = (*ProjectService)(nil)

// ProjectService manages construction projects.
type ProjectService struct {
	projectStore driven.ProjectStore
	docStore     driven.DocumentStore
	searchIndex  driven.SearchEngine
	clock        driven.Clock
}

// NewProjectService creates a new project service.
func NewProjectService(projectStore driven.ProjectStore, docStore driven.DocumentStore) *ProjectService {
	return &ProjectService{
		projectStore: projectStore,
		docStore:     docStore,
		clock:        systemClock{},
	}
}

// SetSearchEngine sets the index cleaned up when a project is removed.
func (s *ProjectService) SetSearchEngine(engine driven.SearchEngine) {
	s.searchIndex = engine
}

// SetClock sets the clock used for project timestamps.
func (s *ProjectService) SetClock(clock driven.Clock) {
	s.clock = clock
}

// Add validates and stores a new project. An empty ID is generated.
func (s *ProjectService) Add(ctx context.Context, project domain.Project) (*domain.Project, error) {
	if s.projectStore == nil {
		return nil, domain.ErrNotImplemented
	}

	project.Name = strings.TrimSpace(project.Name)
	project.Code = strings.TrimSpace(project.Code)
	if err := project.Validate(); err != nil {
		return nil, err
	}

	if project.ID == "" {
		project.ID = uuid.NewString()
	} else if _, err := s.projectStore.Get(ctx, project.ID); err == nil {
		return nil, fmt.Errorf("project %s: %w", project.ID, domain.ErrAlreadyExists)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := s.clock.Now()
	project.CreatedAt = now
	project.UpdatedAt = now

	if err := s.projectStore.Save(ctx, project); err != nil {
		return nil, fmt.Errorf("save project: %w", err)
	}
	logger.Debug("Added project %s (%s)", project.ID, project.DisplayName())
	return &project, nil
}

// Get retrieves a project by ID.
func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	if s.projectStore == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.projectStore.Get(ctx, id)
}

// List returns all projects.
func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	if s.projectStore == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.projectStore.List(ctx)
}

// Update modifies an existing project. CreatedAt is preserved.
func (s *ProjectService) Update(ctx context.Context, project domain.Project) error {
	if s.projectStore == nil {
		return domain.ErrNotImplemented
	}
	if project.ID == "" {
		return fmt.Errorf("project id is required: %w", domain.ErrInvalidInput)
	}

	project.Name = strings.TrimSpace(project.Name)
	project.Code = strings.TrimSpace(project.Code)
	if err := project.Validate(); err != nil {
		return err
	}

	existing, err := s.projectStore.Get(ctx, project.ID)
	if err != nil {
		return err
	}
	project.CreatedAt = existing.CreatedAt
	project.UpdatedAt = s.clock.Now()

	return s.projectStore.Save(ctx, project)
}

// Remove deletes a project together with its documents and index entries.
func (s *ProjectService) Remove(ctx context.Context, id string) error {
	if s.projectStore == nil {
		return domain.ErrNotImplemented
	}
	if _, err := s.projectStore.Get(ctx, id); err != nil {
		return err
	}

	if s.docStore != nil {
		docs, err := s.docStore.ListDocuments(ctx, id)
		if err != nil {
			return fmt.Errorf("list documents: %w", err)
		}
		for i := range docs {
			if err := s.removeDocument(ctx, docs[i].ID); err != nil {
				return fmt.Errorf("remove document %s: %w", docs[i].ID, err)
			}
		}
		logger.Debug("Removed %d documents from project %s", len(docs), id)
	}

	return s.projectStore.Delete(ctx, id)
}

func (s *ProjectService) removeDocument(ctx context.Context, documentID string) error {
	if s.searchIndex != nil {
		chunks, err := s.docStore.GetChunks(ctx, documentID)
		if err != nil {
			return err
		}
		for _, c := range chunks {
			if err := s.searchIndex.Delete(ctx, c.ID); err != nil {
				return err
			}
		}
	}
	return s.docStore.DeleteDocument(ctx, documentID)
}
