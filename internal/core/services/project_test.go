package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
)

func newProjectFixture(t *testing.T) (*ProjectService, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 1, 12, 8, 30, 0, 0, time.UTC)}
	svc := NewProjectService(memory.NewProjectStore(), memory.NewDocumentStore())
	svc.SetClock(clock)
	return svc, clock
}

func TestProjectService_Add(t *testing.T) {
	svc, clock := newProjectFixture(t)
	ctx := context.Background()

	project, err := svc.Add(ctx, domain.Project{Name: "  Harbour Tower ", Code: "HT-01", Location: "Pier 4"})
	require.NoError(t, err)

	assert.NotEmpty(t, project.ID)
	assert.Equal(t, "Harbour Tower", project.Name)
	assert.Equal(t, clock.now, project.CreatedAt)
	assert.Equal(t, clock.now, project.UpdatedAt)

	stored, err := svc.Get(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "HT-01 - Harbour Tower", stored.DisplayName())
}

func TestProjectService_Add_Errors(t *testing.T) {
	svc, _ := newProjectFixture(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, domain.Project{ID: "prj-1", Name: "Riverside School"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		project domain.Project
		want    error
	}{
		{name: "missing name", project: domain.Project{Name: "   "}, want: domain.ErrInvalidProject},
		{name: "code with spaces", project: domain.Project{Name: "Depot", Code: "D 1"}, want: domain.ErrInvalidProject},
		{name: "duplicate id", project: domain.Project{ID: "prj-1", Name: "Other"}, want: domain.ErrAlreadyExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Add(ctx, tt.project)
			require.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("no store", func(t *testing.T) {
		_, err := NewProjectService(nil, nil).Add(ctx, domain.Project{Name: "x"})
		require.ErrorIs(t, err, domain.ErrNotImplemented)
	})
}

func TestProjectService_List(t *testing.T) {
	svc, _ := newProjectFixture(t)
	ctx := context.Background()

	for _, name := range []string{"Harbour Tower", "Riverside School"} {
		_, err := svc.Add(ctx, domain.Project{Name: name})
		require.NoError(t, err)
	}

	projects, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, projects, 2)
}

func TestProjectService_Update(t *testing.T) {
	svc, clock := newProjectFixture(t)
	ctx := context.Background()

	project, err := svc.Add(ctx, domain.Project{Name: "Harbour Tower"})
	require.NoError(t, err)
	created := clock.now
	clock.now = created.Add(24 * time.Hour)

	project.Code = "HT-02"
	project.CreatedAt = time.Time{}
	require.NoError(t, svc.Update(ctx, *project))

	stored, err := svc.Get(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "HT-02", stored.Code)
	assert.Equal(t, created, stored.CreatedAt)
	assert.Equal(t, clock.now, stored.UpdatedAt)

	require.ErrorIs(t, svc.Update(ctx, domain.Project{Name: "x"}), domain.ErrInvalidInput)
	require.ErrorIs(t, svc.Update(ctx, domain.Project{ID: "missing", Name: "x"}), domain.ErrNotFound)
	require.ErrorIs(t, svc.Update(ctx, domain.Project{ID: project.ID}), domain.ErrInvalidProject)
}

func TestProjectService_Remove(t *testing.T) {
	ctx := context.Background()
	projects := setupTestProjectStore(t)
	docs := setupTestDocStore(t)
	engine := &mockSearchEngine{}
	svc := NewProjectService(projects, docs)
	svc.SetSearchEngine(engine)

	require.NoError(t, svc.Remove(ctx, "prj-1"))

	_, err := projects.Get(ctx, "prj-1")
	require.ErrorIs(t, err, domain.ErrNotFound)

	remaining, err := docs.ListDocuments(ctx, "prj-1")
	require.NoError(t, err)
	assert.Empty(t, remaining)
	assert.ElementsMatch(t, []string{"chunk-doc-1", "chunk-doc-2"}, engine.deleted)

	other, err := docs.ListDocuments(ctx, "prj-2")
	require.NoError(t, err)
	assert.Len(t, other, 1)

	require.ErrorIs(t, svc.Remove(ctx, "prj-1"), domain.ErrNotFound)
}
