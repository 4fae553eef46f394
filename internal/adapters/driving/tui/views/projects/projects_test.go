package projects

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
	"github.com/custodia-labs/scopeiq-cli/internal/core/ports/driving"
)

// mockProjectService implements List and Remove.
type mockProjectService struct {
	driving.ProjectService
	mock.Mock
}

func (m *mockProjectService) List(ctx context.Context) ([]domain.Project, error) {
	args := m.Called(ctx)
	projects, _ := args.Get(0).([]domain.Project)
	return projects, args.Error(1)
}

func (m *mockProjectService) Remove(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newMockService(projects []domain.Project, err error) *mockProjectService {
	svc := &mockProjectService{}
	svc.On("List", mock.Anything).Return(projects, err)
	return svc
}

func testProjects() []domain.Project {
	return []domain.Project{
		{ID: "p1", Name: "Harbour Street", Code: "P-104", Location: "Sydney"},
		{ID: "p2", Name: "Riverside Clinic"},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// loaded returns a view populated by running its Init command.
func loaded(t *testing.T, svc *mockProjectService) *View {
	t.Helper()
	view := NewView(nil, svc)
	cmd := view.Init()
	require.NotNil(t, cmd)
	view, _ = view.Update(cmd())
	return view
}

func TestView_Load(t *testing.T) {
	t.Run("lists projects", func(t *testing.T) {
		view := loaded(t, newMockService(testProjects(), nil))

		require.NoError(t, view.Err())
		assert.Len(t, view.Projects(), 2)
		out := view.View()
		assert.Contains(t, out, "P-104 - Harbour Street")
		assert.Contains(t, out, "Sydney")
		assert.Contains(t, out, "Riverside Clinic")
	})

	t.Run("empty", func(t *testing.T) {
		view := loaded(t, newMockService(nil, nil))
		assert.Contains(t, view.View(), "No projects")
	})

	t.Run("error", func(t *testing.T) {
		view := loaded(t, newMockService(nil, errors.New("db locked")))
		assert.Contains(t, view.View(), "db locked")
	})

	t.Run("no service", func(t *testing.T) {
		view := NewView(nil, nil)
		view, _ = view.Update(view.Init()())
		assert.ErrorIs(t, view.Err(), ErrNoProjectService)
	})
}

func TestView_SelectProject(t *testing.T) {
	view := loaded(t, newMockService(testProjects(), nil))

	view, _ = view.Update(runes("j"))
	assert.Equal(t, 1, view.SelectedIndex())

	view, _ = view.Update(runes("j"))
	assert.Equal(t, 1, view.SelectedIndex())

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	sel, ok := cmd().(messages.ProjectSelected)
	require.True(t, ok)
	assert.Equal(t, "p2", sel.Project.ID)
}

func TestView_RemoveProject(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		svc := newMockService(testProjects(), nil)
		svc.On("Remove", mock.Anything, "p1").Return(nil).Once()
		view := loaded(t, svc)

		view, _ = view.Update(runes("d"))
		assert.Contains(t, view.View(), "Remove P-104 - Harbour Street")

		_, cmd := view.Update(runes("y"))
		require.NotNil(t, cmd)
		msg := cmd()
		assert.Equal(t, messages.ProjectRemoved{ID: "p1"}, msg)
		svc.AssertExpectations(t)

		_, reload := view.Update(msg)
		assert.NotNil(t, reload)
	})

	t.Run("declined", func(t *testing.T) {
		svc := newMockService(testProjects(), nil)
		view := loaded(t, svc)

		view.Update(runes("d"))
		_, cmd := view.Update(runes("n"))

		assert.Nil(t, cmd)
		svc.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
	})
}

func TestView_Esc(t *testing.T) {
	view := NewView(nil, nil)

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}
