package pages

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"specter/internal/api"
	"specter/internal/models"
	"specter/internal/ui/dialog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProjects(t *testing.T) (*Projects, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend()
	backend.projects = []models.Project{{ID: 1, Title: "Alpha"}, {ID: 2, Title: "Beta"}}

	p := NewProjects(backend, Options{})
	p.SetSize(100, 40)
	drain(t, p.Update, p.Enter())
	require.Len(t, p.Projects(), 2)
	return p, backend
}

func TestProjects_EnterLoadsList(t *testing.T) {
	p, backend := newTestProjects(t)

	assert.False(t, p.Loading())
	assert.Equal(t, 1, backend.calls["ListProjects"])
	assert.Contains(t, p.View(), "Alpha")
}

func TestProjects_EmptyTitleMakesNoCall(t *testing.T) {
	p, backend := newTestProjects(t)

	p.Update(keyRunes("n"))
	require.True(t, p.Dialog().Is(dialog.Creating))

	assert.Nil(t, p.Update(keyEnter))
	p.Update(keyRunes("   "))
	assert.Nil(t, p.Update(keyEnter))

	assert.Zero(t, backend.calls["CreateProject"])
	assert.True(t, p.Dialog().Is(dialog.Creating))
}

func TestProjects_CreateRefetches(t *testing.T) {
	p, backend := newTestProjects(t)

	p.Update(keyRunes("n"))
	p.Update(keyRunes("Gamma"))
	drain(t, p.Update, p.Update(keyEnter))

	assert.Equal(t, "Gamma", backend.last["CreateProject"])
	assert.Equal(t, 2, backend.calls["ListProjects"])
	assert.False(t, p.Dialog().Open())
	require.Len(t, p.Projects(), 3)
	assert.Equal(t, "Gamma", p.Projects()[2].Title)

	banner := p.Banner()
	assert.False(t, banner.IsError())
	assert.Equal(t, "Project created", banner.Text)
}

func TestProjects_DoubleSubmitIgnored(t *testing.T) {
	p, backend := newTestProjects(t)

	p.Update(keyRunes("n"))
	p.Update(keyRunes("Gamma"))
	first := p.Update(keyEnter)
	require.NotNil(t, first)
	assert.True(t, p.Submitting())
	assert.Nil(t, p.Update(keyEnter))

	drain(t, p.Update, first)
	assert.Equal(t, 1, backend.calls["CreateProject"])
	assert.False(t, p.Submitting())
}

func TestProjects_EditPrefillsAndUpdates(t *testing.T) {
	p, backend := newTestProjects(t)

	p.Update(keyRunes("e"))
	target, ok := p.Dialog().Target()
	require.True(t, ok)
	assert.Equal(t, int64(1), target.ID)
	assert.Equal(t, "Alpha", p.titleInput.Value())

	p.Update(keyRunes("!"))
	drain(t, p.Update, p.Update(keyEnter))

	assert.Equal(t, "Alpha!", backend.last["UpdateProject"])
	assert.Equal(t, "Alpha!", p.Projects()[0].Title)
	assert.Equal(t, "Project updated", p.Banner().Text)
}

func TestProjects_DeleteNeedsConfirmation(t *testing.T) {
	p, backend := newTestProjects(t)

	p.Update(keyRunes("d"))
	require.True(t, p.Dialog().Is(dialog.Deleting))
	p.Update(keyEsc)
	assert.False(t, p.Dialog().Open())
	assert.Zero(t, backend.calls["DeleteProject"])

	p.Update(keyRunes("d"))
	drain(t, p.Update, p.Update(keyRunes("y")))

	assert.Equal(t, int64(1), backend.last["DeleteProject"])
	require.Len(t, p.Projects(), 1)
	assert.Equal(t, "Beta", p.Projects()[0].Title)
}

func TestProjects_FailedMutationKeepsDialogAndList(t *testing.T) {
	p, backend := newTestProjects(t)
	backend.mutateErr = &api.APIError{StatusCode: http.StatusInternalServerError}

	p.Update(keyRunes("n"))
	p.Update(keyRunes("Gamma"))
	drain(t, p.Update, p.Update(keyEnter))

	assert.True(t, p.Dialog().Is(dialog.Creating))
	assert.True(t, p.Banner().IsError())
	assert.Equal(t, "Failed to create project", p.Banner().Text)
	assert.Equal(t, 1, backend.calls["ListProjects"])
	assert.Len(t, p.Projects(), 2)
}

func TestProjects_FailedRefetchKeepsPriorList(t *testing.T) {
	p, backend := newTestProjects(t)
	backend.listErr = errors.New("boom")

	drain(t, p.Update, p.Update(keyRunes("r")))

	assert.Equal(t, "Failed to load projects", p.Banner().Text)
	assert.Len(t, p.Projects(), 2)

	p.Update(keyRunes("x"))
	assert.False(t, p.Banner().Visible())
}

func TestProjects_StaleFetchDropped(t *testing.T) {
	p, _ := newTestProjects(t)

	stale := p.fetchSeq
	p.fetch()
	p.Update(projectsLoadedMsg{seq: stale, projects: []models.Project{{ID: 9, Title: "Old"}}})

	assert.Len(t, p.Projects(), 2)
	assert.True(t, p.Loading())
}

func openDetails(t *testing.T, p *Projects) {
	t.Helper()
	drain(t, p.Update, p.Update(keyEnter))
	require.True(t, p.Dialog().Is(dialog.Viewing))
}

func TestProjects_UserSearchDebounce(t *testing.T) {
	p, backend := newTestProjects(t)
	backend.users = []models.User{{ID: "u-1", Username: "ann", Email: "ann@example.com"}}
	openDetails(t, p)

	p.Update(keyRunes("a"))
	require.True(t, p.searchFocused)

	// One character never schedules a search
	assert.Nil(t, p.searchChanged())
	p.Update(keyRunes("a"))
	assert.Nil(t, p.SearchResults())

	p.Update(keyRunes("n"))
	firstSeq := p.searchSeq
	p.Update(keyRunes("n"))
	lastSeq := p.searchSeq
	require.NotEqual(t, firstSeq, lastSeq)

	// Only the tick of the last keystroke reaches the backend
	assert.Nil(t, p.Update(userSearchTickMsg{seq: firstSeq, query: "an"}))
	drain(t, p.Update, p.Update(userSearchTickMsg{seq: lastSeq, query: "ann"}))

	assert.Equal(t, 1, backend.calls["SearchUsers"])
	assert.Equal(t, "ann", backend.last["SearchUsers"])
	require.Len(t, p.SearchResults(), 1)
}

func TestProjects_ShortQueryClearsResults(t *testing.T) {
	p, backend := newTestProjects(t)
	backend.users = []models.User{{ID: "u-1", Username: "ann"}}
	openDetails(t, p)

	p.Update(keyRunes("a"))
	p.Update(keyRunes("an"))
	drain(t, p.Update, p.Update(userSearchTickMsg{seq: p.searchSeq, query: "an"}))
	require.Len(t, p.SearchResults(), 1)

	p.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "a", p.searchInput.Value())
	assert.Nil(t, p.SearchResults())
	assert.Equal(t, 1, backend.calls["SearchUsers"])
}

func TestProjects_StaleSearchResultsDropped(t *testing.T) {
	p, _ := newTestProjects(t)
	openDetails(t, p)

	p.Update(keyRunes("a"))
	p.Update(keyRunes("bob"))
	stale := p.searchSeq
	p.Update(keyRunes("x"))

	p.Update(usersFoundMsg{seq: stale, users: []models.User{{ID: "old"}}})
	assert.Nil(t, p.SearchResults())
}

func TestProjects_AddAndRemoveUser(t *testing.T) {
	p, backend := newTestProjects(t)
	backend.users = []models.User{{ID: "u-1", Username: "ann", Email: "ann@example.com"}}
	openDetails(t, p)

	p.Update(keyRunes("a"))
	p.Update(keyRunes("ann"))
	drain(t, p.Update, p.Update(userSearchTickMsg{seq: p.searchSeq, query: "ann"}))
	drain(t, p.Update, p.Update(keyEnter))

	assert.Equal(t, "u-1", backend.last["AddUserToProject"])
	viewing, _ := p.Dialog().Target()
	require.Len(t, viewing.Users, 1)
	assert.Equal(t, "User added to project", p.Banner().Text)
	assert.Equal(t, 2, backend.calls["ListProjects"])
	assert.False(t, p.searchFocused)

	drain(t, p.Update, p.Update(keyDel))
	assert.Equal(t, "u-1", backend.last["RemoveUserFromProject"])
	viewing, _ = p.Dialog().Target()
	assert.Empty(t, viewing.Users)
	assert.Equal(t, 3, backend.calls["ListProjects"])
}

func TestProjects_MembershipErrorShowsBackendText(t *testing.T) {
	p, backend := newTestProjects(t)
	backend.projects[0].Users = []models.User{{ID: "u-1", Username: "ann"}}
	openDetails(t, p)

	backend.mutateErr = &api.APIError{StatusCode: http.StatusForbidden}
	drain(t, p.Update, p.Update(keyDel))

	assert.Equal(t, "API Error: Forbidden", p.Banner().Text)
	viewing, _ := p.Dialog().Target()
	assert.Len(t, viewing.Users, 1)
}

func TestProjects_RefreshKeyNeverRemovesMember(t *testing.T) {
	p, backend := newTestProjects(t)
	backend.projects[0].Users = []models.User{{ID: "u-1", Username: "ann"}}
	openDetails(t, p)

	drain(t, p.Update, p.Update(keyRunes("r")))

	assert.Zero(t, backend.calls["RemoveUserFromProject"])
	viewing, _ := p.Dialog().Target()
	assert.Len(t, viewing.Users, 1)
}

func TestProjects_SearchWaitsForDebounce(t *testing.T) {
	p, backend := newTestProjects(t)
	backend.users = []models.User{{ID: "u-1", Username: "ann"}}
	assert.Equal(t, 500*time.Millisecond, p.debounce)

	openDetails(t, p)
	p.Update(keyRunes("a"))
	p.debounce = 20 * time.Millisecond

	p.searchInput.SetValue("an")
	first := p.searchChanged()
	p.searchInput.SetValue("ann")
	last := p.searchChanged()
	require.NotNil(t, first)
	require.NotNil(t, last)

	start := time.Now()
	drain(t, p.Update, first)
	assert.GreaterOrEqual(t, time.Since(start), p.debounce)
	assert.Zero(t, backend.calls["SearchUsers"])

	drain(t, p.Update, last)
	assert.Equal(t, 1, backend.calls["SearchUsers"])
	assert.Equal(t, "ann", backend.last["SearchUsers"])
	assert.Len(t, p.SearchResults(), 1)
}

func TestProjects_TitleCursorKeepsBlinking(t *testing.T) {
	p, _ := newTestProjects(t)

	focus := p.Update(keyRunes("n"))
	require.True(t, p.Dialog().Is(dialog.Creating))
	require.NotNil(t, focus)

	blink := focus()
	before := p.titleInput.Cursor.Blink
	next := p.Update(blink)

	assert.NotNil(t, next)
	assert.NotEqual(t, before, p.titleInput.Cursor.Blink)
}
