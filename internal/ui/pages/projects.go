package pages

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"specter/internal/api"
	"specter/internal/models"
	"specter/internal/ui/components"
	"specter/internal/ui/dialog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SearchDebounce is how long the user search waits for typing to pause
const SearchDebounce = 500 * time.Millisecond

// ProjectsAPI is the slice of the backend the projects page calls
type ProjectsAPI interface {
	ListProjects(ctx context.Context) ([]models.Project, error)
	CreateProject(ctx context.Context, title string) (*models.Project, error)
	GetProject(ctx context.Context, projectID int64) (*models.Project, error)
	UpdateProject(ctx context.Context, projectID int64, title string) (*models.Project, error)
	DeleteProject(ctx context.Context, projectID int64) error
	SearchUsers(ctx context.Context, query string) ([]models.User, error)
	AddUserToProject(ctx context.Context, projectID int64, userID string) (*models.Project, error)
	RemoveUserFromProject(ctx context.Context, projectID int64, userID string) (*models.Project, error)
}

type projectOp string

const (
	opCreateProject projectOp = "create"
	opUpdateProject projectOp = "update"
	opDeleteProject projectOp = "delete"
	opAddUser       projectOp = "add user"
	opRemoveUser    projectOp = "remove user"
)

var projectOpText = map[projectOp][2]string{
	opCreateProject: {"Project created", "Failed to create project"},
	opUpdateProject: {"Project updated", "Failed to update project"},
	opDeleteProject: {"Project deleted", "Failed to delete project"},
	opAddUser:       {"User added to project", "Failed to add user to project"},
	opRemoveUser:    {"User removed from project", "Failed to remove user from project"},
}

type projectsLoadedMsg struct {
	seq      int
	projects []models.Project
	err      error
}

type projectSavedMsg struct {
	op  projectOp
	err error
}

type projectDetailsMsg struct {
	seq     int
	project *models.Project
	err     error
}

type membershipChangedMsg struct {
	op      projectOp
	project *models.Project
	err     error
}

type userSearchTickMsg struct {
	seq   int
	query string
}

type usersFoundMsg struct {
	seq   int
	users []models.User
	err   error
}

// Projects is the "My Projects" page
type Projects struct {
	base

	api      ProjectsAPI
	list     components.EntityListModel[models.Project]
	projects []models.Project
	dialog   dialog.State[models.Project]

	titleInput textinput.Model

	detailSeq      int
	detailsLoading bool
	memberCursor   int

	searchInput   textinput.Model
	searchFocused bool
	searchSeq     int
	searching     bool
	searchResults []models.User
	resultCursor  int
	debounce      time.Duration
}

// NewProjects creates the projects page
func NewProjects(client ProjectsAPI, opts Options) *Projects {
	title := textinput.New()
	title.Placeholder = "Project title"
	title.CharLimit = 120

	search := textinput.New()
	search.Placeholder = "Search by email or username"
	search.CharLimit = 120

	return &Projects{
		base:        newBase(opts),
		api:         client,
		list:        components.NewEntityListModel("My Projects", describeProject),
		titleInput:  title,
		searchInput: search,
		debounce:    SearchDebounce,
	}
}

func describeProject(p models.Project) (string, string) {
	desc := fmt.Sprintf("#%d", p.ID)
	if n := len(p.Users); n > 0 {
		desc += fmt.Sprintf(" · %d member(s)", n)
	}
	return p.Title, desc
}

func (p *Projects) Title() string { return "Projects" }

// Projects returns the last fetched list
func (p *Projects) Projects() []models.Project { return p.projects }

// Dialog returns the current dialog state
func (p *Projects) Dialog() dialog.State[models.Project] { return p.dialog }

// SearchResults returns the users found by the last completed search
func (p *Projects) SearchResults() []models.User { return p.searchResults }

// Enter fetches the project list
func (p *Projects) Enter() tea.Cmd {
	return tea.Batch(p.spinner.Tick, p.fetch())
}

// CapturingInput reports whether keys must go to the page before any
// global shortcut
func (p *Projects) CapturingInput() bool {
	return p.dialog.Open() || p.list.Filtering()
}

// SelectedID returns the id of the highlighted project
func (p *Projects) SelectedID() (string, bool) {
	if project, ok := p.list.Selected(); ok {
		return strconv.FormatInt(project.ID, 10), true
	}
	return "", false
}

func (p *Projects) SetSize(width, height int) {
	p.base.SetSize(width, height)
	p.list.SetSize(width, p.bodyHeight())
	p.titleInput.Width = components.ModalBodyWidth(width) - 2
	p.searchInput.Width = components.ModalBodyWidth(width) - 2
}

func (p *Projects) ShortHelp() []key.Binding {
	if p.dialog.Is(dialog.Viewing) {
		return []key.Binding{Keys.AddUser, Keys.Remove, escOnly}
	}
	return []key.Binding{Keys.New, Keys.Edit, Keys.Delete, Keys.View, Keys.Refresh}
}

func (p *Projects) fetch() tea.Cmd {
	p.fetchSeq++
	seq := p.fetchSeq
	p.loading = true

	client := p.api
	return func() tea.Msg {
		projects, err := client.ListProjects(context.Background())
		return projectsLoadedMsg{seq: seq, projects: projects, err: err}
	}
}

// Update handles page messages
func (p *Projects) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		return p.updateSpinner(msg)

	case projectsLoadedMsg:
		if msg.seq != p.fetchSeq {
			return nil
		}
		p.loading = false
		if msg.err != nil {
			p.fail("list projects", "Failed to load projects", msg.err)
			return nil
		}
		p.projects = msg.projects
		p.list.SetItems(msg.projects)
		return nil

	case projectSavedMsg:
		p.submitting = false
		text := projectOpText[msg.op]
		if msg.err != nil {
			p.fail(string(msg.op)+" project", text[1], msg.err)
			return nil
		}
		p.dialog = dialog.Close[models.Project]()
		p.succeed(text[0])
		return p.fetch()

	case projectDetailsMsg:
		if msg.seq != p.detailSeq {
			return nil
		}
		p.detailsLoading = false
		if msg.err != nil {
			p.fail("project details", "Failed to load project details", msg.err)
			return nil
		}
		p.showProject(msg.project)
		return nil

	case membershipChangedMsg:
		p.submitting = false
		text := projectOpText[msg.op]
		if msg.err != nil {
			p.logger.Error("operation failed", "op", msg.op, "error", msg.err)
			p.banner = components.Error(apiErrorText(msg.err, text[1]))
			return nil
		}
		p.showProject(msg.project)
		if msg.op == opAddUser {
			p.resetSearch()
		}
		p.succeed(text[0])
		return p.fetch()

	case userSearchTickMsg:
		if msg.seq != p.searchSeq {
			return nil
		}
		return p.searchCmd(msg.seq, msg.query)

	case usersFoundMsg:
		if msg.seq != p.searchSeq {
			return nil
		}
		p.searching = false
		if msg.err != nil {
			p.logger.Error("user search failed", "error", msg.err)
			return nil
		}
		p.searchResults = msg.users
		p.resultCursor = 0
		return nil

	case tea.KeyMsg:
		if p.dialog.Open() {
			return p.handleDialogKey(msg)
		}
		return p.handleListKey(msg)
	}

	var cmd tea.Cmd
	p.list, cmd = p.list.Update(msg)
	return tea.Batch(cmd, p.updateFocusedInput(msg))
}

// updateFocusedInput hands non-key messages such as cursor blinks to the
// input the open dialog is editing
func (p *Projects) updateFocusedInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case p.dialog.Is(dialog.Creating), p.dialog.Is(dialog.Editing):
		p.titleInput, cmd = p.titleInput.Update(msg)
	case p.dialog.Is(dialog.Viewing) && p.searchFocused:
		p.searchInput, cmd = p.searchInput.Update(msg)
	}
	return cmd
}

// showProject updates the open detail dialog with a fresher copy
func (p *Projects) showProject(project *models.Project) {
	if project == nil {
		return
	}
	current, ok := p.dialog.Target()
	if !ok || !p.dialog.Is(dialog.Viewing) || current.ID != project.ID {
		return
	}
	p.dialog = p.dialog.WithTarget(*project)
	if p.memberCursor >= len(project.Users) {
		p.memberCursor = max(0, len(project.Users)-1)
	}
}

func (p *Projects) handleListKey(msg tea.KeyMsg) tea.Cmd {
	if p.list.Filtering() {
		var cmd tea.Cmd
		p.list, cmd = p.list.Update(msg)
		return cmd
	}
	if p.dismiss(msg) {
		return nil
	}

	switch {
	case key.Matches(msg, Keys.New):
		p.dialog = dialog.Create[models.Project]()
		p.titleInput.SetValue("")
		return p.titleInput.Focus()

	case key.Matches(msg, Keys.Refresh):
		return p.fetch()
	}

	selected, ok := p.list.Selected()
	if ok {
		switch {
		case key.Matches(msg, Keys.Edit):
			p.dialog = dialog.Edit(selected)
			p.titleInput.SetValue(selected.Title)
			p.titleInput.CursorEnd()
			return p.titleInput.Focus()

		case key.Matches(msg, Keys.Delete):
			p.dialog = dialog.Delete(selected)
			return nil

		case key.Matches(msg, Keys.View):
			return p.openDetails(selected)
		}
	}

	var cmd tea.Cmd
	p.list, cmd = p.list.Update(msg)
	return cmd
}

func (p *Projects) openDetails(project models.Project) tea.Cmd {
	p.dialog = dialog.View(project)
	p.memberCursor = 0
	p.resetSearch()
	p.detailsLoading = true
	p.detailSeq++
	seq := p.detailSeq

	client := p.api
	return func() tea.Msg {
		detailed, err := client.GetProject(context.Background(), project.ID)
		return projectDetailsMsg{seq: seq, project: detailed, err: err}
	}
}

func (p *Projects) handleDialogKey(msg tea.KeyMsg) tea.Cmd {
	switch p.dialog.Kind() {
	case dialog.Creating, dialog.Editing:
		switch {
		case key.Matches(msg, escOnly):
			p.closeDialog()
			return nil
		case key.Matches(msg, Keys.Submit):
			return p.submitTitle()
		}
		var cmd tea.Cmd
		p.titleInput, cmd = p.titleInput.Update(msg)
		return cmd

	case dialog.Deleting:
		switch {
		case key.Matches(msg, Keys.Confirm):
			return p.submitDelete()
		case key.Matches(msg, Keys.Cancel):
			p.closeDialog()
		}
		return nil

	case dialog.Viewing:
		if p.searchFocused {
			return p.handleSearchKey(msg)
		}
		return p.handleDetailKey(msg)
	}
	return nil
}

func (p *Projects) closeDialog() {
	p.dialog = dialog.Close[models.Project]()
	p.titleInput.Blur()
	p.resetSearch()
	p.detailSeq++
	p.detailsLoading = false
}

func (p *Projects) submitTitle() tea.Cmd {
	if p.submitting {
		return nil
	}
	title := strings.TrimSpace(p.titleInput.Value())
	if title == "" {
		return nil
	}

	client := p.api
	p.submitting = true
	p.banner = components.Banner{}

	if target, ok := p.dialog.Target(); ok && p.dialog.Is(dialog.Editing) {
		id := target.ID
		return func() tea.Msg {
			_, err := client.UpdateProject(context.Background(), id, title)
			return projectSavedMsg{op: opUpdateProject, err: err}
		}
	}
	return func() tea.Msg {
		_, err := client.CreateProject(context.Background(), title)
		return projectSavedMsg{op: opCreateProject, err: err}
	}
}

func (p *Projects) submitDelete() tea.Cmd {
	target, ok := p.dialog.Target()
	if !ok || p.submitting {
		return nil
	}

	client := p.api
	p.submitting = true
	p.banner = components.Banner{}
	return func() tea.Msg {
		err := client.DeleteProject(context.Background(), target.ID)
		return projectSavedMsg{op: opDeleteProject, err: err}
	}
}

func (p *Projects) handleDetailKey(msg tea.KeyMsg) tea.Cmd {
	project, _ := p.dialog.Target()

	switch {
	case key.Matches(msg, escOnly):
		p.closeDialog()
		return nil
	case key.Matches(msg, Keys.AddUser):
		p.searchFocused = true
		return p.searchInput.Focus()
	case key.Matches(msg, Keys.Up):
		if p.memberCursor > 0 {
			p.memberCursor--
		}
	case key.Matches(msg, Keys.Down):
		if p.memberCursor < len(project.Users)-1 {
			p.memberCursor++
		}
	case key.Matches(msg, Keys.Remove):
		if p.memberCursor < len(project.Users) {
			return p.changeMembership(opRemoveUser, project.ID, project.Users[p.memberCursor].ID)
		}
	}
	return nil
}

func (p *Projects) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		p.resetSearch()
		return nil
	case tea.KeyUp:
		if p.resultCursor > 0 {
			p.resultCursor--
		}
		return nil
	case tea.KeyDown:
		if p.resultCursor < len(p.searchResults)-1 {
			p.resultCursor++
		}
		return nil
	case tea.KeyEnter:
		if p.resultCursor < len(p.searchResults) {
			project, _ := p.dialog.Target()
			return p.changeMembership(opAddUser, project.ID, p.searchResults[p.resultCursor].ID)
		}
		return nil
	}

	before := p.searchInput.Value()
	var cmd tea.Cmd
	p.searchInput, cmd = p.searchInput.Update(msg)
	if p.searchInput.Value() == before {
		return cmd
	}
	return tea.Batch(cmd, p.searchChanged())
}

// searchChanged restarts the debounce window. Queries under the minimum
// length clear the results and never reach the backend.
func (p *Projects) searchChanged() tea.Cmd {
	p.searchSeq++
	p.resultCursor = 0

	query := strings.TrimSpace(p.searchInput.Value())
	if len([]rune(query)) < api.MinSearchLength {
		p.searchResults = nil
		p.searching = false
		return nil
	}

	p.searching = true
	seq := p.searchSeq
	return tea.Tick(p.debounce, func(time.Time) tea.Msg {
		return userSearchTickMsg{seq: seq, query: query}
	})
}

func (p *Projects) searchCmd(seq int, query string) tea.Cmd {
	client := p.api
	return func() tea.Msg {
		users, err := client.SearchUsers(context.Background(), query)
		return usersFoundMsg{seq: seq, users: users, err: err}
	}
}

func (p *Projects) resetSearch() {
	p.searchSeq++
	p.searchFocused = false
	p.searchInput.Blur()
	p.searchInput.SetValue("")
	p.searchResults = nil
	p.searching = false
	p.resultCursor = 0
}

func (p *Projects) changeMembership(op projectOp, projectID int64, userID string) tea.Cmd {
	if p.submitting {
		return nil
	}
	p.submitting = true
	p.banner = components.Banner{}

	client := p.api
	return func() tea.Msg {
		var (
			project *models.Project
			err     error
		)
		if op == opAddUser {
			project, err = client.AddUserToProject(context.Background(), projectID, userID)
		} else {
			project, err = client.RemoveUserFromProject(context.Background(), projectID, userID)
		}
		return membershipChangedMsg{op: op, project: project, err: err}
	}
}

// View renders the page
func (p *Projects) View() string {
	var body string
	switch {
	case p.dialog.Open():
		body = p.overlay(p.dialogView())
	case p.loading && len(p.projects) == 0:
		body = p.loadingView("projects")
	case len(p.projects) == 0:
		body = components.MutedStyle().PaddingLeft(1).Render("No projects yet. Press n to create one.")
	default:
		body = p.list.View()
	}
	return p.frame("My Projects", body)
}

func (p *Projects) dialogView() string {
	target, _ := p.dialog.Target()

	switch p.dialog.Kind() {
	case dialog.Creating:
		return components.RenderModal(p.width, "Create New Project", p.titleInput.View(), p.submitHelp())
	case dialog.Editing:
		return components.RenderModal(p.width, "Edit Project", p.titleInput.View(), p.submitHelp())
	case dialog.Deleting:
		body := fmt.Sprintf("Are you sure you want to delete %q? This action cannot be undone.", target.Title)
		if p.submitting {
			body += "\n\n" + p.spinner.View() + " Deleting..."
		}
		return components.RenderConfirm(p.width, "Delete Project", body)
	case dialog.Viewing:
		return components.RenderModal(p.width, target.Title, p.detailsView(target), p.detailsHelp())
	}
	return ""
}

func (p *Projects) submitHelp() string {
	if p.submitting {
		return p.spinner.View() + " Saving..."
	}
	return "enter: save   esc: cancel"
}

func (p *Projects) detailsHelp() string {
	if p.searchFocused {
		return "type to search   ↑/↓: select   enter: add   esc: stop searching"
	}
	return "a: add user   ↑/↓: select member   del: remove   esc: close"
}

func (p *Projects) detailsView(project models.Project) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", components.MutedStyle().Render(fmt.Sprintf("Project ID: %d", project.ID)))

	b.WriteString(components.TextStyle().Bold(true).Render("Team Members"))
	b.WriteString("\n")
	switch {
	case p.detailsLoading:
		b.WriteString(p.spinner.View() + " Loading project details...\n")
	case len(project.Users) == 0:
		b.WriteString(components.MutedStyle().Render("No team members yet") + "\n")
	default:
		for i, u := range project.Users {
			line := fmt.Sprintf("%s  %s", u.DisplayName(), components.MutedStyle().Render(u.Email))
			if i == p.memberCursor && !p.searchFocused {
				line = components.SelectedStyle().Render("› ") + line
			} else {
				line = "  " + line
			}
			b.WriteString(line + "\n")
		}
	}

	if p.searchFocused || p.searchInput.Value() != "" {
		b.WriteString("\n")
		b.WriteString(p.searchInput.View())
		b.WriteString("\n")
		b.WriteString(p.searchResultsView(project))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (p *Projects) searchResultsView(project models.Project) string {
	if p.searching {
		return p.spinner.View() + " Searching..."
	}
	query := strings.TrimSpace(p.searchInput.Value())
	if len([]rune(query)) < api.MinSearchLength {
		return components.MutedStyle().Render("Type at least 2 characters")
	}
	if len(p.searchResults) == 0 {
		return components.MutedStyle().Render("No users found")
	}

	members := make(map[string]bool, len(project.Users))
	for _, u := range project.Users {
		members[u.ID] = true
	}

	lines := make([]string, 0, len(p.searchResults))
	for i, u := range p.searchResults {
		line := fmt.Sprintf("%s  %s", u.DisplayName(), components.MutedStyle().Render(u.Email))
		if members[u.ID] {
			line += components.MutedStyle().Render("  (member)")
		}
		if i == p.resultCursor {
			line = components.SelectedStyle().Render("› ") + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
