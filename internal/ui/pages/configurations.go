package pages

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"specter/internal/models"
	"specter/internal/ui/components"
	"specter/internal/ui/dialog"
	"specter/internal/util"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// ConfigurationsAPI is the slice of the backend the configurations page calls
type ConfigurationsAPI interface {
	ListProjects(ctx context.Context) ([]models.Project, error)
	ListProjectConfigurations(ctx context.Context, projectID int64) ([]models.Configuration, error)
	CreateConfiguration(ctx context.Context, projectID int64, contextText string) (*models.Configuration, error)
	UpdateConfiguration(ctx context.Context, configID int64, contextText string) (*models.Configuration, error)
	DeleteConfiguration(ctx context.Context, configID int64) error
}

type configOp string

const (
	opCreateConfig configOp = "create"
	opUpdateConfig configOp = "update"
	opDeleteConfig configOp = "delete"
)

var configOpText = map[configOp][2]string{
	opCreateConfig: {"Configuration created", "Failed to create configuration"},
	opUpdateConfig: {"Configuration updated", "Failed to update configuration"},
	opDeleteConfig: {"Configuration deleted", "Failed to delete configuration"},
}

type configPane int

const (
	paneProjects configPane = iota
	paneConfigs
)

type configProjectsLoadedMsg struct {
	seq      int
	projects []models.Project
	err      error
}

type configurationsLoadedMsg struct {
	seq       int
	projectID int64
	configs   []models.Configuration
	err       error
}

type configurationSavedMsg struct {
	op        configOp
	projectID int64
	err       error
}

// Configurations lists a project's free-text configurations
type Configurations struct {
	base

	api      ConfigurationsAPI
	pane     configPane
	projects components.EntityListModel[models.Project]
	configs  components.EntityListModel[models.Configuration]
	dialog   dialog.State[models.Configuration]

	selectedProject *models.Project
	configSeq       int
	loadingConfigs  bool
	configurations  []models.Configuration

	editor textarea.Model
	reader viewport.Model
}

// NewConfigurations creates the configurations page
func NewConfigurations(client ConfigurationsAPI, opts Options) *Configurations {
	editor := textarea.New()
	editor.Placeholder = "Describe the configuration context (markdown)"
	editor.ShowLineNumbers = false
	editor.CharLimit = 0

	return &Configurations{
		base:     newBase(opts),
		api:      client,
		projects: components.NewEntityListModel("Select a Project", describeProject),
		configs:  components.NewEntityListModel("Configurations", describeConfiguration),
		editor:   editor,
		reader:   viewport.New(0, 0),
	}
}

func describeConfiguration(c models.Configuration) (string, string) {
	title := util.Truncate(util.FirstLine(c.Context), 60)
	if title == "" {
		title = "(empty)"
	}
	desc := fmt.Sprintf("#%d", c.ID)
	if name := c.User.DisplayName(); name != "" {
		desc += " · " + name
	}
	return title, desc
}

func (c *Configurations) Title() string { return "Configurations" }

// SelectedProject returns the project whose configurations are shown
func (c *Configurations) SelectedProject() *models.Project { return c.selectedProject }

// Configurations returns the last fetched configurations
func (c *Configurations) Configurations() []models.Configuration { return c.configurations }

// Dialog returns the current dialog state
func (c *Configurations) Dialog() dialog.State[models.Configuration] { return c.dialog }

// Enter loads the project picker and, when a project is already chosen,
// its configurations
func (c *Configurations) Enter() tea.Cmd {
	cmds := []tea.Cmd{c.spinner.Tick, c.fetchProjects()}
	if c.selectedProject != nil {
		cmds = append(cmds, c.fetchConfigs(c.selectedProject.ID))
	}
	return tea.Batch(cmds...)
}

func (c *Configurations) CapturingInput() bool {
	return c.dialog.Open() || c.projects.Filtering() || c.configs.Filtering()
}

func (c *Configurations) SelectedID() (string, bool) {
	if c.pane == paneConfigs {
		if cfg, ok := c.configs.Selected(); ok {
			return strconv.FormatInt(cfg.ID, 10), true
		}
		return "", false
	}
	if project, ok := c.projects.Selected(); ok {
		return strconv.FormatInt(project.ID, 10), true
	}
	return "", false
}

func (c *Configurations) SetSize(width, height int) {
	c.base.SetSize(width, height)
	c.projects.SetSize(width, c.bodyHeight())
	c.configs.SetSize(width, c.bodyHeight()-1)

	bodyW := components.ModalBodyWidth(width)
	c.editor.SetWidth(bodyW)
	c.editor.SetHeight(max(3, c.bodyHeight()-10))
	c.reader.Width = bodyW
	c.reader.Height = max(3, c.bodyHeight()-8)
}

func (c *Configurations) ShortHelp() []key.Binding {
	if c.pane == paneProjects {
		return []key.Binding{Keys.View, Keys.Refresh}
	}
	return []key.Binding{Keys.New, Keys.Edit, Keys.Delete, Keys.View, Keys.Pick}
}

func (c *Configurations) fetchProjects() tea.Cmd {
	c.fetchSeq++
	seq := c.fetchSeq
	c.loading = true

	client := c.api
	return func() tea.Msg {
		projects, err := client.ListProjects(context.Background())
		return configProjectsLoadedMsg{seq: seq, projects: projects, err: err}
	}
}

func (c *Configurations) fetchConfigs(projectID int64) tea.Cmd {
	c.configSeq++
	seq := c.configSeq
	c.loadingConfigs = true

	client := c.api
	return func() tea.Msg {
		configs, err := client.ListProjectConfigurations(context.Background(), projectID)
		return configurationsLoadedMsg{seq: seq, projectID: projectID, configs: configs, err: err}
	}
}

// Update handles page messages
func (c *Configurations) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		return c.updateSpinner(msg)

	case configProjectsLoadedMsg:
		if msg.seq != c.fetchSeq {
			return nil
		}
		c.loading = false
		if msg.err != nil {
			c.fail("list projects", "Failed to load projects", msg.err)
			return nil
		}
		c.projects.SetItems(msg.projects)
		return nil

	case configurationsLoadedMsg:
		if msg.seq != c.configSeq {
			return nil
		}
		c.loadingConfigs = false
		if msg.err != nil {
			c.fail("list configurations", "Failed to load configurations", msg.err)
			return nil
		}
		c.configurations = msg.configs
		c.configs.SetItems(msg.configs)
		return nil

	case configurationSavedMsg:
		c.submitting = false
		text := configOpText[msg.op]
		if msg.err != nil {
			c.fail(string(msg.op)+" configuration", text[1], msg.err)
			return nil
		}
		c.closeDialog()
		c.succeed(text[0])
		if c.selectedProject != nil && c.selectedProject.ID == msg.projectID {
			return c.fetchConfigs(msg.projectID)
		}
		return nil

	case tea.KeyMsg:
		if c.dialog.Open() {
			return c.handleDialogKey(msg)
		}
		if c.pane == paneProjects {
			return c.handleProjectKey(msg)
		}
		return c.handleConfigKey(msg)
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	c.projects, cmd = c.projects.Update(msg)
	cmds = append(cmds, cmd)
	c.configs, cmd = c.configs.Update(msg)
	cmds = append(cmds, cmd)
	if c.dialog.Is(dialog.Creating) || c.dialog.Is(dialog.Editing) {
		c.editor, cmd = c.editor.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// SelectProject shows the configurations of project
func (c *Configurations) SelectProject(project models.Project) tea.Cmd {
	c.selectedProject = &project
	c.pane = paneConfigs
	c.configurations = nil
	c.configs.SetItems(nil)
	c.configs.List.Title = "Configurations · " + project.Title
	return c.fetchConfigs(project.ID)
}

func (c *Configurations) handleProjectKey(msg tea.KeyMsg) tea.Cmd {
	if c.projects.Filtering() {
		var cmd tea.Cmd
		c.projects, cmd = c.projects.Update(msg)
		return cmd
	}
	if c.dismiss(msg) {
		return nil
	}

	switch {
	case key.Matches(msg, Keys.Refresh):
		return c.fetchProjects()
	case key.Matches(msg, Keys.View):
		if project, ok := c.projects.Selected(); ok {
			return c.SelectProject(project)
		}
		return nil
	}

	var cmd tea.Cmd
	c.projects, cmd = c.projects.Update(msg)
	return cmd
}

func (c *Configurations) handleConfigKey(msg tea.KeyMsg) tea.Cmd {
	if c.configs.Filtering() {
		var cmd tea.Cmd
		c.configs, cmd = c.configs.Update(msg)
		return cmd
	}
	if c.dismiss(msg) {
		return nil
	}

	switch {
	case key.Matches(msg, Keys.Pick):
		c.pane = paneProjects
		return nil
	case key.Matches(msg, Keys.Refresh):
		if c.selectedProject != nil {
			return c.fetchConfigs(c.selectedProject.ID)
		}
		return nil
	case key.Matches(msg, Keys.New):
		c.dialog = dialog.Create[models.Configuration]()
		c.editor.SetValue("")
		return c.editor.Focus()
	}

	selected, ok := c.configs.Selected()
	if ok {
		switch {
		case key.Matches(msg, Keys.Edit):
			c.dialog = dialog.Edit(selected)
			c.editor.SetValue(selected.Context)
			return c.editor.Focus()
		case key.Matches(msg, Keys.Delete):
			c.dialog = dialog.Delete(selected)
			return nil
		case key.Matches(msg, Keys.View):
			c.dialog = dialog.View(selected)
			c.reader.SetContent(components.RenderMarkdown(selected.Context, c.reader.Width, c.dark))
			c.reader.GotoTop()
			return nil
		}
	}

	var cmd tea.Cmd
	c.configs, cmd = c.configs.Update(msg)
	return cmd
}

func (c *Configurations) handleDialogKey(msg tea.KeyMsg) tea.Cmd {
	switch c.dialog.Kind() {
	case dialog.Creating, dialog.Editing:
		switch {
		case key.Matches(msg, escOnly):
			c.closeDialog()
			return nil
		case key.Matches(msg, Keys.Save):
			return c.submitContext()
		}
		var cmd tea.Cmd
		c.editor, cmd = c.editor.Update(msg)
		return cmd

	case dialog.Deleting:
		switch {
		case key.Matches(msg, Keys.Confirm):
			return c.submitDelete()
		case key.Matches(msg, Keys.Cancel):
			c.closeDialog()
		}
		return nil

	case dialog.Viewing:
		if key.Matches(msg, escOnly) || msg.String() == "q" {
			c.closeDialog()
			return nil
		}
		var cmd tea.Cmd
		c.reader, cmd = c.reader.Update(msg)
		return cmd
	}
	return nil
}

func (c *Configurations) closeDialog() {
	c.dialog = dialog.Close[models.Configuration]()
	c.editor.Blur()
}

func (c *Configurations) submitContext() tea.Cmd {
	if c.submitting || c.selectedProject == nil {
		return nil
	}
	text := c.editor.Value()
	if strings.TrimSpace(text) == "" {
		return nil
	}

	client := c.api
	projectID := c.selectedProject.ID
	c.submitting = true
	c.banner = components.Banner{}

	if target, ok := c.dialog.Target(); ok && c.dialog.Is(dialog.Editing) {
		return func() tea.Msg {
			_, err := client.UpdateConfiguration(context.Background(), target.ID, text)
			return configurationSavedMsg{op: opUpdateConfig, projectID: projectID, err: err}
		}
	}
	return func() tea.Msg {
		_, err := client.CreateConfiguration(context.Background(), projectID, text)
		return configurationSavedMsg{op: opCreateConfig, projectID: projectID, err: err}
	}
}

func (c *Configurations) submitDelete() tea.Cmd {
	target, ok := c.dialog.Target()
	if !ok || c.submitting || c.selectedProject == nil {
		return nil
	}

	client := c.api
	projectID := c.selectedProject.ID
	c.submitting = true
	c.banner = components.Banner{}
	return func() tea.Msg {
		err := client.DeleteConfiguration(context.Background(), target.ID)
		return configurationSavedMsg{op: opDeleteConfig, projectID: projectID, err: err}
	}
}

// View renders the page
func (c *Configurations) View() string {
	var body string
	switch {
	case c.dialog.Open():
		body = c.overlay(c.dialogView())
	case c.pane == paneProjects:
		body = c.projectsView()
	default:
		body = c.configsView()
	}
	return c.frame("Configurations", body)
}

func (c *Configurations) projectsView() string {
	if c.loading && c.projects.Len() == 0 {
		return c.loadingView("projects")
	}
	if c.projects.Len() == 0 {
		return components.MutedStyle().PaddingLeft(1).Render("No projects found. Create a project first.")
	}
	return c.projects.View()
}

func (c *Configurations) configsView() string {
	if c.loadingConfigs && len(c.configurations) == 0 {
		return c.loadingView("configurations")
	}
	if len(c.configurations) == 0 {
		name := ""
		if c.selectedProject != nil {
			name = c.selectedProject.Title
		}
		return components.MutedStyle().PaddingLeft(1).Render(
			fmt.Sprintf("No configurations for %s yet. Press n to add one, p to pick another project.", name))
	}
	return c.configs.View()
}

func (c *Configurations) dialogView() string {
	target, _ := c.dialog.Target()
	help := "ctrl+s: save   esc: cancel"
	if c.submitting {
		help = c.spinner.View() + " Saving..."
	}

	switch c.dialog.Kind() {
	case dialog.Creating:
		return components.RenderModal(c.width, "Create New Configuration", c.editor.View(), help)
	case dialog.Editing:
		return components.RenderModal(c.width, "Edit Configuration", c.editor.View(), help)
	case dialog.Deleting:
		return components.RenderConfirm(c.width, "Delete Configuration",
			"Are you sure you want to delete this configuration? This action cannot be undone.")
	case dialog.Viewing:
		return components.RenderModal(c.width, fmt.Sprintf("Configuration #%d", target.ID), c.reader.View(), "↑/↓: scroll   esc: close")
	}
	return ""
}
